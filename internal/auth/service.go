// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/validation"
)

const newsletterTimeout = 5 * time.Second

var (
	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The two are not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned by Me when the token's user was deleted.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned by ChangePassword when the current
	// password does not match.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrLocalAccount is returned when modifying the "none" mode user,
	// which has no stored account.
	ErrLocalAccount = errors.New("the local development account cannot be modified")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id, name, avatarURL string) error
	SetUserPassword(ctx context.Context, id, passwordHash string) error
}

// Subscriber adds a new user to the mailing list.
type Subscriber interface {
	Subscribe(ctx context.Context, email, name string) error
}

// RegisterInput is a signup request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

// LoginInput is a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput updates the editable profile fields. Nil fields are left
// unchanged, so PUT and PATCH share it.
type ProfileInput struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=1024"`
}

// ChangePasswordInput replaces the password after checking the current one.
type ChangePasswordInput struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required,min=8,max=72"`
	NewPassword2 string `json:"new_password2" validate:"required,eqfield=NewPassword"`
}

// Session is a signed-in user with their token.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Service registers and signs in users.
type Service struct {
	users       UserStore
	tokens      *JWTManager
	newsletter  Subscriber
	adminEmails []string
	cost        int
}

// NewService creates a Service. newsletter may be nil.
func NewService(users UserStore, tokens *JWTManager, newsletter Subscriber, adminEmails []string) *Service {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins = append(admins, e)
		}
	}
	return &Service{users: users, tokens: tokens, newsletter: newsletter, adminEmails: admins, cost: bcryptCost}
}

// Register creates an account on the free tier and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Tier:         models.TierFree,
		Role:         models.RoleUser,
	}
	if slices.Contains(s.adminEmails, u.Email) {
		u.Role = models.RoleAdmin
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", u.ID).Str("role", u.Role).Msg("user registered")
	s.subscribe(ctx, u)

	return s.session(u)
}

// subscribe adds the user to the newsletter. Failures never block signup.
func (s *Service) subscribe(ctx context.Context, u *models.User) {
	if s.newsletter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), newsletterTimeout)
	defer cancel()
	if err := s.newsletter.Subscribe(ctx, u.Email, u.Name); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("newsletter subscription failed")
	}
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	u, err := s.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

// Me returns the user behind claims. In "none" mode the local user has no
// row and is synthesized from the claims.
func (s *Service) Me(ctx context.Context, claims *Claims) (*models.User, error) {
	if claims.UserID() == LocalUserID {
		return &models.User{ID: LocalUserID, Email: claims.Email, Tier: claims.Tier, Role: claims.Role}, nil
	}
	u, err := s.users.GetUser(ctx, claims.UserID())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile changes the caller's name and avatar.
func (s *Service) UpdateProfile(ctx context.Context, claims *Claims, in ProfileInput) (*models.User, error) {
	if claims.UserID() == LocalUserID {
		return nil, ErrLocalAccount
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if in.AvatarURL != nil {
		trimmed := strings.TrimSpace(*in.AvatarURL)
		in.AvatarURL = &trimmed
	}
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	u, err := s.user(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.AvatarURL != nil {
		u.AvatarURL = *in.AvatarURL
	}
	if err := s.users.UpdateUserProfile(ctx, u.ID, u.Name, u.AvatarURL); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ChangePassword checks the current password and stores the new one. The
// caller's token stays valid.
func (s *Service) ChangePassword(ctx context.Context, claims *Claims, in ChangePasswordInput) error {
	if claims.UserID() == LocalUserID {
		return ErrLocalAccount
	}
	if err := validation.Validate(&in); err != nil {
		return err
	}

	u, err := s.user(ctx, claims.UserID())
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, in.OldPassword) {
		return ErrWrongPassword
	}
	hash, err := hashPassword(in.NewPassword, s.cost)
	if err != nil {
		return err
	}
	if err := s.users.SetUserPassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set password: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("password changed")
	return nil
}

// Logout revokes the caller's token until it expires.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("user_id", claims.UserID()).Msg("user logged out")
	return nil
}

func (s *Service) user(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, expires, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
