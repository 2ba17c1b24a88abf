// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

const tokenIssuer = "viralai"

// ErrInvalidToken wraps every token validation failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims. Subject holds the user ID.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Tier  string `json:"tier"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string { return c.Subject }

// IsAdmin reports whether the token carries the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == models.RoleAdmin }

// JWTManager handles JWT token creation, validation and revocation.
type JWTManager struct {
	secret      []byte
	timeout     time.Duration
	revocations RevocationStore
	now         func() time.Time
}

// NewJWTManager creates a token manager. Secret length is enforced by
// config validation; only an empty secret is rejected here.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &JWTManager{
		secret:      []byte(cfg.JWTSecret),
		timeout:     timeout,
		revocations: NewMemoryRevocationStore(),
		now:         time.Now,
	}, nil
}

// UseRevocationStore replaces the in-process revocation list. Call it
// before serving requests.
func (m *JWTManager) UseRevocationStore(store RevocationStore) {
	m.revocations = store
}

// GenerateToken signs a token for u and returns it with its expiry.
func (m *JWTManager) GenerateToken(u *models.User) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.timeout)
	claims := &Claims{
		Email: u.Email,
		Role:  u.Role,
		Tier:  u.Tier,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken checks signature, algorithm, issuer and time claims.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}

// Revoke invalidates the token behind claims until it expires. Tokens
// without an ID, such as the local user's in "none" mode, are ignored.
func (m *JWTManager) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return nil
	}
	until := m.now().Add(m.timeout)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := m.revocations.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	metrics.TokenRevocations.WithLabelValues("revoked").Inc()
	return nil
}

// IsRevoked reports whether the token behind claims was signed out.
func (m *JWTManager) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims.ID == "" {
		return false, nil
	}
	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		metrics.TokenRevocations.WithLabelValues("rejected").Inc()
	}
	return revoked, nil
}
