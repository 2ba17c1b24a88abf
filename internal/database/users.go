// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

const userColumns = `id, email, name, avatar_url, password_hash, tier, role, created_at`

// CreateUser inserts a user. Emails are stored lowercased; a taken email
// returns ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Tier == "" {
		u.Tier = models.TierFree
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.AvatarURL, u.PasswordHash, u.Tier, u.Role, u.CreatedAt)
	metrics.RecordDBQuery("insert", "users", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser returns a user by ID.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail returns a user by email, case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
}

// SetUserRole changes a user's role.
func (db *DB) SetUserRole(ctx context.Context, id, role string) error {
	return db.updateUser(ctx, "role", `UPDATE users SET role = ? WHERE id = ?`, role, id)
}

// UpdateUserProfile replaces the editable profile fields.
func (db *DB) UpdateUserProfile(ctx context.Context, id, name, avatarURL string) error {
	return db.updateUser(ctx, "profile", `UPDATE users SET name = ?, avatar_url = ? WHERE id = ?`, name, avatarURL, id)
}

// SetUserPassword stores a new bcrypt hash.
func (db *DB) SetUserPassword(ctx context.Context, id, passwordHash string) error {
	return db.updateUser(ctx, "password", `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
}

func (db *DB) updateUser(ctx context.Context, what, query string, args ...any) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery("update", "users", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryUser(ctx context.Context, query string, arg string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var u models.User
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.PasswordHash, &u.Tier, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
