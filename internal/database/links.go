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
	"time"

	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

const linkColumns = `id, user_id, short_code, destination_url, platform_content_id, clicks, unique_visitors, created_at`

// CreateLink inserts a link. A taken short code returns ErrDuplicate so the
// caller can retry with a fresh code.
func (db *DB) CreateLink(ctx context.Context, l *models.TrackableLink) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO trackable_links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		l.ID, l.UserID, l.ShortCode, l.DestinationURL, l.PlatformContentID, l.CreatedAt)
	metrics.RecordDBQuery("insert", "trackable_links", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("short code %s: %w", l.ShortCode, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

// GetLink returns a link by ID.
func (db *DB) GetLink(ctx context.Context, id string) (*models.TrackableLink, error) {
	return db.queryLink(ctx, `SELECT `+linkColumns+` FROM trackable_links WHERE id = ?`, id)
}

// GetLinkByCode returns a link by short code.
func (db *DB) GetLinkByCode(ctx context.Context, code string) (*models.TrackableLink, error) {
	return db.queryLink(ctx, `SELECT `+linkColumns+` FROM trackable_links WHERE short_code = ?`, code)
}

// ListLinks returns a user's links, newest first.
func (db *DB) ListLinks(ctx context.Context, userID string) ([]models.TrackableLink, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM trackable_links WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer closeWithLog(rows, "link rows")

	var out []models.TrackableLink
	for rows.Next() {
		var l models.TrackableLink
		if err := rows.Scan(scanLink(&l)...); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// RecordClick stores a click and bumps the link counters in one
// transaction. A click is unique when its IP has not clicked the link
// before; the stored click carries the computed flag.
func (db *DB) RecordClick(ctx context.Context, c *models.LinkClick) error {
	key := "link:" + c.LinkID
	mu := db.acquireKeyLock(key)
	defer db.releaseKeyLock(key, mu)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if c.ClickedAt.IsZero() {
		c.ClickedAt = time.Now().UTC()
	}

	return withConflictRetry(ctx, "link_clicks", func() error {
		start := time.Now()
		err := db.recordClickTx(ctx, c)
		metrics.RecordDBQuery("insert", "link_clicks", time.Since(start), err)
		return err
	})
}

func (db *DB) recordClickTx(ctx context.Context, c *models.LinkClick) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	var seen int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM link_clicks WHERE link_id = ? AND ip = ?`,
		c.LinkID, c.IP).Scan(&seen); err != nil {
		return fmt.Errorf("failed to check click uniqueness: %w", err)
	}
	c.IsUnique = seen == 0

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO link_clicks (id, link_id, ip, user_agent, referer, country, device_type, browser, os, is_unique, clicked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LinkID, c.IP, c.UserAgent, c.Referer, c.Country, c.DeviceType,
		c.Browser, c.OS, c.IsUnique, c.ClickedAt); err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}

	unique := 0
	if c.IsUnique {
		unique = 1
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE trackable_links SET clicks = clicks + 1, unique_visitors = unique_visitors + ? WHERE id = ?`,
		unique, c.LinkID)
	if err != nil {
		return fmt.Errorf("failed to update link counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// RecentClicks returns up to limit clicks on a link, newest first.
func (db *DB) RecentClicks(ctx context.Context, linkID string, limit int) ([]models.LinkClick, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, link_id, ip, user_agent, referer, country, device_type, browser, os, is_unique, clicked_at
		FROM link_clicks WHERE link_id = ? ORDER BY clicked_at DESC LIMIT ?`,
		linkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query clicks: %w", err)
	}
	defer closeWithLog(rows, "click rows")

	var out []models.LinkClick
	for rows.Next() {
		var c models.LinkClick
		if err := rows.Scan(&c.ID, &c.LinkID, &c.IP, &c.UserAgent, &c.Referer, &c.Country,
			&c.DeviceType, &c.Browser, &c.OS, &c.IsUnique, &c.ClickedAt); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) queryLink(ctx context.Context, query, arg string) (*models.TrackableLink, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var l models.TrackableLink
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(scanLink(&l)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}
	return &l, nil
}

func scanLink(l *models.TrackableLink) []any {
	return []any{
		&l.ID, &l.UserID, &l.ShortCode, &l.DestinationURL, &l.PlatformContentID,
		&l.Clicks, &l.UniqueVisitors, &l.CreatedAt,
	}
}
