// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

// SaveImage adds an image to the user's library.
func (db *DB) SaveImage(ctx context.Context, img *models.Image) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	tags, err := encodeList(img.Tags)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO image_library (id, user_id, url, prompt, style, size, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.UserID, img.URL, img.Prompt, img.Style, img.Size, tags, img.CreatedAt)
	metrics.RecordDBQuery("insert", "image_library", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

// ListImages returns the user's library, newest first.
func (db *DB) ListImages(ctx context.Context, userID string, limit int) ([]models.Image, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, url, prompt, style, size, tags, created_at
		FROM image_library WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer closeWithLog(rows, "image rows")

	var out []models.Image
	for rows.Next() {
		var (
			img  models.Image
			tags string
		)
		if err := rows.Scan(&img.ID, &img.UserID, &img.URL, &img.Prompt, &img.Style,
			&img.Size, &tags, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		if img.Tags, err = decodeList(tags); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
