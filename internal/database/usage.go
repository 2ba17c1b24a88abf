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

// usageColumns maps each counter to its column. Queries are only ever built
// from these constants.
var usageColumns = map[models.UsageKind]string{
	models.UsageContentBlock:    "content_blocks_created",
	models.UsageAPICall:         "api_calls",
	models.UsageImageGeneration: "image_generations",
	models.UsageVideoGeneration: "video_generations",
}

const bucketColumns = `user_id, month, content_blocks_created, api_calls, image_generations, video_generations, updated_at`

// IncrementUsage adds one to the kind counter in the (user, month) bucket,
// creating the bucket on first use. The upsert is a single statement, so
// concurrent increments never lose updates; conflicts on the same bucket are
// serialized per key and retried.
func (db *DB) IncrementUsage(ctx context.Context, userID string, month time.Time, kind models.UsageKind) error {
	column, ok := usageColumns[kind]
	if !ok {
		return fmt.Errorf("unknown usage kind %q", kind)
	}
	month = models.MonthStart(month)

	key := "usage:" + userID + ":" + month.Format("2006-01")
	mu := db.acquireKeyLock(key)
	defer db.releaseKeyLock(key, mu)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`INSERT INTO usage_tracking (user_id, month, %[1]s, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, month) DO UPDATE SET
			%[1]s = %[1]s + 1,
			updated_at = EXCLUDED.updated_at`, column)

	return withConflictRetry(ctx, "usage_tracking", func() error {
		start := time.Now()
		_, err := db.conn.ExecContext(ctx, query, userID, month, time.Now().UTC())
		metrics.RecordDBQuery("upsert", "usage_tracking", time.Since(start), err)
		if err != nil {
			return fmt.Errorf("failed to increment %s: %w", column, err)
		}
		return nil
	})
}

// GetUsage returns the bucket for (user, month). A month with no activity
// returns a zero bucket, not ErrNotFound.
func (db *DB) GetUsage(ctx context.Context, userID string, month time.Time) (*models.UsageBucket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	month = models.MonthStart(month)
	b := models.UsageBucket{UserID: userID, Month: month}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+bucketColumns+` FROM usage_tracking WHERE user_id = ? AND month = ?`,
		userID, month).Scan(scanBucket(&b)...)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UsageBucket{UserID: userID, Month: month}, nil
	}
	metrics.RecordDBQuery("select", "usage_tracking", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	b.Month = models.MonthStart(b.Month)
	return &b, nil
}

// UsageHistory returns up to months buckets, newest first. Months without
// activity are omitted.
func (db *DB) UsageHistory(ctx context.Context, userID string, months int) ([]models.UsageBucket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if months <= 0 {
		months = 12
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+bucketColumns+` FROM usage_tracking WHERE user_id = ? ORDER BY month DESC LIMIT ?`,
		userID, months)
	metrics.RecordDBQuery("select", "usage_tracking", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage history: %w", err)
	}
	defer closeWithLog(rows, "usage rows")

	buckets := make([]models.UsageBucket, 0, months)
	for rows.Next() {
		var b models.UsageBucket
		if err := rows.Scan(scanBucket(&b)...); err != nil {
			return nil, fmt.Errorf("failed to scan usage bucket: %w", err)
		}
		b.Month = models.MonthStart(b.Month)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("usage rows: %w", err)
	}
	return buckets, nil
}

func scanBucket(b *models.UsageBucket) []any {
	return []any{
		&b.UserID, &b.Month, &b.ContentBlocksCreated, &b.APICalls,
		&b.ImageGenerations, &b.VideoGenerations, &b.UpdatedAt,
	}
}

