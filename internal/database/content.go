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

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

const (
	blockColumns    = `id, user_id, title, keyword, content_type, tone, angle, niche, status, created_at`
	platformColumns = `id, block_id, platform, caption, hashtags, hook, cta, images, video_script, reach, engagement, clicks, conversions, revenue, created_at`
)

// CreateContentBlock inserts a block and its platform rows in one
// transaction.
func (db *DB) CreateContentBlock(ctx context.Context, block *models.ContentBlock) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if block.CreatedAt.IsZero() {
		block.CreatedAt = time.Now().UTC()
	}
	if block.Status == "" {
		block.Status = models.StatusDraft
	}

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO content_blocks (`+blockColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		block.ID, block.UserID, block.Title, block.Keyword, block.ContentType,
		block.Tone, block.Angle, block.Niche, block.Status, block.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert content block: %w", err)
	}

	for i := range block.Platforms {
		pc := &block.Platforms[i]
		pc.BlockID = block.ID
		if pc.CreatedAt.IsZero() {
			pc.CreatedAt = block.CreatedAt
		}
		hashtags, err := encodeList(pc.Hashtags)
		if err != nil {
			return err
		}
		images, err := encodeList(pc.Images)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO platform_contents (`+platformColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pc.ID, pc.BlockID, pc.Platform, pc.Caption, hashtags, pc.Hook, pc.CTA, images,
			pc.VideoScript, pc.Metrics.Reach, pc.Metrics.Engagement, pc.Metrics.Clicks,
			pc.Metrics.Conversions, pc.Metrics.Revenue, pc.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert %s content: %w", pc.Platform, err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("insert", "content_blocks", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit content block: %w", err)
	}
	return nil
}

// ListContentBlocks returns a user's blocks, newest first, without platform
// rows.
func (db *DB) ListContentBlocks(ctx context.Context, userID string, limit, offset int) ([]models.ContentBlock, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM content_blocks WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	metrics.RecordDBQuery("select", "content_blocks", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list content blocks: %w", err)
	}
	defer closeWithLog(rows, "content block rows")

	blocks := make([]models.ContentBlock, 0, limit)
	for rows.Next() {
		var b models.ContentBlock
		if err := rows.Scan(scanBlock(&b)...); err != nil {
			return nil, fmt.Errorf("failed to scan content block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("content block rows: %w", err)
	}
	return blocks, nil
}

// GetContentBlock returns one of the user's blocks with its platform rows and
// metric totals.
func (db *DB) GetContentBlock(ctx context.Context, userID, blockID string) (*models.ContentBlock, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var b models.ContentBlock
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM content_blocks WHERE id = ? AND user_id = ?`,
		blockID, userID).Scan(scanBlock(&b)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content block: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+platformColumns+` FROM platform_contents WHERE block_id = ? ORDER BY created_at, platform`,
		blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform contents: %w", err)
	}
	defer closeWithLog(rows, "platform content rows")

	for rows.Next() {
		var (
			pc               models.PlatformContent
			hashtags, images string
		)
		if err := rows.Scan(&pc.ID, &pc.BlockID, &pc.Platform, &pc.Caption, &hashtags,
			&pc.Hook, &pc.CTA, &images, &pc.VideoScript, &pc.Metrics.Reach,
			&pc.Metrics.Engagement, &pc.Metrics.Clicks, &pc.Metrics.Conversions,
			&pc.Metrics.Revenue, &pc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan platform content: %w", err)
		}
		if pc.Hashtags, err = decodeList(hashtags); err != nil {
			return nil, err
		}
		if pc.Images, err = decodeList(images); err != nil {
			return nil, err
		}
		b.Totals = b.Totals.Add(pc.Metrics)
		b.Platforms = append(b.Platforms, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("platform content rows: %w", err)
	}
	return &b, nil
}

// AppendMetrics adds m to the metrics of the platform row of one of the
// user's blocks. Metrics only ever grow.
func (db *DB) AppendMetrics(ctx context.Context, userID, blockID, platform string, m models.PerformanceMetrics) error {
	key := "metrics:" + blockID + ":" + platform
	mu := db.acquireKeyLock(key)
	defer db.releaseKeyLock(key, mu)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return withConflictRetry(ctx, "platform_contents", func() error {
		start := time.Now()
		res, err := db.conn.ExecContext(ctx, `UPDATE platform_contents SET
				reach = reach + ?,
				engagement = engagement + ?,
				clicks = clicks + ?,
				conversions = conversions + ?,
				revenue = revenue + ?
			WHERE block_id = ? AND platform = ?
			AND block_id IN (SELECT id FROM content_blocks WHERE user_id = ?)`,
			m.Reach, m.Engagement, m.Clicks, m.Conversions, m.Revenue, blockID, platform, userID)
		metrics.RecordDBQuery("update", "platform_contents", time.Since(start), err)
		if err != nil {
			return fmt.Errorf("failed to append metrics: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanBlock(b *models.ContentBlock) []any {
	return []any{
		&b.ID, &b.UserID, &b.Title, &b.Keyword, &b.ContentType,
		&b.Tone, &b.Angle, &b.Niche, &b.Status, &b.CreatedAt,
	}
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(s string) ([]string, error) {
	list := []string{}
	if s == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return list, nil
}
