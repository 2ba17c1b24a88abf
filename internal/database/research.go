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

// SaveKeywordResearch inserts a research record.
func (db *DB) SaveKeywordResearch(ctx context.Context, r *models.KeywordResearch) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	results := string(r.Results)
	if results == "" {
		results = "{}"
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO keyword_research (id, user_id, keyword, country, language, total_suggestions, results, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Keyword, r.Country, r.Language, r.TotalSuggestions, results, r.CreatedAt)
	metrics.RecordDBQuery("insert", "keyword_research", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert keyword research: %w", err)
	}
	return nil
}

// ListKeywordResearch returns a user's research records, newest first.
func (db *DB) ListKeywordResearch(ctx context.Context, userID string, limit int) ([]models.KeywordResearch, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, keyword, country, language, total_suggestions, results, created_at
		FROM keyword_research WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	metrics.RecordDBQuery("select", "keyword_research", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyword research: %w", err)
	}
	defer closeWithLog(rows, "keyword research rows")

	var out []models.KeywordResearch
	for rows.Next() {
		var (
			r       models.KeywordResearch
			results string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Keyword, &r.Country, &r.Language,
			&r.TotalSuggestions, &results, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword research: %w", err)
		}
		r.Results = []byte(results)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyword research rows: %w", err)
	}
	return out, nil
}
