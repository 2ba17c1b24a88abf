// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext bounds DDL at startup.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Timestamps are always written from Go in UTC; no column relies on a
// CURRENT_TIMESTAMP default.
var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		email VARCHAR NOT NULL UNIQUE,
		name VARCHAR NOT NULL DEFAULT '',
		avatar_url VARCHAR NOT NULL DEFAULT '',
		password_hash VARCHAR NOT NULL,
		tier VARCHAR NOT NULL DEFAULT 'free',
		role VARCHAR NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS usage_tracking (
		user_id VARCHAR NOT NULL,
		month DATE NOT NULL,
		content_blocks_created BIGINT NOT NULL DEFAULT 0,
		api_calls BIGINT NOT NULL DEFAULT 0,
		image_generations BIGINT NOT NULL DEFAULT 0,
		video_generations BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, month)
	)`,

	`CREATE TABLE IF NOT EXISTS content_blocks (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		keyword VARCHAR NOT NULL,
		content_type VARCHAR NOT NULL,
		tone VARCHAR NOT NULL,
		angle VARCHAR NOT NULL,
		niche VARCHAR NOT NULL DEFAULT '',
		status VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_blocks_user ON content_blocks(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS platform_contents (
		id VARCHAR PRIMARY KEY,
		block_id VARCHAR NOT NULL,
		platform VARCHAR NOT NULL,
		caption VARCHAR NOT NULL,
		hashtags VARCHAR NOT NULL,
		hook VARCHAR NOT NULL,
		cta VARCHAR NOT NULL,
		images VARCHAR NOT NULL,
		video_script VARCHAR NOT NULL DEFAULT '',
		reach BIGINT NOT NULL DEFAULT 0,
		engagement BIGINT NOT NULL DEFAULT 0,
		clicks BIGINT NOT NULL DEFAULT 0,
		conversions BIGINT NOT NULL DEFAULT 0,
		revenue DOUBLE NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_platform_contents_block ON platform_contents(block_id)`,

	`CREATE TABLE IF NOT EXISTS keyword_research (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		keyword VARCHAR NOT NULL,
		country VARCHAR NOT NULL,
		language VARCHAR NOT NULL,
		total_suggestions INTEGER NOT NULL,
		results VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_keyword_research_user ON keyword_research(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS trackable_links (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		short_code VARCHAR NOT NULL UNIQUE,
		destination_url VARCHAR NOT NULL,
		platform_content_id VARCHAR NOT NULL DEFAULT '',
		clicks BIGINT NOT NULL DEFAULT 0,
		unique_visitors BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS link_clicks (
		id VARCHAR PRIMARY KEY,
		link_id VARCHAR NOT NULL,
		ip VARCHAR NOT NULL,
		user_agent VARCHAR NOT NULL,
		referer VARCHAR NOT NULL DEFAULT '',
		country VARCHAR NOT NULL DEFAULT '',
		device_type VARCHAR NOT NULL,
		browser VARCHAR NOT NULL,
		os VARCHAR NOT NULL,
		is_unique BOOLEAN NOT NULL,
		clicked_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_link_clicks_link ON link_clicks(link_id, ip)`,

	`CREATE TABLE IF NOT EXISTS image_library (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		url VARCHAR NOT NULL,
		prompt VARCHAR NOT NULL,
		style VARCHAR NOT NULL,
		size VARCHAR NOT NULL,
		tags VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// createTables creates every table and index if missing.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}
	return nil
}
