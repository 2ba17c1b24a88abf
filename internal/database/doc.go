// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package database provides DuckDB persistence for ViralAI.

Tables:

	users              accounts with tier and role
	usage_tracking     monthly counters, primary key (user_id, month)
	content_blocks     one row per generation request
	platform_contents  one row per successful platform result
	keyword_research   persisted research bundles
	trackable_links    short links with click counters
	link_clicks        one row per resolved redirect
	image_library      generated images per user

Concurrency:

DuckDB uses optimistic concurrency, so two writers touching the same row
raise a transaction conflict instead of blocking. Hot rows (a user's usage
bucket, a link's counters) are serialized through per-key mutexes and the
write is retried a bounded number of times on conflict:

	mu := db.acquireKeyLock(key)
	defer db.releaseKeyLock(key, mu)

List columns (hashtags, image URLs, tags) are stored as JSON text.

All methods accept a context; a context without a deadline gets a 30s
timeout.
*/
package database
