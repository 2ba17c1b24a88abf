// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package main is the ViralAI API server.

ViralAI researches keywords for social content (autocomplete, trends,
YouTube), drafts per-platform posts and images with an LLM, tracks monthly
usage against tier quotas and issues trackable short links.

# Application Architecture

Long-lived components run under a suture v4 tree:

	viralai
	├── data-layer
	│   ├── event bus (Watermill, optional NATS mirror)
	│   ├── research cache GC (Badger)
	│   └── embedded NATS (NATS_EMBEDDED=true)
	├── messaging-layer
	│   └── WebSocket hub (generation and research progress)
	└── api-layer
	    └── HTTP server (Chi)

Initialization order:

 1. Configuration: Koanf v2, defaults < config.yaml < environment
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB
 4. Research cache: Badger (in memory when CACHE_PATH is empty)
 5. Event bus and NATS mirror
 6. Domain services and event subscribers (usage, WebSocket)
 7. Casbin authorization
 8. Supervisor tree and HTTP server

# Configuration

	HTTP_PORT=8000
	ENVIRONMENT=development      # production forbids AUTH_MODE=none
	LOG_LEVEL=info
	LOG_FORMAT=json

	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>
	ADMIN_EMAILS=ops@example.com # registered with the admin role

	DUCKDB_PATH=/data/viralai.duckdb
	CACHE_PATH=/data/cache

	LLM_PROVIDER=anthropic       # anthropic, gemini or litellm
	ANTHROPIC_API_KEY=...        # or GEMINI_API_KEY, LITELLM_API_KEY
	OPENAI_API_KEY=...           # images
	SERPAPI_KEY=...              # trends
	YOUTUBE_API_KEY=...
	LISTMONK_URL=...             # newsletter sync on signup

Integrations without credentials are reported on /api/v1/health and
answer 503 FEATURE_UNAVAILABLE.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
SHUTDOWN_TIMEOUT, then the hub closes client connections, then the event
bus flushes and the database closes.
*/
package main
