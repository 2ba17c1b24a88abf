// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package events is the in-process domain event bus.

Services publish typed payloads (content.created, research.completed,
image.generated, video.generated, generation.progress) and the usage
tracker and WebSocket hub consume them through a Watermill router.

Architecture:

	Publisher -> GoChannel pub/sub -> Router (Recoverer, Retry) -> handlers
	                \
	                 -> NATS core mirror (optional)

The GoChannel transport blocks Publish until every subscriber has acked,
so a caller that publishes content.created observes the usage increment
when Publish returns. Events published before any handler subscribes to
their topic are dropped.

The NATS mirror lets other processes observe the same events. It is
best-effort: a mirror failure is logged and never fails Publish. An
embedded NATS server can be started for single-node deployments.
*/
package events
