// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package usage

import (
	"context"

	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/models"
)

// Subscribe registers the handlers that turn domain events into usage
// increments. Each delivered message records exactly one event.
func Subscribe(bus *events.Bus, t *Tracker) {
	events.Handle(bus, "usage-content", events.TopicContentCreated,
		func(ctx context.Context, ev events.ContentCreated) error {
			return t.RecordEvent(ctx, ev.UserID, models.UsageContentBlock)
		})
	events.Handle(bus, "usage-research", events.TopicResearchCompleted,
		func(ctx context.Context, ev events.ResearchCompleted) error {
			return t.RecordEvent(ctx, ev.UserID, models.UsageAPICall)
		})
	events.Handle(bus, "usage-images", events.TopicImageGenerated,
		func(ctx context.Context, ev events.ImageGenerated) error {
			return t.RecordEvent(ctx, ev.UserID, models.UsageImageGeneration)
		})
	events.Handle(bus, "usage-videos", events.TopicVideoGenerated,
		func(ctx context.Context, ev events.VideoGenerated) error {
			return t.RecordEvent(ctx, ev.UserID, models.UsageVideoGeneration)
		})
}
