// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package websocket

import (
	"context"

	"github.com/NetRider88/viralAI/internal/events"
)

// Subscribe forwards generation events to the owning user's connections.
func Subscribe(bus *events.Bus, hub *Hub) {
	events.Handle(bus, "ws-generation-progress", events.TopicGenerationProgress,
		func(_ context.Context, ev events.GenerationProgress) error {
			hub.SendToUser(ev.UserID, MessageTypeGenerationProgress, ev)
			return nil
		})
	events.Handle(bus, "ws-content-created", events.TopicContentCreated,
		func(_ context.Context, ev events.ContentCreated) error {
			hub.SendToUser(ev.UserID, MessageTypeContentCreated, ev)
			return nil
		})
	events.Handle(bus, "ws-image-generated", events.TopicImageGenerated,
		func(_ context.Context, ev events.ImageGenerated) error {
			hub.SendToUser(ev.UserID, MessageTypeImageGenerated, ev)
			return nil
		})
}
