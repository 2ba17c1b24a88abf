// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/logging"
)

// EventComponents holds the event bus and, when enabled, the embedded NATS
// server it mirrors to.
type EventComponents struct {
	Bus  *events.Bus
	NATS *events.EmbeddedServer
}

// initEvents builds the Watermill bus. Mirroring is chosen in this order:
// an embedded NATS server, an external NATS_URL, or none.
func initEvents(cfg config.EventsConfig) (*EventComponents, error) {
	var (
		embedded *events.EmbeddedServer
		mirror   message.Publisher
		err      error
	)

	url := cfg.NATSURL
	if cfg.EmbeddedNATS {
		embedded, err = events.StartEmbeddedServer(cfg.EmbeddedNATSPort)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		url = embedded.ClientURL()
	}

	if url != "" {
		mirror, err = events.NewNATSMirror(url)
		if err != nil {
			shutdownEmbedded(embedded)
			return nil, err
		}
		logging.Info().Str("url", url).Bool("embedded", embedded != nil).Msg("Events mirrored to NATS")
	} else {
		logging.Info().Msg("NATS mirror disabled (NATS_URL unset)")
	}

	bus, err := events.New(cfg, mirror)
	if err != nil {
		if mirror != nil {
			_ = mirror.Close()
		}
		shutdownEmbedded(embedded)
		return nil, err
	}
	return &EventComponents{Bus: bus, NATS: embedded}, nil
}

func shutdownEmbedded(s *events.EmbeddedServer) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS shutdown failed")
	}
}
