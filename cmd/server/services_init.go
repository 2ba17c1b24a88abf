// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/NetRider88/viralAI/internal/api"
	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/cache"
	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/links"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/newsletter"
	"github.com/NetRider88/viralAI/internal/usage"
	"github.com/NetRider88/viralAI/internal/websocket"
)

// Services holds the domain services behind the HTTP handlers.
type Services struct {
	Tokens     *auth.JWTManager
	Auth       *auth.Service
	Aggregator *keywords.Aggregator
	Keywords   *keywords.Service
	Trends     keywords.Trends
	Content    *content.Service
	Links      *links.Service
	Usage      *usage.Tracker
	Features   []api.Feature
}

// newTokenManager returns the JWT manager. In "none" mode the tokens are
// never checked, but register and login still issue them, so an ephemeral
// secret is generated when none is configured.
func newTokenManager(sec config.SecurityConfig) (*auth.JWTManager, error) {
	if sec.AuthMode == auth.ModeNone && sec.JWTSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate ephemeral JWT secret: %w", err)
		}
		sec.JWTSecret = hex.EncodeToString(buf)
	}
	return auth.NewJWTManager(&sec)
}

// initServices builds every domain service and subscribes the usage
// tracker and the WebSocket hub to the event bus.
func initServices(cfg *config.Config, db *database.DB, researchCache *cache.Store, bus *events.Bus, hub *websocket.Hub) (*Services, error) {
	tokens, err := newTokenManager(cfg.Security)
	if err != nil {
		return nil, err
	}
	// Logged-out token IDs share the Badger cache so they survive restarts.
	tokens.UseRevocationStore(auth.NewBadgerRevocationStore(researchCache))

	subscriber := newsletter.New(cfg.Newsletter)
	var signupHook auth.Subscriber
	if subscriber.Available() {
		signupHook = subscriber
	} else {
		logging.Info().Msg("Newsletter sync disabled (LISTMONK_URL unset)")
	}

	aggregator := keywords.NewAggregator(cfg.Autocomplete, keywords.NewSuggestionMemo(cfg.Cache))
	youtube := keywords.NewYouTube(cfg.YouTube)
	trends := keywords.NewTrends(cfg.SerpAPI)
	kw := keywords.NewService(keywords.ServiceDeps{
		Researcher: keywords.NewResearcher(aggregator, cfg.Research),
		YouTube:    youtube,
		Store:      db,
		Cache:      researchCache,
		Events:     bus,
		CacheTTL:   cfg.Cache.ResearchTTL,
	})

	llm, err := content.NewCompleter(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create LLM completer: %w", err)
	}
	images := content.NewImages(cfg.Images)
	contentSvc := content.NewService(content.ServiceDeps{
		Generator: content.NewGenerator(content.NewWriter(llm), images, cfg.Generation),
		Images:    images,
		Humanizer: content.NewHumanizer(llm),
		Store:     db,
		Events:    bus,
	})

	tracker := usage.NewTracker(db, cfg.Usage)
	usage.Subscribe(bus, tracker)
	websocket.Subscribe(bus, hub)

	features := []api.Feature{
		{Name: "trends", Available: trends.Available},
		{Name: "youtube", Available: youtube.Available},
		{Name: "content_generation", Available: llm.Available},
		{Name: "images", Available: images.Available},
		{Name: "newsletter", Available: subscriber.Available},
	}
	for _, f := range features {
		logging.Info().Str("feature", f.Name).Bool("available", f.Available()).Msg("Integration status")
	}

	return &Services{
		Tokens:     tokens,
		Auth:       auth.NewService(db, tokens, signupHook, cfg.Security.AdminEmails),
		Aggregator: aggregator,
		Keywords:   kw,
		Trends:     trends,
		Content:    contentSvc,
		Links:      links.NewService(db, cfg.Links),
		Usage:      tracker,
		Features:   features,
	}, nil
}
