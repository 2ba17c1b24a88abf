// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"context"
	"time"

	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/links"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/usage"
	"github.com/NetRider88/viralAI/internal/websocket"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserLookup resolves users for the admin endpoints.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Feature is an optional upstream integration reported by /health/ready.
type Feature struct {
	Name      string
	Available func() bool
}

// Deps wires a Handler. Every field except Features is required.
type Deps struct {
	Config     *config.Config
	Auth       *auth.Service
	Aggregator *keywords.Aggregator
	Keywords   *keywords.Service
	Trends     keywords.Trends
	Content    *content.Service
	Links      *links.Service
	Usage      *usage.Tracker
	Hub        *websocket.Hub
	DB         Pinger
	Users      UserLookup
	Features   []Feature
}

// Handler serves the HTTP API.
type Handler struct {
	cfg        *config.Config
	auth       *auth.Service
	aggregator *keywords.Aggregator
	keywords   *keywords.Service
	trends     keywords.Trends
	content    *content.Service
	links      *links.Service
	usage      *usage.Tracker
	hub        *websocket.Hub
	db         Pinger
	users      UserLookup
	features   []Feature
	startTime  time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		cfg:        deps.Config,
		auth:       deps.Auth,
		aggregator: deps.Aggregator,
		keywords:   deps.Keywords,
		trends:     deps.Trends,
		content:    deps.Content,
		links:      deps.Links,
		usage:      deps.Usage,
		hub:        deps.Hub,
		db:         deps.DB,
		users:      deps.Users,
		features:   deps.Features,
		startTime:  time.Now(),
	}
}
