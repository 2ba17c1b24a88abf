// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NetRider88/viralAI/internal/api"
	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/authz"
	"github.com/NetRider88/viralAI/internal/cache"
	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/supervisor"
	"github.com/NetRider88/viralAI/internal/supervisor/services"
	"github.com/NetRider88/viralAI/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	api.Version = version

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting ViralAI with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("ViralAI stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential wiring
func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	researchCache, err := cache.Open("research", cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open research cache: %w", err)
	}
	defer func() {
		if err := researchCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing research cache")
		}
	}()

	ec, err := initEvents(cfg.Events)
	if err != nil {
		return fmt.Errorf("initialize events: %w", err)
	}
	defer func() {
		if err := ec.Bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	hub := websocket.NewHub(cfg.Security.CORSOrigins...)

	svcs, err := initServices(cfg, db, researchCache, ec.Bus, hub)
	if err != nil {
		return err
	}

	if cfg.Security.AuthMode == auth.ModeNone {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Every request runs as the local admin on the agency tier.")
		logging.Warn().Msg("  Use this ONLY for local development.")
		logging.Warn().Msg("============================================================")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if len(cfg.Security.CORSOrigins) == 0 {
		logging.Warn().Msg("CORS_ORIGINS is empty; cross-origin requests are accepted from any origin")
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFromSecurity(&cfg.Security))
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}
	defer enforcer.Close()

	handler := api.NewHandler(api.Deps{
		Config:     cfg,
		Auth:       svcs.Auth,
		Aggregator: svcs.Aggregator,
		Keywords:   svcs.Keywords,
		Trends:     svcs.Trends,
		Content:    svcs.Content,
		Links:      svcs.Links,
		Usage:      svcs.Usage,
		Hub:        hub,
		DB:         db,
		Users:      db,
		Features:   svcs.Features,
	})
	router := api.NewRouter(handler,
		auth.NewMiddleware(svcs.Tokens, cfg.Security.AuthMode),
		authz.NewMiddleware(enforcer),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFromServer(cfg.Server))
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(ec.Bus)
	tree.AddDataService(researchCache)
	if ec.NATS != nil {
		tree.AddDataService(ec.NATS)
	}
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Services added to supervisor tree")

	errCh := tree.ServeBackground(ctx)
	var runErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		runErr = <-errCh
	case runErr = <-errCh:
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return runErr
}
