// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NetRider88/viralAI/internal/logging"
)

// healthCheckTimeout bounds the readiness database ping.
const healthCheckTimeout = 3 * time.Second

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status        string          `json:"status"`
	Version       string          `json:"version"`
	UptimeSeconds float64         `json:"uptime_seconds"`
	Database      string          `json:"database,omitempty"`
	Features      map[string]bool `json:"features,omitempty"`
	WSClients     int             `json:"websocket_clients"`
}

// Version is set at build time with -ldflags.
var Version = "dev"

// Health reports liveness, uptime and feature availability without touching
// the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        "healthy",
		Version:       Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Features:      h.featureStatus(),
		WSClients:     h.hub.GetClientCount(),
	})
}

// HealthLive is the Kubernetes liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady pings the database. Missing optional integrations are
// reported but never make the service unready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := HealthStatus{
		Status:        "ready",
		Version:       Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Database:      "connected",
		Features:      h.featureStatus(),
		WSClients:     h.hub.GetClientCount(),
	}

	if err := h.db.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeNotReady,
			"database unreachable", map[string]any{"features": status.Features})
		return
	}
	NewResponseWriter(w, r).Success(status)
}

func (h *Handler) featureStatus() map[string]bool {
	out := make(map[string]bool, len(h.features))
	for _, f := range h.features {
		out[f.Name] = f.Available()
	}
	return out
}
