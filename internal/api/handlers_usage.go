// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NetRider88/viralAI/internal/models"
)

// UsageReport returns the caller's usage for the current month next to
// their tier limits.
func (h *Handler) UsageReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	report, err := h.usage.Report(r.Context(), claims.UserID(), claims.Tier)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(report)
}

// UsageHistory returns the caller's monthly buckets, newest first.
func (h *Handler) UsageHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	months := queryInt(r, "months", 6, 1, 24)
	history, err := h.usage.History(r.Context(), claims.UserID(), months)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if history == nil {
		history = []models.UsageBucket{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, history, models.Meta{Total: len(history)})
}

// AdminUserUsage returns another user's usage report. Access is enforced
// by the authorization middleware.
func (h *Handler) AdminUserUsage(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	report, err := h.usage.Report(r.Context(), user.ID, user.Tier)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(report)
}

// WebSocket upgrades to the progress stream for the authenticated user.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.hub.ServeWS(w, r, claims.UserID())
}
