// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NetRider88/viralAI/internal/links"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
)

// CreateLink creates a trackable short link.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	link, err := h.links.Create(r.Context(), claims.UserID(), req.Destination, req.PlatformContentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(link)
}

// ListLinks returns the caller's links.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.links.List(r.Context(), claims.UserID())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.TrackableLink{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, list, models.Meta{Total: len(list)})
}

// LinkAnalytics returns click breakdowns for one of the caller's links.
func (h *Handler) LinkAnalytics(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	analytics, err := h.links.Analytics(r.Context(), claims.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(analytics)
}

// Redirect resolves a short code, records the click and redirects.
// Unknown codes get a JSON 404.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	dest, err := h.links.Resolve(r.Context(), code, links.ClickInfoFromRequest(r))
	if errors.Is(err, links.ErrLinkNotFound) {
		NewResponseWriter(w, r).NotFound("link not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("link resolve failed")
		NewResponseWriter(w, r).InternalError("internal server error")
		return
	}
	http.Redirect(w, r, dest, http.StatusFound)
}
