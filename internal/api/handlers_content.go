// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// GenerateContent generates content for every requested platform. The
// response is 201 when at least one platform succeeded; failed platforms
// are listed under result.failures.
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req content.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.usage.Allow(r.Context(), claims.UserID(), claims.Tier, models.UsageContentBlock); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if req.GenerationMode != content.ModeText {
		if err := h.usage.Allow(r.Context(), claims.UserID(), claims.Tier, models.UsageImageGeneration); err != nil {
			respondServiceError(w, r, err)
			return
		}
	}
	if req.GenerateVideoScript {
		if err := h.usage.Allow(r.Context(), claims.UserID(), claims.Tier, models.UsageVideoGeneration); err != nil {
			respondServiceError(w, r, err)
			return
		}
	}

	out, err := h.content.Generate(r.Context(), claims.UserID(), req)
	if errors.Is(err, content.ErrAllPlatformsFailed) && out != nil && allUnavailable(out.Result.Failures) {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable, ErrCodeFeatureUnavailable,
			"content generation is not configured")
		return
	}
	if errors.Is(err, content.ErrAllPlatformsFailed) && out != nil {
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusBadGateway, ErrCodeGenerationFailed, err.Error(),
			map[string]any{"failures": out.Result.Failures})
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(out)
}

func allUnavailable(failures []content.PlatformFailure) bool {
	for _, f := range failures {
		if !errors.Is(f.Err(), upstream.ErrFeatureUnavailable) {
			return false
		}
	}
	return len(failures) > 0
}

// GenerateImage creates one image for the caller's library.
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in content.ImageRequestInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.usage.Allow(r.Context(), claims.UserID(), claims.Tier, models.UsageImageGeneration); err != nil {
		respondServiceError(w, r, err)
		return
	}

	out, err := h.content.GenerateImage(r.Context(), claims.UserID(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(out)
}

// ListImages returns the caller's image library.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	images, err := h.content.ListImages(r.Context(), claims.UserID(), queryInt(r, "limit", 50, 1, 200))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if images == nil {
		images = []models.Image{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, images, models.Meta{Total: len(images)})
}

// HumanizeResponse is the rewritten text.
type HumanizeResponse struct {
	Original  string `json:"original"`
	Humanized string `json:"humanized"`
	Style     string `json:"style"`
}

// Humanize rewrites text. A failed rewrite returns the text unchanged.
func (h *Handler) Humanize(w http.ResponseWriter, r *http.Request) {
	var req humanizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	style := req.Style
	if style == "" {
		style = "casual"
	}
	NewResponseWriter(w, r).Success(HumanizeResponse{
		Original:  req.Text,
		Humanized: h.content.Humanize(r.Context(), req.Text, style, req.Brand),
		Style:     style,
	})
}

// ArtStyles lists the image art styles.
func (h *Handler) ArtStyles(w http.ResponseWriter, r *http.Request) {
	styles := content.ArtStyles()
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, styles, models.Meta{Total: len(styles)})
}

// ListBlocks pages through the caller's content blocks.
func (h *Handler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 20, 1, 100)
	offset := queryInt(r, "offset", 0, 0, 1_000_000)

	blocks, err := h.content.ListBlocks(r.Context(), claims.UserID(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if blocks == nil {
		blocks = []models.ContentBlock{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, blocks, models.Meta{Total: len(blocks)})
}

// GetBlock returns one content block.
func (h *Handler) GetBlock(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	block, err := h.content.GetBlock(r.Context(), claims.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(block)
}

// RecordMetrics appends performance metrics to one platform of a block.
func (h *Handler) RecordMetrics(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in content.MetricsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	blockID := chi.URLParam(r, "id")
	if err := h.content.RecordMetrics(r.Context(), claims.UserID(), blockID, in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	block, err := h.content.GetBlock(r.Context(), claims.UserID(), blockID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(block)
}
