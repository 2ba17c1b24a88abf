// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/validation"
)

// maxRequestBodySize bounds JSON request bodies.
const maxRequestBodySize = 1 << 20

var errEmptyBody = errors.New("request body is required")

// decodeJSON reads a JSON body into dst and validates it. On failure it
// writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeBody(w, r, dst) {
		return false
	}
	if err := validation.Validate(dst); err != nil {
		respondServiceError(w, r, err)
		return false
	}
	return true
}

// decodeBody reads a JSON body into dst without validating it, for inputs
// the service normalizes before validation.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			NewResponseWriter(w, r).BadRequest(errEmptyBody.Error())
		case errors.As(err, &maxErr):
			NewResponseWriter(w, r).Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		default:
			NewResponseWriter(w, r).BadRequest("invalid JSON: " + err.Error())
		}
		return false
	}
	return true
}

// validateQuery validates a struct filled from query parameters.
func validateQuery(w http.ResponseWriter, r *http.Request, q any) bool {
	if err := validation.Validate(q); err != nil {
		respondServiceError(w, r, err)
		return false
	}
	return true
}

// queryInt parses an integer query parameter, clamped to [lo, hi].
// Missing or malformed values return def.
func queryInt(r *http.Request, name string, def, lo, hi int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return max(lo, min(n, hi))
}

// queryString returns a trimmed query parameter or def when empty.
func queryString(r *http.Request, name, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return def
}

// suggestionsQuery is GET /keywords/suggestions.
type suggestionsQuery struct {
	Query    string `json:"q" validate:"required,max=255"`
	Country  string `json:"country" validate:"omitempty,len=2"`
	Language string `json:"language" validate:"omitempty,min=2,max=5"`
}

// researchRequest is POST /keywords/research.
type researchRequest struct {
	Keyword        string `json:"keyword" validate:"required,max=255"`
	Country        string `json:"country" validate:"omitempty,len=2"`
	Language       string `json:"language" validate:"omitempty,min=2,max=5"`
	IncludeYouTube bool   `json:"include_youtube"`
}

// keywordQuery is the trends and video endpoints' keyword parameter.
type keywordQuery struct {
	Keyword string `json:"keyword" validate:"required,max=255"`
}

// humanizeRequest is POST /content/humanize.
type humanizeRequest struct {
	Text  string                `json:"text" validate:"required,max=10000"`
	Style string                `json:"style" validate:"omitempty,oneof=casual professional conversational storytelling"`
	Brand *content.BrandContext `json:"brand"`
}

// linkRequest is POST /links.
type linkRequest struct {
	Destination       string `json:"destination" validate:"required,http_url,max=2048"`
	PlatformContentID string `json:"platform_content_id" validate:"omitempty,max=64"`
}
