// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/links"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/upstream"
	"github.com/NetRider88/viralAI/internal/usage"
	"github.com/NetRider88/viralAI/internal/validation"
)

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	type input struct {
		Email string `json:"email" validate:"required,email"`
	}
	validationErr := validation.Validate(&input{Email: "nope"})
	if validationErr == nil {
		t.Fatal("expected a validation error")
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validationErr, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"quota", &usage.QuotaError{Tier: "free", Kind: models.UsageAPICall, Limit: 100, Used: 100}, http.StatusTooManyRequests, ErrCodeQuotaExceeded},
		{"feature unavailable", upstream.NewUnavailable("trends", "SERPAPI_API_KEY").Err(), http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
		{"block not found", content.ErrBlockNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"link not found", links.ErrLinkNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"unknown niche", fmt.Errorf("%w: %q", keywords.ErrUnknownNiche, "knitting"), http.StatusNotFound, ErrCodeNotFound},
		{"user not found", auth.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"row not found", database.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"bad destination", links.ErrInvalidDestination, http.StatusBadRequest, ErrCodeBadRequest},
		{"email taken", auth.ErrEmailTaken, http.StatusConflict, ErrCodeConflict},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"all platforms failed", content.ErrAllPlatformsFailed, http.StatusBadGateway, ErrCodeGenerationFailed},
		{"circuit open", fmt.Errorf("serpapi: %w", upstream.ErrCircuitOpen), http.StatusServiceUnavailable, ErrCodeUpstreamError},
		{"upstream status", &upstream.StatusError{Service: "youtube", StatusCode: 403}, http.StatusBadGateway, ErrCodeUpstreamError},
		{"transport", fmt.Errorf("%w: connection refused", upstream.ErrTransport), http.StatusBadGateway, ErrCodeUpstreamError},
		{"malformed model output", content.ErrMalformedOutput, http.StatusBadGateway, ErrCodeUpstreamError},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)
			expectError(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestRespondServiceError_QuotaDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := fmt.Errorf("generate: %w", &usage.QuotaError{Tier: "free", Kind: models.UsageContentBlock, Limit: 10, Used: 10})
	respondServiceError(rec, httptest.NewRequest(http.MethodPost, "/x", nil), err)

	env := expectError(t, rec, http.StatusTooManyRequests, ErrCodeQuotaExceeded)
	if env.Error.Details["tier"] != "free" || env.Error.Details["kind"] != string(models.UsageContentBlock) {
		t.Errorf("details = %v", env.Error.Details)
	}
	if env.Error.Details["limit"] != float64(10) || env.Error.Details["used"] != float64(10) {
		t.Errorf("details = %v", env.Error.Details)
	}
}

func TestRespondServiceError_HidesInternalMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("pq: password=hunter2"))

	env := expectError(t, rec, http.StatusInternalServerError, ErrCodeInternalError)
	if env.Error.Message != "internal server error" {
		t.Errorf("message leaked: %q", env.Error.Message)
	}
}
