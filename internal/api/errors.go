// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/links"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
	"github.com/NetRider88/viralAI/internal/usage"
	"github.com/NetRider88/viralAI/internal/validation"
)

// respondServiceError maps a service error onto a status code and error
// code. Unknown errors are logged and returned as a generic 500 so internal
// details never reach the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *validation.RequestValidationError
	var qerr *usage.QuotaError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)

	case errors.As(err, &qerr):
		rw.ErrorWithDetails(http.StatusTooManyRequests, ErrCodeQuotaExceeded, qerr.Error(), map[string]any{
			"tier":  qerr.Tier,
			"kind":  qerr.Kind,
			"limit": qerr.Limit,
			"used":  qerr.Used,
		})

	case errors.Is(err, upstream.ErrFeatureUnavailable):
		rw.Error(http.StatusServiceUnavailable, ErrCodeFeatureUnavailable, err.Error())

	case errors.Is(err, content.ErrBlockNotFound),
		errors.Is(err, links.ErrLinkNotFound),
		errors.Is(err, keywords.ErrUnknownNiche),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, database.ErrNotFound):
		rw.NotFound(err.Error())

	case errors.Is(err, links.ErrInvalidDestination),
		errors.Is(err, auth.ErrWrongPassword),
		errors.Is(err, auth.ErrLocalAccount):
		rw.BadRequest(err.Error())

	case errors.Is(err, auth.ErrEmailTaken):
		rw.Error(http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, auth.ErrInvalidCredentials):
		rw.Unauthorized(err.Error())

	case errors.Is(err, content.ErrAllPlatformsFailed):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("content generation failed")
		rw.Error(http.StatusBadGateway, ErrCodeGenerationFailed, err.Error())

	case errors.Is(err, upstream.ErrCircuitOpen):
		rw.Error(http.StatusServiceUnavailable, ErrCodeUpstreamError, "upstream temporarily unavailable")

	case isUpstreamFailure(err):
		logging.Ctx(r.Context()).Warn().Err(err).Str("class", upstream.Classify(err)).Msg("upstream call failed")
		rw.Error(http.StatusBadGateway, ErrCodeUpstreamError, "upstream request failed")

	case errors.Is(err, context.Canceled):
		logging.Ctx(r.Context()).Debug().Msg("request canceled by client")
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "request canceled")

	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		rw.InternalError("internal server error")
	}
}

func isUpstreamFailure(err error) bool {
	var se *upstream.StatusError
	return errors.As(err, &se) ||
		errors.Is(err, upstream.ErrTransport) ||
		errors.Is(err, upstream.ErrDecode) ||
		errors.Is(err, content.ErrMalformedOutput)
}
