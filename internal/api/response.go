// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeQuotaExceeded      = "QUOTA_EXCEEDED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeFeatureUnavailable = "FEATURE_UNAVAILABLE"
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"
	ErrCodeGenerationFailed   = "GENERATION_FAILED"
	ErrCodeNotReady           = "SERVICE_NOT_READY"
)

// ResponseWriter writes the standard envelope.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data any) {
	rw.SuccessWithMeta(http.StatusOK, data, models.Meta{})
}

// Created writes a 201 response with data.
func (rw *ResponseWriter) Created(data any) {
	rw.SuccessWithMeta(http.StatusCreated, data, models.Meta{})
}

// SuccessWithMeta writes a success envelope with caller-supplied metadata.
// Timestamp and duration are always filled in.
func (rw *ResponseWriter) SuccessWithMeta(status int, data any, meta models.Meta) {
	meta.Timestamp = time.Now().UTC()
	meta.DurationMS = time.Since(rw.startTime).Milliseconds()
	rw.writeJSON(status, models.APIResponse{Success: true, Data: data, Meta: meta})
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details map[string]any) {
	rw.writeJSON(status, models.APIResponse{
		Error: &models.APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: logging.RequestIDFromContext(rw.r.Context()),
		},
		Meta: models.Meta{
			Timestamp:  time.Now().UTC(),
			DurationMS: time.Since(rw.startTime).Milliseconds(),
		},
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthorized writes a 401 Unauthorized error.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// TooManyRequests writes a 429 Too Many Requests error.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, message)
}

// InternalError writes a 500 Internal Server Error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

func (rw *ResponseWriter) writeJSON(status int, body models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(body); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience function for writing success responses.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data any) {
	NewResponseWriter(w, r).Success(data)
}
