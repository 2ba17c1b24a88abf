// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package models

import "time"

// APIResponse is the envelope for every JSON response.
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "FEATURE_UNAVAILABLE",
//	    "message": "google trends is not configured",
//	    "request_id": "5f0c..."
//	  },
//	  "meta": {"timestamp": "2026-10-18T12:00:00Z"}
//	}
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    Meta      `json:"meta"`
}

// APIError carries a stable machine-readable Code.
type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Meta is response metadata.
type Meta struct {
	Timestamp  time.Time `json:"timestamp"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Cached     bool      `json:"cached,omitempty"`
	Total      int       `json:"total,omitempty"`
}
