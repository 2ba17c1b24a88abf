// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/NetRider88/viralAI/internal/logging"
)

// AccessLog writes one structured line per request. 5xx responses log at
// error level, 4xx at warn, everything else at debug so health probes stay
// quiet in production.
func AccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := newStatusRecorder(w)

		next(wrapper, r)

		var event *zerolog.Event
		logger := logging.Ctx(r.Context())
		switch {
		case wrapper.statusCode >= 500:
			event = logger.Error()
		case wrapper.statusCode >= 400:
			event = logger.Warn()
		default:
			event = logger.Debug()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int("bytes", wrapper.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("http request")
	}
}
