// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package authz

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
)

// Middleware authorizes authenticated requests against the route policy.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates the authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// AuthorizeRequest maps the method to an action and checks the caller's
// role against the request path. It must run after auth.Middleware.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			writeForbidden(w, r, "no authentication context")
			return
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Debug().
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("Authorization denied")
			writeForbidden(w, r, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func writeForbidden(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Error: &models.APIError{
			Code:      "FORBIDDEN",
			Message:   message,
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Meta: models.Meta{Timestamp: time.Now().UTC()},
	})
}
