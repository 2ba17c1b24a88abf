// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
)

// Authentication modes.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// LocalUserID is the user every request runs as in "none" mode.
const LocalUserID = "local-dev"

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the request's claims, or nil when the request
// was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// Middleware authenticates requests.
type Middleware struct {
	jwtManager *JWTManager
	mode       string
}

// NewMiddleware creates the authentication middleware. jwtManager may be
// nil in "none" mode.
func NewMiddleware(jwtManager *JWTManager, mode string) *Middleware {
	if mode == "" {
		mode = ModeJWT
	}
	return &Middleware{jwtManager: jwtManager, mode: mode}
}

// Mode returns the configured authentication mode.
func (m *Middleware) Mode() string { return m.mode }

// Authenticate rejects requests without a valid token and stores the
// claims on the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == ModeNone {
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), localClaims())))
			return
		}

		token := extractToken(r)
		if token == "" {
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("token validation failed")
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}
		revoked, err := m.jwtManager.IsRevoked(r.Context(), claims)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("token revocation check failed")
			writeAuthError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "token status could not be verified")
			return
		}
		if revoked {
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "token has been revoked")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

func withUser(ctx context.Context, claims *Claims) context.Context {
	ctx = ContextWithClaims(ctx, claims)
	return logging.ContextWithUserID(ctx, claims.UserID())
}

func localClaims() *Claims {
	return &Claims{
		Email: "dev@localhost",
		Role:  models.RoleAdmin,
		Tier:  models.TierAgency,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: LocalUserID,
		},
	}
}

// extractToken reads the bearer token from the Authorization header, the
// token cookie or the token query parameter, in that order.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if c, err := r.Cookie("token"); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="viralai"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Success: false,
		Error: &models.APIError{
			Code:      code,
			Message:   message,
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Meta: models.Meta{Timestamp: time.Now().UTC()},
	})
}
