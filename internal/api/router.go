// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/authz"
	"github.com/NetRider88/viralAI/internal/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// Router wires the handler to its middleware.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil chiMw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, authMw *auth.Middleware, authzMw *authz.Middleware, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMw,
		authz:         authzMw,
		chiMiddleware: chiMw,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.AccessLog))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.With(router.chiMiddleware.RateLimitRedirect()).Get("/r/{code}", h.Redirect)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.auth.Authenticate)
			r.Use(router.authz.AuthorizeRequest)
			r.Get("/me", h.Me)
			r.Get("/profile", h.Me)
			r.Put("/profile", h.UpdateProfile)
			r.Patch("/profile", h.UpdateProfile)
			r.Post("/change-password", h.ChangePassword)
			r.Post("/logout", h.Logout)
		})
	})

	// Authenticated API. Casbin decides per role, path and action.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(router.auth.Authenticate)
		r.Use(router.authz.AuthorizeRequest)

		// The WebSocket upgrade hijacks the connection; keep it outside
		// the compressed group.
		r.Get("/api/v1/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(compressionLevel))

			r.Route("/api/v1/keywords", func(r chi.Router) {
				r.Get("/suggestions", h.KeywordSuggestions)
				r.Get("/research", h.KeywordHistory)
				r.With(router.chiMiddleware.RateLimitGenerate()).Post("/research", h.KeywordResearch)
				r.Get("/trending", h.Trending)
				r.Get("/interest", h.InterestOverTime)
				r.Get("/related-topics", h.RelatedTopics)
				r.Get("/niches", h.ListNiches)
				r.Get("/niches/{niche}", h.NicheKeywords)
				r.Get("/youtube", h.YouTubeStats)
				r.Get("/youtube/trending", h.YouTubeTrending)
			})

			r.Route("/api/v1/content", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(router.chiMiddleware.RateLimitGenerate())
					r.Post("/generate", h.GenerateContent)
					r.Post("/images", h.GenerateImage)
					r.Post("/humanize", h.Humanize)
				})
				r.Get("/images", h.ListImages)
				r.Get("/styles", h.ArtStyles)
				r.Get("/blocks", h.ListBlocks)
				r.Get("/blocks/{id}", h.GetBlock)
				r.Post("/blocks/{id}/metrics", h.RecordMetrics)
			})

			r.Route("/api/v1/links", func(r chi.Router) {
				r.Post("/", h.CreateLink)
				r.Get("/", h.ListLinks)
				r.Get("/{id}/analytics", h.LinkAnalytics)
			})

			r.Get("/api/v1/usage", h.UsageReport)
			r.Get("/api/v1/usage/history", h.UsageHistory)

			r.Get("/api/v1/admin/usage/{userID}", h.AdminUserUsage)
		})
	})

	return r
}
