// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package metrics declares the Prometheus collectors exported at /metrics.
//
// Collectors are registered on the default registry through promauto, so
// importing the package is enough to expose them. Record* helpers keep label
// cardinality bounded (error labels are truncated, statuses are enumerated).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBTransactionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_transaction_conflicts_total",
			Help: "Write-write conflicts retried by the store",
		},
		[]string{"table"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Outbound calls to third-party APIs
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of calls to third-party APIs",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"upstream", "outcome"},
	)

	UpstreamRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_rate_limited_total",
			Help: "HTTP 429 responses received from third-party APIs",
		},
		[]string{"upstream"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Keyword research
	SuggestionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_suggestion_fetches_total",
			Help: "Autocomplete fetches by outcome (success, empty, failed)",
		},
		[]string{"outcome"},
	)

	ResearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keyword_research_duration_seconds",
			Help:    "Wall time of a full keyword research run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
	)

	ResearchFailedQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keyword_research_failed_queries_total",
			Help: "Expansion queries that failed or missed the research deadline",
		},
	)

	// Content generation
	GenerationPlatformOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_generation_platform_total",
			Help: "Per-platform generation outcomes",
		},
		[]string{"platform", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_generation_duration_seconds",
			Help:    "Per-platform generation latency",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"platform"},
	)

	// Usage
	UsageIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_increments_total",
			Help: "Usage counter increments by event kind",
		},
		[]string{"kind"},
	)

	QuotaDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_quota_denials_total",
			Help: "Requests rejected because a monthly quota was exhausted",
		},
		[]string{"tier", "kind"},
	)

	// Auth
	TokenRevocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_revocations_total",
			Help: "Token revocation events; event is revoked or rejected",
		},
		[]string{"event"},
	)

	// Caches
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	// Events and push
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events published by topic",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Domain events handled by handler and outcome",
		},
		[]string{"handler", "outcome"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Open WebSocket connections",
		},
	)

	LinkClicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trackable_link_clicks_total",
			Help: "Recorded short link clicks",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Build information",
		},
		[]string{"version", "go_version"},
	)
)

const maxErrorLabel = 50

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, truncate(err.Error())).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstream records one outbound call. status is the HTTP status, or 0
// when the request never produced a response.
func RecordUpstream(upstream string, status int, duration time.Duration) {
	outcome := "transport_error"
	if status > 0 {
		outcome = strconv.Itoa(status/100) + "xx"
	}
	UpstreamRequestDuration.WithLabelValues(upstream, outcome).Observe(duration.Seconds())
	if status == 429 {
		UpstreamRateLimited.WithLabelValues(upstream).Inc()
	}
}

// RecordBreakerTransition records a circuit breaker state change. State
// names follow gobreaker's String() output.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordResearch records a completed research run.
func RecordResearch(duration time.Duration, failedQueries int) {
	ResearchDuration.Observe(duration.Seconds())
	if failedQueries > 0 {
		ResearchFailedQueries.Add(float64(failedQueries))
	}
}

// RecordGeneration records the outcome of generating content for one
// platform. outcome is "success" or "failed".
func RecordGeneration(platform, outcome string, duration time.Duration) {
	GenerationPlatformOutcomes.WithLabelValues(platform, outcome).Inc()
	GenerationDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordEventHandled records a handler invocation.
func RecordEventHandled(handler string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsHandled.WithLabelValues(handler, outcome).Inc()
}

func truncate(s string) string {
	if len(s) > maxErrorLabel {
		return s[:maxErrorLabel]
	}
	return s
}
