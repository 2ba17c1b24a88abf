// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package authz

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts authorization decisions by role, action and outcome.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viralai_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "action", "decision"},
	)

	// DecisionDuration tracks decision latency, split by cache hit.
	DecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viralai_authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"cache_hit"},
	)
)

func recordDecision(role, action string, allowed, cacheHit bool, d time.Duration) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	DecisionsTotal.WithLabelValues(role, action, decision).Inc()
	DecisionDuration.WithLabelValues(strconv.FormatBool(cacheHit)).Observe(d.Seconds())
}
