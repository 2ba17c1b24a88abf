// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
)

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/api/v1/links/{id}", PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/links/"+id, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	}

	got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/links/{id}", "404"))
	if got < 3 {
		t.Errorf("requests for route pattern = %v, want >= 3", got)
	}
}

func TestPrometheusMetrics_WithoutRouter(t *testing.T) {
	t.Parallel()

	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/raw/path", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "unmatched", "200")); got < 1 {
		t.Errorf("unmatched counter = %v, want >= 1", got)
	}
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := newStatusRecorder(rec)
	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("body"))

	if w.statusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want 201", w.statusCode)
	}
	if w.bytes != 4 {
		t.Errorf("bytes = %d, want 4", w.bytes)
	}
	if w.Unwrap() != rec {
		t.Error("Unwrap() should return the wrapped writer")
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logging.SetLogger(prev) })

	handler := RequestID(AccessLog(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/keywords/research", nil))

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"status":503`, `"path":"/api/v1/keywords/research"`, `"request_id"`} {
		if !strings.Contains(out, want) {
			t.Errorf("access log %s missing %s", out, want)
		}
	}
}
