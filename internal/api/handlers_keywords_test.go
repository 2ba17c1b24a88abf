// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/models"
)

// newAutocompleteServer answers every query with two suggestions derived
// from q.
func newAutocompleteServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query().Get("q")
		if r.URL.Query().Get("client") != "firefox" {
			t.Errorf("client = %q", r.URL.Query().Get("client"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["` + q + `",["` + q + ` tips","` + q + ` video ideas"]]`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestKeywordSuggestions(t *testing.T) {
	t.Parallel()
	srv, _ := newAutocompleteServer(t)
	env := newTestEnv(t, withAutocomplete(srv.URL))
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	rec := env.do(t, http.MethodGet, "/api/v1/keywords/suggestions?q=coffee&country=gb&language=EN", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeData[SuggestionsResponse](t, rec)

	want := []keywords.SuggestionResult{
		{Keyword: "coffee tips", PopularityScore: 10, EstimatedVolume: "10K-100K"},
		{Keyword: "coffee video ideas", PopularityScore: 9, EstimatedVolume: "10K-100K"},
	}
	if diff := cmp.Diff(want, got.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if got.Country != "GB" || got.Language != "en" {
		t.Errorf("country/language = %s/%s, want normalized GB/en", got.Country, got.Language)
	}
	if len(got.PlatformAffinity) == 0 {
		t.Error("platform affinity missing")
	}
	if env := decodeEnvelope(t, rec); env.Meta.Total != 2 {
		t.Errorf("meta.total = %d, want 2", env.Meta.Total)
	}
}

func TestKeywordSuggestions_UpstreamFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	env := newTestEnv(t, withAutocomplete(srv.URL))
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	rec := env.do(t, http.MethodGet, "/api/v1/keywords/suggestions?q=coffee", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeData[SuggestionsResponse](t, rec)
	if got.Suggestions == nil || len(got.Suggestions) != 0 {
		t.Errorf("suggestions = %#v, want empty non-nil", got.Suggestions)
	}
}

func TestKeywordSuggestions_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	for _, path := range []string{
		"/api/v1/keywords/suggestions",
		"/api/v1/keywords/suggestions?q=%20%20",
		"/api/v1/keywords/suggestions?q=coffee&country=GBR",
	} {
		expectError(t, env.do(t, http.MethodGet, path, token, nil), http.StatusBadRequest, "VALIDATION_ERROR")
	}
}

func TestKeywordResearch_RunAndHistory(t *testing.T) {
	t.Parallel()
	srv, calls := newAutocompleteServer(t)
	env := newTestEnv(t, withAutocomplete(srv.URL))
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	body := map[string]any{"keyword": "coffee"}
	rec := env.do(t, http.MethodPost, "/api/v1/keywords/research", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	first := decodeData[keywords.RunResult](t, rec)
	if first.Cached || first.ResearchID == "" || first.Bundle == nil {
		t.Fatalf("first run = %+v", first)
	}
	if first.Bundle.Summary.TotalSuggestions == 0 {
		t.Error("research returned no suggestions")
	}
	fanOut := calls.Load()

	rec = env.do(t, http.MethodPost, "/api/v1/keywords/research", token, body)
	second := decodeData[keywords.RunResult](t, rec)
	if !second.Cached || second.ResearchID != first.ResearchID {
		t.Errorf("second run cached=%v id=%s, want cached replay of %s", second.Cached, second.ResearchID, first.ResearchID)
	}
	if !decodeEnvelope(t, rec).Meta.Cached {
		t.Error("meta.cached = false for a cache hit")
	}
	if calls.Load() != fanOut {
		t.Errorf("cache hit made %d upstream calls", calls.Load()-fanOut)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/keywords/research", token, nil)
	history := decodeData[[]models.KeywordResearch](t, rec)
	if len(history) != 1 || history[0].Keyword != "coffee" || history[0].Country != "US" {
		t.Errorf("history = %+v", history)
	}

	otherToken := env.createUser(t, "u2", models.TierFree, models.RoleUser)
	rec = env.do(t, http.MethodGet, "/api/v1/keywords/research", otherToken, nil)
	if got := decodeData[[]models.KeywordResearch](t, rec); len(got) != 0 {
		t.Errorf("other user sees %d research records", len(got))
	}
}

func TestKeywordResearch_QuotaExceeded(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, withTierLimit(models.TierFree, config.TierLimit{APICalls: 1}))
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	if err := env.tracker.RecordEvent(context.Background(), "u1", models.UsageAPICall); err != nil {
		t.Fatalf("RecordEvent() error = %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/keywords/research", token, map[string]any{"keyword": "coffee"})
	envl := expectError(t, rec, http.StatusTooManyRequests, ErrCodeQuotaExceeded)
	if envl.Error.Details["kind"] != string(models.UsageAPICall) {
		t.Errorf("details = %v", envl.Error.Details)
	}
}

func TestKeywordResearch_BadBody(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{"invalid json", "{not json", ErrCodeBadRequest},
		{"empty body", "", ErrCodeBadRequest},
		{"missing keyword", map[string]any{"country": "US"}, "VALIDATION_ERROR"},
		{"bad country", map[string]any{"keyword": "coffee", "country": "USA"}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/keywords/research", token, tt.body)
			expectError(t, rec, http.StatusBadRequest, tt.wantCode)
		})
	}
}

func TestTrends_Unconfigured(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/api/v1/keywords/trending", http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
		{"/api/v1/keywords/interest?keyword=coffee", http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
		{"/api/v1/keywords/interest", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"/api/v1/keywords/related-topics?keyword=coffee", http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
		{"/api/v1/keywords/niches/technology", http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
		{"/api/v1/keywords/niches/knitting", http.StatusNotFound, ErrCodeNotFound},
		{"/api/v1/keywords/youtube?keyword=coffee", http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
		{"/api/v1/keywords/youtube/trending", http.StatusServiceUnavailable, ErrCodeFeatureUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			expectError(t, env.do(t, http.MethodGet, tt.path, token, nil), tt.wantStatus, tt.wantCode)
		})
	}
}

func TestListNiches(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	rec := env.do(t, http.MethodGet, "/api/v1/keywords/niches", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeData[[]keywords.Niche](t, rec)
	if diff := cmp.Diff(keywords.Niches(), got); diff != "" {
		t.Errorf("niches mismatch (-want +got):\n%s", diff)
	}
}
