// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NetRider88/viralAI/internal/models"
)

func TestLinks_CreateRedirectAnalytics(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/v1/links", token, map[string]any{
		"destination":         "https://shop.example.com/beans?utm=ig",
		"platform_content_id": "pc-1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	link := decodeData[models.TrackableLink](t, rec)
	if len(link.ShortCode) != 6 || link.FullURL != "https://go.example.com/r/"+link.ShortCode {
		t.Fatalf("link = %+v", link)
	}

	clicks := []struct {
		ip, ua, country string
	}{
		{"203.0.113.7", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Safari/604.1", "DE"},
		{"203.0.113.7", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Safari/604.1", "DE"},
		{"198.51.100.2", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", ""},
	}
	for _, c := range clicks {
		req := httptest.NewRequest(http.MethodGet, "/r/"+link.ShortCode, nil)
		req.Header.Set("X-Forwarded-For", c.ip)
		req.Header.Set("User-Agent", c.ua)
		if c.country != "" {
			req.Header.Set("CF-IPCountry", c.country)
		}
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusFound {
			t.Fatalf("redirect status = %d, body = %s", rr.Code, rr.Body.String())
		}
		if loc := rr.Header().Get("Location"); loc != "https://shop.example.com/beans?utm=ig" {
			t.Errorf("Location = %q", loc)
		}
	}

	rec = env.do(t, http.MethodGet, "/api/v1/links/"+link.ID+"/analytics", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics status = %d, body = %s", rec.Code, rec.Body.String())
	}
	analytics := decodeData[models.LinkAnalytics](t, rec)
	if analytics.Link.Clicks != 3 || analytics.Link.UniqueVisitors != 2 {
		t.Errorf("clicks/unique = %d/%d, want 3/2", analytics.Link.Clicks, analytics.Link.UniqueVisitors)
	}
	if analytics.ByCountry["DE"] != 2 || analytics.ByCountry["Unknown"] != 1 {
		t.Errorf("by country = %v", analytics.ByCountry)
	}
	if analytics.ByDevice["mobile"] != 2 || analytics.ByDevice["desktop"] != 1 {
		t.Errorf("by device = %v", analytics.ByDevice)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/links", token, nil)
	if list := decodeData[[]models.TrackableLink](t, rec); len(list) != 1 || list[0].FullURL == "" {
		t.Errorf("list = %+v", list)
	}

	otherToken := env.createUser(t, "u2", models.TierFree, models.RoleUser)
	expectError(t, env.do(t, http.MethodGet, "/api/v1/links/"+link.ID+"/analytics", otherToken, nil),
		http.StatusNotFound, ErrCodeNotFound)
}

func TestLinks_CreateValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	for _, dest := range []string{"", "not a url", "ftp://example.com/file", "javascript:alert(1)"} {
		rec := env.do(t, http.MethodPost, "/api/v1/links", token, map[string]any{"destination": dest})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("destination %q: status = %d, want 400", dest, rec.Code)
		}
	}
}

func TestRedirect_UnknownCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/r/zzzzzz", "", nil)
	expectError(t, rec, http.StatusNotFound, ErrCodeNotFound)
	if strings.Contains(rec.Header().Get("Location"), "http") {
		t.Error("unknown code redirected")
	}
}

func TestUsage_ReportAndHistory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.createUser(t, "u1", models.TierFree, models.RoleUser)

	ctx := context.Background()
	for _, kind := range []models.UsageKind{models.UsageContentBlock, models.UsageContentBlock, models.UsageAPICall} {
		if err := env.tracker.RecordEvent(ctx, "u1", kind); err != nil {
			t.Fatalf("RecordEvent() error = %v", err)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/v1/usage", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	type usageReport struct {
		Tier     string             `json:"tier"`
		Usage    models.UsageBucket `json:"usage"`
		Enforced bool               `json:"enforced"`
	}
	report := decodeData[usageReport](t, rec)
	if report.Tier != models.TierFree || !report.Enforced {
		t.Errorf("report = %+v", report)
	}
	if report.Usage.ContentBlocksCreated != 2 || report.Usage.APICalls != 1 {
		t.Errorf("usage = %+v", report.Usage)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/usage/history?months=99", token, nil)
	history := decodeData[[]models.UsageBucket](t, rec)
	if len(history) != 1 || history[0].ContentBlocksCreated != 2 {
		t.Errorf("history = %+v", history)
	}
}
