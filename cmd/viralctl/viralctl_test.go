// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/usage"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// devEnv points configuration at a missing file and disables auth so
// config.Load validates without secrets.
func devEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("ENVIRONMENT", "development")
}

func newAutocomplete(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`["` + q + `",["` + q + ` tips","` + q + ` tutorial"]]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "viralctl version dev") {
		t.Errorf("output = %q", out)
	}
}

func TestSuggestCmd(t *testing.T) {
	devEnv(t)
	t.Setenv("AUTOCOMPLETE_URL", newAutocomplete(t).URL)

	out, err := runCmd(t, "suggest", "cold", "brew", "--country", "gb")
	if err != nil {
		t.Fatalf("suggest error = %v\n%s", err, out)
	}
	for _, want := range []string{`"cold brew" (GB/en)`, "cold brew tips", "cold brew tutorial", "youtube"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSuggestCmd_JSON(t *testing.T) {
	devEnv(t)
	t.Setenv("AUTOCOMPLETE_URL", newAutocomplete(t).URL)

	out, err := runCmd(t, "suggest", "coffee", "--json")
	if err != nil {
		t.Fatalf("suggest error = %v", err)
	}
	var got struct {
		Suggestions []struct {
			Keyword string `json:"keyword"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got.Suggestions) != 2 || got.Suggestions[0].Keyword != "coffee tips" {
		t.Errorf("suggestions = %+v", got.Suggestions)
	}
}

func TestSuggestCmd_UpstreamDown(t *testing.T) {
	devEnv(t)
	t.Setenv("AUTOCOMPLETE_URL", "http://127.0.0.1:1")

	if _, err := runCmd(t, "suggest", "coffee"); err == nil {
		t.Fatal("suggest against a dead upstream returned nil error")
	}
}

func TestConfigCheck(t *testing.T) {
	devEnv(t)
	t.Setenv("SERPAPI_KEY", "serp-test")

	out, err := runCmd(t, "config", "check")
	if err != nil {
		t.Fatalf("config check error = %v\n%s", err, out)
	}
	for _, want := range []string{"configuration is valid", "✓ trends", "youtube not configured"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCheck_Invalid(t *testing.T) {
	devEnv(t)
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "")

	out, err := runCmd(t, "config", "check")
	if err == nil {
		t.Fatal("config check accepted jwt mode without a secret")
	}
	if !strings.Contains(out, "JWT_SECRET") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigShow_MasksSecrets(t *testing.T) {
	devEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-secret-value")

	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if strings.Contains(out, "sk-ant-secret-value") {
		t.Error("config show printed a secret")
	}
	if !strings.Contains(out, "anthropic_api_key: ****") {
		t.Errorf("output = %q", out)
	}
}

func TestUsageCmd(t *testing.T) {
	report := usage.Report{
		Month: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Tier:  models.TierFree,
		Usage: models.UsageBucket{ContentBlocksCreated: 10, APICalls: 3},
		Limits: config.TierLimit{
			ContentBlocks: 10, APICalls: 100, ImageGenerations: 10, VideoGenerations: config.Unlimited,
		},
		Enforced: true,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/usage" || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"UNAUTHORIZED","message":"authentication required"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": report})
	}))
	defer srv.Close()

	out, err := runCmd(t, "usage", "--server", srv.URL, "--token", "tok")
	if err != nil {
		t.Fatalf("usage error = %v", err)
	}
	for _, want := range []string{"October 2026", "free tier", "content_block", "10 / 10", "3 / 100", "0 / unlimited"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	_, err = runCmd(t, "usage", "--server", srv.URL, "--token", "wrong")
	if err == nil || !strings.Contains(err.Error(), "UNAUTHORIZED") {
		t.Errorf("bad token error = %v", err)
	}
}

func TestUsageCmd_RequiresToken(t *testing.T) {
	t.Setenv("VIRALAI_TOKEN", "")
	if _, err := runCmd(t, "usage"); err == nil {
		t.Fatal("usage without a token returned nil error")
	}
}
