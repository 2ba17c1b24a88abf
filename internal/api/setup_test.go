// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/auth"
	"github.com/NetRider88/viralAI/internal/authz"
	"github.com/NetRider88/viralAI/internal/cache"
	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/links"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/usage"
	"github.com/NetRider88/viralAI/internal/websocket"
)

const testJWTSecret = "api-test-secret-that-is-long-enough-0123456789"

// testDBSemaphore serializes DuckDB use across parallel tests, the same way
// the database package does.
var (
	testDBSemaphore = make(chan struct{}, 1)
	testDBMutex     sync.Mutex
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	testDBMutex.Lock()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	testDBMutex.Unlock()
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func testClientConfig() config.ClientConfig {
	return config.ClientConfig{Timeout: 5 * time.Second, RequestsPerSecond: 1000, Burst: 1000}
}

// testEnv is a fully wired router over an in-memory database. Every paid
// upstream is unconfigured unless a test points it at an httptest server.
type testEnv struct {
	handler http.Handler
	db      *database.DB
	tokens  *auth.JWTManager
	tracker *usage.Tracker
	cfg     *config.Config
}

type envOption func(*config.Config)

func withAutocomplete(url string) envOption {
	return func(c *config.Config) { c.Autocomplete.URL = url }
}

func withLiteLLM(url string) envOption {
	return func(c *config.Config) {
		c.LLM = config.LLMConfig{Provider: "litellm", URL: url, APIKey: "sk-test", Model: "gpt-4o", Client: testClientConfig()}
	}
}

func withCORSOrigins(origins ...string) envOption {
	return func(c *config.Config) { c.Security.CORSOrigins = origins }
}

func withTierLimit(tier string, l config.TierLimit) envOption {
	return func(c *config.Config) { c.Usage.Tiers[tier] = l }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			AuthMode:          auth.ModeJWT,
			JWTSecret:         testJWTSecret,
			SessionTimeout:    time.Hour,
			RateLimitDisabled: true,
		},
		Autocomplete: config.AutocompleteConfig{URL: "http://127.0.0.1:1", Client: testClientConfig()},
		Research:     config.ResearchConfig{Concurrency: 8, Deadline: 10 * time.Second},
		Generation:   config.GenerationConfig{Concurrency: 3, PlatformTimeout: 10 * time.Second},
		Usage: config.UsageConfig{
			EnforceQuotas: true,
			Tiers: map[string]config.TierLimit{
				models.TierFree:   {ContentBlocks: 10, APICalls: 100, ImageGenerations: 10, VideoGenerations: 0},
				models.TierPro:    {ContentBlocks: 500, APICalls: 5000, ImageGenerations: 500, VideoGenerations: 100},
				models.TierAgency: {ContentBlocks: config.Unlimited, APICalls: config.Unlimited, ImageGenerations: config.Unlimited, VideoGenerations: config.Unlimited},
			},
		},
		Links: config.LinksConfig{BaseURL: "https://go.example.com/r", CodeLength: 6},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db := setupTestDB(t)

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	bundles, err := cache.Open("api-test", "")
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = bundles.Close() })

	aggregator := keywords.NewAggregator(cfg.Autocomplete, nil)
	kw := keywords.NewService(keywords.ServiceDeps{
		Researcher: keywords.NewResearcher(aggregator, cfg.Research),
		YouTube:    keywords.NewYouTube(cfg.YouTube),
		Store:      db,
		Cache:      bundles,
		Events:     events.Discard{},
	})

	llm, err := content.NewCompleter(cfg.LLM)
	if err != nil {
		t.Fatalf("NewCompleter() error = %v", err)
	}
	images := content.NewImages(cfg.Images)
	contentSvc := content.NewService(content.ServiceDeps{
		Generator: content.NewGenerator(content.NewWriter(llm), images, cfg.Generation),
		Images:    images,
		Humanizer: content.NewHumanizer(llm),
		Store:     db,
		Events:    events.Discard{},
	})

	tracker := usage.NewTracker(db, cfg.Usage)
	trends := keywords.NewTrends(cfg.SerpAPI)

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)

	handler := NewHandler(Deps{
		Config:     cfg,
		Auth:       auth.NewService(db, tokens, nil, cfg.Security.AdminEmails),
		Aggregator: aggregator,
		Keywords:   kw,
		Trends:     trends,
		Content:    contentSvc,
		Links:      links.NewService(db, cfg.Links),
		Usage:      tracker,
		Hub:        websocket.NewHub(),
		DB:         db,
		Users:      db,
		Features: []Feature{
			{Name: "trends", Available: trends.Available},
			{Name: "content_generation", Available: llm.Available},
			{Name: "images", Available: images.Available},
		},
	})

	router := NewRouter(handler,
		auth.NewMiddleware(tokens, cfg.Security.AuthMode),
		authz.NewMiddleware(enforcer),
		NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	return &testEnv{handler: router.SetupChi(), db: db, tokens: tokens, tracker: tracker, cfg: cfg}
}

// createUser inserts a user directly and returns a bearer token for it.
func (e *testEnv) createUser(t *testing.T, id, tier, role string) string {
	t.Helper()
	u := &models.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         id,
		PasswordHash: "unused",
		Tier:         tier,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	token, _, err := e.tokens.GenerateToken(u)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded response body with Data left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
	Meta models.Meta `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, rec)
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
	return env
}
