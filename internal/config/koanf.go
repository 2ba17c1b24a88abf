// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/viralai/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultClient(timeout time.Duration, rps float64) ClientConfig {
	return ClientConfig{
		Timeout:           timeout,
		RequestsPerSecond: rps,
		Burst:             int(rps) + 1,
		MaxRetries:        3,
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         150 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/viralai.duckdb",
			MaxMemory: "1GB",
		},
		Cache: CacheConfig{
			Path:               "/data/cache",
			ResearchTTL:        24 * time.Hour,
			SuggestionTTL:      10 * time.Minute,
			SuggestionCapacity: 5000,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{},
			AdminEmails:     []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Autocomplete: AutocompleteConfig{
			URL:    "http://suggestqueries.google.com/complete/search",
			Client: defaultClient(5*time.Second, 10),
		},
		Research: ResearchConfig{
			Concurrency:    8,
			Deadline:       45 * time.Second,
			IncludeYouTube: true,
		},
		SerpAPI: SerpAPIConfig{
			URL:    "https://serpapi.com/search.json",
			Client: defaultClient(30*time.Second, 2),
		},
		YouTube: YouTubeConfig{
			URL:    "https://www.googleapis.com/youtube/v3",
			Client: defaultClient(10*time.Second, 5),
		},
		LLM: LLMConfig{
			Provider:       "litellm",
			URL:            "https://api.openai.com/v1",
			Model:          "gpt-4o",
			AnthropicModel: "claude-sonnet-4-20250514",
			GeminiModel:    "gemini-2.0-flash",
			Temperature:    0.8,
			MaxTokens:      1500,
			Client:         defaultClient(60*time.Second, 3),
		},
		Images: ImageConfig{
			URL:    "https://api.openai.com/v1",
			Model:  "dall-e-3",
			Client: defaultClient(60*time.Second, 1),
		},
		Generation: GenerationConfig{
			Concurrency:     3,
			PlatformTimeout: 120 * time.Second,
		},
		Usage: UsageConfig{
			EnforceQuotas: true,
			Tiers: map[string]TierLimit{
				"free":    {ContentBlocks: 1, APICalls: Unlimited, ImageGenerations: 1, VideoGenerations: 0},
				"creator": {ContentBlocks: 50, APICalls: Unlimited, ImageGenerations: 50, VideoGenerations: 5},
				"pro":     {ContentBlocks: 200, APICalls: Unlimited, ImageGenerations: 200, VideoGenerations: 999},
				"agency":  {ContentBlocks: 9999, APICalls: Unlimited, ImageGenerations: 9999, VideoGenerations: 9999},
			},
		},
		Links: LinksConfig{
			BaseURL:    "https://viral.ai-it.io",
			CodeLength: 6,
		},
		Events: EventsConfig{
			EmbeddedNATSPort:     4222,
			RetryMaxRetries:      3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         10 * time.Second,
			BufferSize:           256,
		},
	}
}

// LoadWithKoanf loads defaults, then the optional YAML file, then the
// environment, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyFallbacks lets a single OPENAI_API_KEY serve both the image API and a
// LiteLLM/OpenAI text endpoint.
func (c *Config) applyFallbacks() {
	if c.LLM.APIKey == "" && c.LLM.Provider == "litellm" {
		c.LLM.APIKey = c.Images.APIKey
	}
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.admin_emails",
	"newsletter.list_ids",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Storage
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"cache_path":          "cache.path",
	"research_cache_ttl":  "cache.research_ttl",
	"suggestion_ttl":      "cache.suggestion_ttl",
	"suggestion_capacity": "cache.suggestion_capacity",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_emails":        "security.admin_emails",
	"casbin_model_path":   "security.casbin_model_path",
	"casbin_policy_path":  "security.casbin_policy_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Keyword research
	"autocomplete_url":         "autocomplete.url",
	"autocomplete_timeout":     "autocomplete.client.timeout",
	"autocomplete_rps":         "autocomplete.client.requests_per_second",
	"research_concurrency":     "research.concurrency",
	"research_deadline":        "research.deadline",
	"research_include_youtube": "research.include_youtube",
	"serpapi_url":              "serpapi.url",
	"serpapi_key":              "serpapi.api_key",
	"youtube_api_url":          "youtube.url",
	"youtube_api_key":          "youtube.api_key",

	// Generation
	"llm_provider":                   "llm.provider",
	"litellm_base_url":               "llm.url",
	"litellm_api_key":                "llm.api_key",
	"llm_model":                      "llm.model",
	"llm_temperature":                "llm.temperature",
	"llm_max_tokens":                 "llm.max_tokens",
	"llm_timeout":                    "llm.client.timeout",
	"anthropic_api_key":              "llm.anthropic_api_key",
	"anthropic_model":                "llm.anthropic_model",
	"gemini_api_key":                 "llm.gemini_api_key",
	"gemini_model":                   "llm.gemini_model",
	"openai_base_url":                "images.url",
	"openai_api_key":                 "images.api_key",
	"image_model":                    "images.model",
	"image_timeout":                  "images.client.timeout",
	"generation_concurrency":         "generation.concurrency",
	"generation_platform_timeout":    "generation.platform_timeout",
	"usage_enforce_quotas":           "usage.enforce_quotas",
	"trackable_link_base_url":        "links.base_url",
	"trackable_link_code_length":     "links.code_length",
	"nats_url":                       "events.nats_url",
	"nats_embedded":                  "events.embedded_nats",
	"nats_embedded_port":             "events.embedded_nats_port",
	"events_retry_max":               "events.retry_max_retries",
	"events_retry_initial_interval":  "events.retry_initial_interval",
	"events_close_timeout":           "events.close_timeout",
	"events_buffer_size":             "events.buffer_size",
	"listmonk_url":                   "newsletter.listmonk_url",
	"listmonk_username":              "newsletter.username",
	"listmonk_password":              "newsletter.password",
	"listmonk_list_ids":              "newsletter.list_ids",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// returns "" so koanf skips it.
//
//	SERPAPI_KEY      -> serpapi.api_key
//	OPENAI_API_KEY   -> images.api_key
//	RESEARCH_DEADLINE -> research.deadline
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
