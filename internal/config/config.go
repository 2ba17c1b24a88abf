// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package config loads ViralAI configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//  1. built-in defaults (defaultConfig)
//  2. an optional YAML file (CONFIG_PATH, config.yaml, /etc/viralai/config.yaml)
//  3. environment variables, mapped through envTransformFunc
//
// Credentials for third-party APIs are optional. A service whose key is
// absent is built as "feature unavailable" instead of failing per call, so
// Load never rejects a config only because an API key is missing.
package config

import "time"

// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	Cache        CacheConfig        `koanf:"cache"`
	Security     SecurityConfig     `koanf:"security"`
	Logging      LoggingConfig      `koanf:"logging"`
	Autocomplete AutocompleteConfig `koanf:"autocomplete"`
	Research     ResearchConfig     `koanf:"research"`
	SerpAPI      SerpAPIConfig      `koanf:"serpapi"`
	YouTube      YouTubeConfig      `koanf:"youtube"`
	LLM          LLMConfig          `koanf:"llm"`
	Images       ImageConfig        `koanf:"images"`
	Generation   GenerationConfig   `koanf:"generation"`
	Usage        UsageConfig        `koanf:"usage"`
	Links        LinksConfig        `koanf:"links"`
	Events       EventsConfig       `koanf:"events"`
	Newsletter   NewsletterConfig   `koanf:"newsletter"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig configures the DuckDB store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// CacheConfig configures the Badger research cache and the in-process
// suggestion memo. An empty Path runs Badger in memory.
type CacheConfig struct {
	Path               string        `koanf:"path"`
	ResearchTTL        time.Duration `koanf:"research_ttl"`
	SuggestionTTL      time.Duration `koanf:"suggestion_ttl"`
	SuggestionCapacity int           `koanf:"suggestion_capacity"`
}

// SecurityConfig configures authentication, authorization and inbound limits.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	AdminEmails       []string      `koanf:"admin_emails"`
	CasbinModelPath   string        `koanf:"casbin_model_path"`
	CasbinPolicyPath  string        `koanf:"casbin_policy_path"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ClientConfig holds the transport limits shared by every outbound client.
type ClientConfig struct {
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
}

// AutocompleteConfig configures the keyword suggestion endpoint.
type AutocompleteConfig struct {
	URL    string       `koanf:"url"`
	Client ClientConfig `koanf:"client"`
}

// ResearchConfig bounds the keyword research fan-out.
type ResearchConfig struct {
	Concurrency    int           `koanf:"concurrency"`
	Deadline       time.Duration `koanf:"deadline"`
	IncludeYouTube bool          `koanf:"include_youtube"`
}

// SerpAPIConfig configures the Google Trends client.
type SerpAPIConfig struct {
	URL    string       `koanf:"url"`
	APIKey string       `koanf:"api_key"`
	Client ClientConfig `koanf:"client"`
}

// YouTubeConfig configures the YouTube Data API client.
type YouTubeConfig struct {
	URL    string       `koanf:"url"`
	APIKey string       `koanf:"api_key"`
	Client ClientConfig `koanf:"client"`
}

// LLMConfig selects and configures the text generation provider.
// Provider is one of litellm, anthropic, gemini.
type LLMConfig struct {
	Provider        string       `koanf:"provider"`
	URL             string       `koanf:"url"`
	APIKey          string       `koanf:"api_key"`
	Model           string       `koanf:"model"`
	AnthropicAPIKey string       `koanf:"anthropic_api_key"`
	AnthropicModel  string       `koanf:"anthropic_model"`
	GeminiAPIKey    string       `koanf:"gemini_api_key"`
	GeminiModel     string       `koanf:"gemini_model"`
	Temperature     float64      `koanf:"temperature"`
	MaxTokens       int          `koanf:"max_tokens"`
	Client          ClientConfig `koanf:"client"`
}

// ImageConfig configures the OpenAI-compatible image generation API.
type ImageConfig struct {
	URL    string       `koanf:"url"`
	APIKey string       `koanf:"api_key"`
	Model  string       `koanf:"model"`
	Client ClientConfig `koanf:"client"`
}

// GenerationConfig bounds the per-platform generation fan-out.
type GenerationConfig struct {
	Concurrency     int           `koanf:"concurrency"`
	PlatformTimeout time.Duration `koanf:"platform_timeout"`
}

// Unlimited is the TierLimit value for a quota with no ceiling. Zero allows
// nothing.
const Unlimited = -1

// TierLimit holds monthly quotas for one subscription tier. A negative value
// means unlimited.
type TierLimit struct {
	ContentBlocks    int `koanf:"content_blocks"`
	APICalls         int `koanf:"api_calls"`
	ImageGenerations int `koanf:"image_generations"`
	VideoGenerations int `koanf:"video_generations"`
}

// UsageConfig holds quota enforcement settings keyed by tier name.
type UsageConfig struct {
	EnforceQuotas bool                 `koanf:"enforce_quotas"`
	Tiers         map[string]TierLimit `koanf:"tiers"`
}

// LinksConfig configures trackable short links.
type LinksConfig struct {
	BaseURL    string `koanf:"base_url"`
	CodeLength int    `koanf:"code_length"`
}

// EventsConfig configures the Watermill event bus. NATSURL is optional; when
// set, events are mirrored to NATS core subjects. EmbeddedNATS starts an
// in-process NATS server and mirrors to it instead.
type EventsConfig struct {
	NATSURL              string        `koanf:"nats_url"`
	EmbeddedNATS         bool          `koanf:"embedded_nats"`
	EmbeddedNATSPort     int           `koanf:"embedded_nats_port"`
	RetryMaxRetries      int           `koanf:"retry_max_retries"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
	BufferSize           int64         `koanf:"buffer_size"`
}

// NewsletterConfig configures the Listmonk subscriber sync on signup.
type NewsletterConfig struct {
	ListmonkURL string `koanf:"listmonk_url"`
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	ListIDs     []int  `koanf:"list_ids"`
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// Limit returns the quota for a tier, falling back to the "free" tier for
// unknown names.
func (u UsageConfig) Limit(tier string) TierLimit {
	if l, ok := u.Tiers[tier]; ok {
		return l
	}
	return u.Tiers["free"]
}
