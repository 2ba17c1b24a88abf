// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour

	maxResearchConcurrency   = 64
	maxGenerationConcurrency = 16
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validAuthModes = map[string]bool{
	"none": true,
	"jwt":  true,
}

var validLLMProviders = map[string]bool{
	"litellm":   true,
	"anthropic": true,
	"gemini":    true,
}

// placeholderPatterns catch secrets copied verbatim from example files.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// Validate checks the loaded configuration. Missing third-party API keys are
// not errors; they disable the matching feature.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateEndpoints,
		c.validateResearch,
		c.validateGeneration,
		c.validateUsage,
		c.validateLinks,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
		}
		if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
		}
	}
	if c.Security.AuthMode == "jwt" {
		return c.validateJWTSecret()
	}
	if c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value; generate one with: openssl rand -base64 32")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	endpoints := []struct {
		name string
		url  string
	}{
		{"AUTOCOMPLETE_URL", c.Autocomplete.URL},
		{"SERPAPI_URL", c.SerpAPI.URL},
		{"YOUTUBE_API_URL", c.YouTube.URL},
		{"LITELLM_BASE_URL", c.LLM.URL},
		{"OPENAI_BASE_URL", c.Images.URL},
	}
	for _, e := range endpoints {
		if err := validateEndpointURL(e.url, e.name); err != nil {
			return err
		}
	}
	if !validLLMProviders[c.LLM.Provider] {
		return fmt.Errorf("LLM_PROVIDER must be one of: litellm, anthropic, gemini")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	if c.Newsletter.ListmonkURL != "" {
		if err := validateHTTPURL(c.Newsletter.ListmonkURL, "LISTMONK_URL"); err != nil {
			return err
		}
	}
	if c.Events.NATSURL != "" {
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateResearch() error {
	if c.Research.Concurrency < 1 || c.Research.Concurrency > maxResearchConcurrency {
		return fmt.Errorf("RESEARCH_CONCURRENCY must be between 1 and %d", maxResearchConcurrency)
	}
	if c.Research.Deadline <= 0 {
		return fmt.Errorf("RESEARCH_DEADLINE must be positive")
	}
	if c.Cache.ResearchTTL < 0 || c.Cache.SuggestionTTL < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.Concurrency < 1 || c.Generation.Concurrency > maxGenerationConcurrency {
		return fmt.Errorf("GENERATION_CONCURRENCY must be between 1 and %d", maxGenerationConcurrency)
	}
	if c.Generation.PlatformTimeout <= 0 {
		return fmt.Errorf("GENERATION_PLATFORM_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateUsage() error {
	if _, ok := c.Usage.Tiers["free"]; !ok {
		return fmt.Errorf("usage.tiers must define the free tier")
	}
	for name, l := range c.Usage.Tiers {
		for _, v := range []int{l.ContentBlocks, l.APICalls, l.ImageGenerations, l.VideoGenerations} {
			if v < Unlimited {
				return fmt.Errorf("usage.tiers.%s: limits must be %d (unlimited) or >= 0, got %d", name, Unlimited, v)
			}
		}
	}
	return nil
}

func (c *Config) validateLinks() error {
	if err := validateHTTPURL(c.Links.BaseURL, "TRACKABLE_LINK_BASE_URL"); err != nil {
		return err
	}
	if c.Links.CodeLength < 4 || c.Links.CodeLength > 16 {
		return fmt.Errorf("TRACKABLE_LINK_CODE_LENGTH must be between 4 and 16")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, p := range placeholderPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
