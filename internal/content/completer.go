// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"fmt"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// Completion is a single-turn LLM request. Zero Temperature and MaxTokens
// take the provider defaults from configuration.
type Completion struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	JSON        bool
}

// Completer is a text generation provider.
type Completer interface {
	Name() string
	Available() bool
	Complete(ctx context.Context, c Completion) (string, error)
}

// NewCompleter returns the provider selected by cfg.Provider, or an
// unavailable one when its API key is missing.
func NewCompleter(cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "", "litellm":
		if cfg.APIKey == "" {
			return unavailable("litellm", "LITELLM_API_KEY"), nil
		}
		return newLiteLLM(cfg), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return unavailable("anthropic", "ANTHROPIC_API_KEY"), nil
		}
		return newAnthropic(cfg), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return unavailable("gemini", "GEMINI_API_KEY"), nil
		}
		return newGemini(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func unavailable(provider, setting string) Completer {
	logging.Warn().
		Str("provider", provider).
		Msgf("%s not configured; content generation is unavailable", setting)
	return unavailableCompleter{
		Unavailable: upstream.NewUnavailable("content generation", setting),
		provider:    provider,
	}
}

type unavailableCompleter struct {
	upstream.Unavailable
	provider string
}

func (u unavailableCompleter) Name() string { return u.provider }

func (u unavailableCompleter) Complete(context.Context, Completion) (string, error) {
	return "", u.Err()
}

// resolved applies provider defaults.
func (c Completion) resolved(cfg config.LLMConfig) Completion {
	if c.Temperature <= 0 {
		c.Temperature = cfg.Temperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = cfg.MaxTokens
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1500
	}
	return c
}
