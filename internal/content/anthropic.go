// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/upstream"
)

const jsonOnlyInstruction = "Output only the JSON object, with no markdown fences."

// anthropicCompleter uses the Anthropic Messages API. The SDK handles its
// own retries; the breaker sits outside them.
type anthropicCompleter struct {
	client  anthropic.Client
	model   anthropic.Model
	cfg     config.LLMConfig
	breaker *upstream.Breaker[string]
}

func newAnthropic(cfg config.LLMConfig) *anthropicCompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.AnthropicAPIKey),
		option.WithMaxRetries(cfg.Client.MaxRetries),
	}
	if cfg.Client.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Client.Timeout))
	}

	model := anthropic.Model(cfg.AnthropicModel)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	return &anthropicCompleter{
		client:  anthropic.NewClient(opts...),
		model:   model,
		cfg:     cfg,
		breaker: upstream.NewBreaker[string]("anthropic", upstream.BreakerSettings{}),
	}
}

func (a *anthropicCompleter) Name() string    { return "anthropic" }
func (a *anthropicCompleter) Available() bool { return true }

func (a *anthropicCompleter) Complete(ctx context.Context, c Completion) (string, error) {
	c = c.resolved(a.cfg)

	params := anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   int64(c.MaxTokens),
		Temperature: anthropic.Float(min(c.Temperature, 1)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.Prompt)),
		},
	}
	system := c.System
	if c.JSON {
		system = strings.TrimSpace(system + "\n" + jsonOnlyInstruction)
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	return a.breaker.Execute(func() (string, error) {
		start := time.Now()
		msg, err := a.client.Messages.New(ctx, params)
		if err != nil {
			var apiErr *anthropic.Error
			if errors.As(err, &apiErr) {
				metrics.RecordUpstream("anthropic", apiErr.StatusCode, time.Since(start))
				return "", &upstream.StatusError{Service: "anthropic", StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
			}
			metrics.RecordUpstream("anthropic", 0, time.Since(start))
			return "", fmt.Errorf("anthropic: %w: %w", upstream.ErrTransport, err)
		}
		metrics.RecordUpstream("anthropic", 200, time.Since(start))

		var b strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		if b.Len() == 0 {
			return "", fmt.Errorf("anthropic: %w: no text content", upstream.ErrDecode)
		}
		return strings.TrimSpace(b.String()), nil
	})
}
