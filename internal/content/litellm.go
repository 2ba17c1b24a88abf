// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// liteLLM speaks the OpenAI-compatible chat completions API, which is what
// a LiteLLM proxy exposes.
type liteLLM struct {
	client *upstream.Client
	cfg    config.LLMConfig
}

func newLiteLLM(cfg config.LLMConfig) *liteLLM {
	opts := upstream.OptionsFromConfig("litellm", cfg.URL, cfg.Client)
	opts.Headers = map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	return &liteLLM{client: upstream.NewClient(opts), cfg: cfg}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (l *liteLLM) Name() string    { return "litellm" }
func (l *liteLLM) Available() bool { return true }

func (l *liteLLM) Complete(ctx context.Context, c Completion) (string, error) {
	c = c.resolved(l.cfg)

	req := chatRequest{
		Model:       l.cfg.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	if c.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: c.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: c.Prompt})
	if c.JSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := upstream.PostJSONDecode[chatResponse](ctx, l.client, "chat/completions", req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("litellm: %w: no choices", upstream.ErrDecode)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
