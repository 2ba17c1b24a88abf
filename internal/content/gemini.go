// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/upstream"
)

type geminiCompleter struct {
	client  *genai.Client
	model   string
	cfg     config.LLMConfig
	breaker *upstream.Breaker[string]
}

func newGemini(cfg config.LLMConfig) (*geminiCompleter, error) {
	timeout := cfg.Client.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiCompleter{
		client:  client,
		model:   model,
		cfg:     cfg,
		breaker: upstream.NewBreaker[string]("gemini", upstream.BreakerSettings{}),
	}, nil
}

func (g *geminiCompleter) Name() string    { return "gemini" }
func (g *geminiCompleter) Available() bool { return true }

func (g *geminiCompleter) Complete(ctx context.Context, c Completion) (string, error) {
	c = c.resolved(g.cfg)

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.Temperature)),
		MaxOutputTokens: int32(c.MaxTokens),
	}
	if c.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(c.System, genai.RoleUser)
	}
	if c.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	return g.breaker.Execute(func() (string, error) {
		start := time.Now()
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(c.Prompt), genCfg)
		if err != nil {
			var apiErr genai.APIError
			if errors.As(err, &apiErr) {
				metrics.RecordUpstream("gemini", apiErr.Code, time.Since(start))
				return "", &upstream.StatusError{Service: "gemini", StatusCode: apiErr.Code, Body: apiErr.Message}
			}
			metrics.RecordUpstream("gemini", 0, time.Since(start))
			return "", fmt.Errorf("gemini: %w: %w", upstream.ErrTransport, err)
		}
		metrics.RecordUpstream("gemini", 200, time.Since(start))

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", fmt.Errorf("gemini: %w: empty response", upstream.ErrDecode)
		}
		return text, nil
	})
}
