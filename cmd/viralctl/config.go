// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/content"
	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/newsletter"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the server configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate configuration and report which integrations are usable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			cfg, err := config.Load()
			if err != nil {
				printStatus(w, "✗", err.Error(), color.FgRed)
				return err
			}
			printStatus(w, "✓", "configuration is valid", color.FgGreen)
			return checkIntegrations(w, cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			showConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})
	return cmd
}

type availability interface{ Available() bool }

func checkIntegrations(w io.Writer, cfg *config.Config) error {
	llm, err := content.NewCompleter(cfg.LLM)
	if err != nil {
		printStatus(w, "✗", fmt.Sprintf("llm: %v", err), color.FgRed)
		return err
	}

	provider := cfg.LLM.Provider
	if provider == "" {
		provider = "litellm"
	}

	integrations := []struct {
		name string
		svc  availability
		hint string
	}{
		{"trends", keywords.NewTrends(cfg.SerpAPI), "set SERPAPI_KEY"},
		{"youtube", keywords.NewYouTube(cfg.YouTube), "set YOUTUBE_API_KEY"},
		{"content generation (" + provider + ")", llm, "set the API key for LLM_PROVIDER"},
		{"images", content.NewImages(cfg.Images), "set OPENAI_API_KEY"},
		{"newsletter", newsletter.New(cfg.Newsletter), "set LISTMONK_URL"},
	}
	for _, in := range integrations {
		if in.svc.Available() {
			printStatus(w, "✓", in.name, color.FgGreen)
		} else {
			printStatus(w, "⚠", fmt.Sprintf("%s not configured (%s)", in.name, in.hint), color.FgYellow)
		}
	}
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "****"
}

func showConfig(w io.Writer, cfg *config.Config) {
	printHeading(w, "server")
	_, _ = fmt.Fprintf(w, "  addr: %s\n  environment: %s\n  shutdown_timeout: %s\n",
		cfg.Server.Addr(), cfg.Server.Environment, cfg.Server.ShutdownTimeout)

	printHeading(w, "storage")
	_, _ = fmt.Fprintf(w, "  database.path: %s\n  cache.path: %s\n  cache.research_ttl: %s\n",
		cfg.Database.Path, cfg.Cache.Path, cfg.Cache.ResearchTTL)

	printHeading(w, "security")
	_, _ = fmt.Fprintf(w, "  auth_mode: %s\n  jwt_secret: %s\n  cors_origins: %v\n  rate_limit: %d per %s (disabled: %t)\n",
		cfg.Security.AuthMode, mask(cfg.Security.JWTSecret), cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)

	printHeading(w, "llm")
	_, _ = fmt.Fprintf(w, "  provider: %s\n  api_key: %s\n  anthropic_api_key: %s\n  gemini_api_key: %s\n",
		cfg.LLM.Provider, mask(cfg.LLM.APIKey), mask(cfg.LLM.AnthropicAPIKey), mask(cfg.LLM.GeminiAPIKey))

	printHeading(w, "usage tiers (enforced: %t)", cfg.Usage.EnforceQuotas)
	tiers := make([]string, 0, len(cfg.Usage.Tiers))
	for name := range cfg.Usage.Tiers {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)
	for _, name := range tiers {
		l := cfg.Usage.Tiers[name]
		_, _ = fmt.Fprintf(w, "  %-8s blocks=%s api=%s images=%s videos=%s\n", name,
			limitString(l.ContentBlocks), limitString(l.APICalls),
			limitString(l.ImageGenerations), limitString(l.VideoGenerations))
	}
}
