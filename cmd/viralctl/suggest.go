// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/keywords"
)

type queryFlags struct {
	country  string
	language string
	asJSON   bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.country, "country", "US", "two-letter country code")
	cmd.Flags().StringVar(&f.language, "language", "en", "language code")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON instead of a table")
}

func (f *queryFlags) query(args []string) keywords.KeywordQuery {
	return keywords.NormalizeQuery(keywords.KeywordQuery{
		Keyword:  strings.Join(args, " "),
		Country:  f.country,
		Language: f.language,
	})
}

func newSuggestCmd() *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "suggest <keyword...>",
		Short: "Fetch scored autocomplete suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			q := flags.query(args)

			out := keywords.NewAggregator(cfg.Autocomplete, nil).Fetch(cmd.Context(), q)
			if out.Failed() {
				return fmt.Errorf("autocomplete failed: %w", out.Err)
			}

			w := cmd.OutOrStdout()
			if flags.asJSON {
				return printJSON(w, map[string]any{
					"query":             q,
					"suggestions":       out.Suggestions,
					"platform_affinity": keywords.PlatformAffinity(suggestionTexts(out.Suggestions)),
				})
			}

			printHeading(w, "Suggestions for %q (%s/%s)", q.Keyword, q.Country, q.Language)
			if len(out.Suggestions) == 0 {
				printStatus(w, "-", "no suggestions", color.FgYellow)
				return nil
			}
			for _, s := range out.Suggestions {
				_, _ = fmt.Fprintf(w, "  %3d  %-10s %s\n", s.PopularityScore, s.EstimatedVolume, s.Keyword)
			}
			printHeading(w, "Platform affinity")
			for _, p := range keywords.PlatformAffinity(suggestionTexts(out.Suggestions)) {
				_, _ = fmt.Fprintf(w, "  %-10s %3d  %5.1f%%\n", p.Platform, p.MatchCount, p.PercentageOfTotal)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func suggestionTexts(s []keywords.SuggestionResult) []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Keyword
	}
	return out
}
