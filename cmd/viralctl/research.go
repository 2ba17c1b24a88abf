// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/keywords"
)

func newResearchCmd() *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "research <keyword...>",
		Short: "Run the full keyword research fan-out",
		Long: `research expands the keyword into question, preposition, alphabetical
and comparison queries, fetches suggestions for each, and prints the
assembled bundle. Nothing is cached or persisted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			q := flags.query(args)

			aggregator := keywords.NewAggregator(cfg.Autocomplete, keywords.NewSuggestionMemo(cfg.Cache))
			bundle, err := keywords.NewResearcher(aggregator, cfg.Research).Research(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("research: %w", err)
			}

			w := cmd.OutOrStdout()
			if flags.asJSON {
				return printJSON(w, bundle)
			}
			printBundle(w, bundle)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printBundle(w io.Writer, b *keywords.ResearchBundle) {
	printHeading(w, "Research for %q (%s/%s)", b.Keyword, b.Country, b.Language)
	s := b.Summary
	_, _ = fmt.Fprintf(w, "  %d suggestions: %d questions, %d prepositions, %d alphabetical, %d comparisons\n",
		s.TotalSuggestions, s.QuestionsCount, s.PrepositionsCount, s.AlphabeticalCount, s.ComparisonsCount)
	if s.FailedQueries > 0 {
		printStatus(w, "!", fmt.Sprintf("%d queries failed or timed out", s.FailedQueries), color.FgYellow)
	}

	for _, group := range []struct {
		name    string
		results []keywords.ResearchCategoryResult
	}{
		{"Questions", b.Questions},
		{"Prepositions", b.Prepositions},
		{"Comparisons", b.Comparisons},
	} {
		if len(group.results) == 0 {
			continue
		}
		printHeading(w, "%s", group.name)
		for _, r := range group.results {
			_, _ = fmt.Fprintf(w, "  %-8s %d\n", r.Category, r.Count)
			for _, sug := range r.Suggestions {
				_, _ = dim.Fprintf(w, "           %s\n", sug.Keyword)
			}
		}
	}

	if len(b.RelatedKeywords) > 0 {
		printHeading(w, "Related keywords")
		for _, k := range b.RelatedKeywords {
			_, _ = fmt.Fprintf(w, "  %s\n", k)
		}
	}
}
