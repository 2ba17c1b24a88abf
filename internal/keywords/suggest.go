// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/NetRider88/viralAI/internal/cache"
	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// KeywordQuery is an immutable request descriptor.
type KeywordQuery struct {
	Keyword  string `json:"keyword"`
	Country  string `json:"country"`
	Language string `json:"language"`
}

// SuggestionResult is one scored autocomplete suggestion.
type SuggestionResult struct {
	Keyword         string `json:"keyword"`
	PopularityScore int    `json:"popularity_score"`
	EstimatedVolume string `json:"estimated_volume"`
}

// Status classifies a fetch.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// Outcome is the result of one suggestion fetch. Err is set only when
// Status is StatusFailed.
type Outcome struct {
	Status      Status
	Suggestions []SuggestionResult
	Err         error
}

// Failed reports whether the fetch failed.
func (o Outcome) Failed() bool { return o.Status == StatusFailed }

// Suggester fetches suggestions for one query.
type Suggester interface {
	Fetch(ctx context.Context, q KeywordQuery) Outcome
}

// Aggregator queries the autocomplete endpoint. Safe for concurrent use.
type Aggregator struct {
	client *upstream.Client
	memo   *cache.LRU[[]SuggestionResult]
}

// NewAggregator creates an Aggregator. memo may be nil to disable
// memoization.
func NewAggregator(cfg config.AutocompleteConfig, memo *cache.LRU[[]SuggestionResult]) *Aggregator {
	return NewAggregatorWithClient(
		upstream.NewClient(upstream.OptionsFromConfig("autocomplete", cfg.URL, cfg.Client)), memo)
}

// NewAggregatorWithClient creates an Aggregator over an existing client.
func NewAggregatorWithClient(client *upstream.Client, memo *cache.LRU[[]SuggestionResult]) *Aggregator {
	return &Aggregator{client: client, memo: memo}
}

// Fetch sends one autocomplete request. Only successful outcomes are
// memoized.
func (a *Aggregator) Fetch(ctx context.Context, q KeywordQuery) Outcome {
	key := memoKey(q)
	if a.memo != nil {
		if cached, ok := a.memo.Get(key); ok {
			metrics.SuggestionOutcomes.WithLabelValues(string(StatusSuccess)).Inc()
			return Outcome{Status: StatusSuccess, Suggestions: cloneSuggestions(cached)}
		}
	}

	out := a.fetch(ctx, q)
	metrics.SuggestionOutcomes.WithLabelValues(string(out.Status)).Inc()

	if out.Status == StatusSuccess && a.memo != nil {
		a.memo.Add(key, cloneSuggestions(out.Suggestions))
	}
	return out
}

func (a *Aggregator) fetch(ctx context.Context, q KeywordQuery) Outcome {
	params := url.Values{
		"client": {"firefox"},
		"q":      {q.Keyword},
		"hl":     {q.Language},
		"gl":     {q.Country},
	}

	resp, err := a.client.Get(ctx, "", params)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("query", q.Keyword).
			Str("error_class", upstream.Classify(err)).
			Msg("autocomplete request failed")
		return Outcome{Status: StatusFailed, Err: err}
	}

	items, err := parseAutocomplete(resp.Body)
	if err != nil {
		return Outcome{Status: StatusFailed, Err: fmt.Errorf("autocomplete: %w", err)}
	}
	if len(items) == 0 {
		return Outcome{Status: StatusEmpty, Suggestions: []SuggestionResult{}}
	}
	return Outcome{Status: StatusSuccess, Suggestions: scoreSuggestions(items)}
}

// FetchSuggestions is the degrade-to-empty form of Fetch: failures return
// an empty, non-nil slice.
func (a *Aggregator) FetchSuggestions(ctx context.Context, query, country, language string) []SuggestionResult {
	out := a.Fetch(ctx, KeywordQuery{Keyword: query, Country: country, Language: language})
	if out.Status != StatusSuccess {
		return []SuggestionResult{}
	}
	return out.Suggestions
}

// parseAutocomplete decodes [echoedQuery, [suggestion, ...], ...].
func parseAutocomplete(body []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", upstream.ErrDecode, err)
	}
	if len(raw) < 2 {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal(raw[1], &items); err != nil {
		return nil, fmt.Errorf("%w: suggestions: %w", upstream.ErrDecode, err)
	}
	return items, nil
}

func scoreSuggestions(items []string) []SuggestionResult {
	out := make([]SuggestionResult, len(items))
	for i, item := range items {
		score := Score(i)
		out[i] = SuggestionResult{
			Keyword:         item,
			PopularityScore: score,
			EstimatedVolume: VolumeBand(score),
		}
	}
	return out
}

// Score returns the popularity score for the suggestion at index i.
func Score(i int) int {
	return max(10-i, 1)
}

// VolumeBand maps a popularity score to an estimated search volume range.
func VolumeBand(score int) string {
	switch {
	case score >= 9:
		return "10K-100K"
	case score >= 7:
		return "5K-10K"
	case score >= 5:
		return "1K-5K"
	case score >= 3:
		return "500-1K"
	default:
		return "100-500"
	}
}

func memoKey(q KeywordQuery) string {
	return strings.ToLower(q.Language) + "|" + strings.ToLower(q.Country) + "|" + q.Keyword
}

func cloneSuggestions(s []SuggestionResult) []SuggestionResult {
	return append([]SuggestionResult(nil), s...)
}

// NewSuggestionMemo builds the LRU used by the Aggregator.
func NewSuggestionMemo(cfg config.CacheConfig) *cache.LRU[[]SuggestionResult] {
	capacity := cfg.SuggestionCapacity
	if capacity <= 0 {
		capacity = 2048
	}
	ttl := cfg.SuggestionTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return cache.NewLRU[[]SuggestionResult]("suggestions", capacity, ttl)
}
