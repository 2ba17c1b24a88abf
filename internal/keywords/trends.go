// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// ErrUnknownNiche is returned for a niche outside the static table.
var ErrUnknownNiche = errors.New("unknown niche")

// Trends is Google Trends data.
type Trends interface {
	Available() bool
	Trending(ctx context.Context, geo string) (*TrendingResult, error)
	InterestOverTime(ctx context.Context, keyword, geo, timeframe string) (*InterestResult, error)
	RelatedTopics(ctx context.Context, keyword, geo string) (*RelatedTopicsResult, error)
	NicheKeywords(ctx context.Context, niche, geo string, limit int) (*NicheKeywordsResult, error)
}

// TrendingSearch is one trending query.
type TrendingSearch struct {
	Query      string `json:"query"`
	Traffic    string `json:"traffic"`
	TrafficRaw int64  `json:"traffic_raw"`
}

// TrendingResult is the trending searches for a region.
type TrendingResult struct {
	Geo        string           `json:"geo"`
	Searches   []TrendingSearch `json:"trending_searches"`
	TotalCount int              `json:"total_count"`
}

// TimelinePoint is one interest-over-time sample.
type TimelinePoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// RelatedQuery is a related search with its relative value.
type RelatedQuery struct {
	Query string `json:"query"`
	Value int64  `json:"value"`
}

// InterestResult is interest over time plus rising queries.
type InterestResult struct {
	Keyword        string          `json:"keyword"`
	Geo            string          `json:"geo"`
	Timeframe      string          `json:"timeframe"`
	Timeline       []TimelinePoint `json:"timeline_data"`
	RelatedQueries []RelatedQuery  `json:"related_queries"`
}

// RelatedTopic is a rising topic.
type RelatedTopic struct {
	Topic string `json:"topic"`
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

// RelatedTopicsResult is rising topics plus top queries.
type RelatedTopicsResult struct {
	Keyword        string         `json:"keyword"`
	Geo            string         `json:"geo"`
	RelatedTopics  []RelatedTopic `json:"related_topics"`
	RelatedQueries []RelatedQuery `json:"related_queries"`
}

// NicheKeyword is a trending keyword in a niche.
type NicheKeyword struct {
	Keyword    string `json:"keyword"`
	Trend      string `json:"trend"`
	Value      int64  `json:"value"`
	Growth     string `json:"growth"`
	Popularity string `json:"popularity"`
}

// NicheKeywordsResult is the keywords found for a niche's main seed.
type NicheKeywordsResult struct {
	Niche       string         `json:"niche"`
	Geo         string         `json:"geo"`
	SeedKeyword string         `json:"seed_keyword"`
	Keywords    []NicheKeyword `json:"keywords"`
	TotalCount  int            `json:"total_count"`
}

// Niche describes one niche category.
type Niche struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SeedKeywords []string `json:"seed_keywords"`
}

var niches = []struct {
	id    string
	seeds []string
}{
	{"technology", []string{"AI", "tech", "software", "gadgets", "apps"}},
	{"health", []string{"fitness", "health", "wellness", "nutrition", "workout"}},
	{"business", []string{"business", "startup", "entrepreneur", "marketing", "sales"}},
	{"finance", []string{"crypto", "stocks", "investing", "money", "finance"}},
	{"lifestyle", []string{"lifestyle", "fashion", "beauty", "travel", "food"}},
	{"entertainment", []string{"movies", "music", "gaming", "celebrities", "tv shows"}},
	{"education", []string{"learning", "courses", "education", "skills", "training"}},
	{"sports", []string{"sports", "football", "basketball", "fitness", "athletics"}},
	{"news", []string{"news", "politics", "world", "breaking", "current events"}},
	{"ecommerce", []string{"shopping", "deals", "products", "reviews", "ecommerce"}},
}

// Niches lists the niche table with the first three seeds of each.
func Niches() []Niche {
	out := make([]Niche, len(niches))
	for i, n := range niches {
		out[i] = Niche{
			ID:           n.id,
			Name:         strings.ToUpper(n.id[:1]) + n.id[1:],
			Description:  "Trending keywords in " + n.id,
			SeedKeywords: append([]string(nil), n.seeds[:3]...),
		}
	}
	return out
}

func nicheSeeds(id string) ([]string, bool) {
	for _, n := range niches {
		if n.id == id {
			return n.seeds, true
		}
	}
	return nil, false
}

// NewTrends returns a SerpApi-backed Trends, or an unavailable one when no
// API key is configured.
func NewTrends(cfg config.SerpAPIConfig) Trends {
	if cfg.APIKey == "" {
		logging.Warn().Msg("SERPAPI_KEY not configured; trends are unavailable")
		return unavailableTrends{upstream.NewUnavailable("google trends", "SERPAPI_KEY")}
	}
	return &serpTrends{
		client: upstream.NewClient(upstream.OptionsFromConfig("serpapi", cfg.URL, cfg.Client)),
		apiKey: cfg.APIKey,
	}
}

type serpTrends struct {
	client *upstream.Client
	apiKey string
}

type serpItem struct {
	Query          string     `json:"query"`
	Value          flexString `json:"value"`
	ExtractedValue flexInt    `json:"extracted_value"`
	Topic          struct {
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"topic"`
}

type serpResponse struct {
	RelatedQueries struct {
		Rising []serpItem `json:"rising"`
		Top    []serpItem `json:"top"`
	} `json:"related_queries"`
	RelatedTopics struct {
		Rising []serpItem `json:"rising"`
		Top    []serpItem `json:"top"`
	} `json:"related_topics"`
	InterestOverTime struct {
		TimelineData []struct {
			Date   string `json:"date"`
			Values []struct {
				ExtractedValue flexInt `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

func (s *serpTrends) Available() bool { return true }

func (s *serpTrends) search(ctx context.Context, params url.Values) (*serpResponse, error) {
	params.Set("engine", "google_trends")
	params.Set("api_key", s.apiKey)
	resp, err := upstream.GetJSON[serpResponse](ctx, s.client, "", params)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Trending returns rising queries for the seed "news", falling back to top
// queries when nothing is rising.
func (s *serpTrends) Trending(ctx context.Context, geo string) (*TrendingResult, error) {
	resp, err := s.search(ctx, url.Values{"q": {"news"}, "geo": {geo}})
	if err != nil {
		return nil, fmt.Errorf("trending searches: %w", err)
	}

	items, rising := resp.RelatedQueries.Rising, true
	if len(items) == 0 {
		items, rising = resp.RelatedQueries.Top, false
	}

	seen := make(map[string]struct{})
	out := &TrendingResult{Geo: geo, Searches: []TrendingSearch{}}
	for _, item := range head(items, 10) {
		if item.Query == "" {
			continue
		}
		if _, ok := seen[item.Query]; ok {
			continue
		}
		seen[item.Query] = struct{}{}
		traffic := fmt.Sprintf("%d", item.ExtractedValue)
		if rising {
			traffic = fmt.Sprintf("+%d%%", item.ExtractedValue)
		}
		out.Searches = append(out.Searches, TrendingSearch{
			Query:      item.Query,
			Traffic:    traffic,
			TrafficRaw: int64(item.ExtractedValue),
		})
	}
	out.Searches = head(out.Searches, 20)
	out.TotalCount = len(out.Searches)
	return out, nil
}

// InterestOverTime returns the timeline for keyword. An empty timeframe
// means the last 12 months.
func (s *serpTrends) InterestOverTime(ctx context.Context, keyword, geo, timeframe string) (*InterestResult, error) {
	if timeframe == "" {
		timeframe = "today 12-m"
	}
	resp, err := s.search(ctx, url.Values{"q": {keyword}, "geo": {geo}, "date": {timeframe}})
	if err != nil {
		return nil, fmt.Errorf("interest over time: %w", err)
	}

	out := &InterestResult{
		Keyword:        keyword,
		Geo:            geo,
		Timeframe:      timeframe,
		Timeline:       []TimelinePoint{},
		RelatedQueries: []RelatedQuery{},
	}
	for _, p := range resp.InterestOverTime.TimelineData {
		var v int64
		if len(p.Values) > 0 {
			v = int64(p.Values[0].ExtractedValue)
		}
		out.Timeline = append(out.Timeline, TimelinePoint{Date: p.Date, Value: v})
	}
	for _, q := range head(resp.RelatedQueries.Rising, 10) {
		out.RelatedQueries = append(out.RelatedQueries, RelatedQuery{Query: q.Query, Value: int64(q.ExtractedValue)})
	}
	return out, nil
}

// RelatedTopics returns rising topics and top queries for keyword.
func (s *serpTrends) RelatedTopics(ctx context.Context, keyword, geo string) (*RelatedTopicsResult, error) {
	resp, err := s.search(ctx, url.Values{"q": {keyword}, "geo": {geo}})
	if err != nil {
		return nil, fmt.Errorf("related topics: %w", err)
	}

	out := &RelatedTopicsResult{
		Keyword:        keyword,
		Geo:            geo,
		RelatedTopics:  []RelatedTopic{},
		RelatedQueries: []RelatedQuery{},
	}
	for _, t := range head(resp.RelatedTopics.Rising, 10) {
		out.RelatedTopics = append(out.RelatedTopics, RelatedTopic{
			Topic: t.Topic.Title,
			Type:  t.Topic.Type,
			Value: int64(t.ExtractedValue),
		})
	}
	for _, q := range head(resp.RelatedQueries.Top, 10) {
		out.RelatedQueries = append(out.RelatedQueries, RelatedQuery{Query: q.Query, Value: int64(q.ExtractedValue)})
	}
	return out, nil
}

// NicheKeywords returns rising queries for the niche's main seed, topped up
// with top queries until limit is reached.
func (s *serpTrends) NicheKeywords(ctx context.Context, niche, geo string, limit int) (*NicheKeywordsResult, error) {
	seeds, ok := nicheSeeds(niche)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNiche, niche)
	}
	if limit <= 0 {
		limit = 20
	}
	seed := seeds[0]

	resp, err := s.search(ctx, url.Values{"q": {seed}, "geo": {geo}, "data_type": {"RELATED_QUERIES"}})
	if err != nil {
		return nil, fmt.Errorf("niche keywords: %w", err)
	}

	out := &NicheKeywordsResult{Niche: niche, Geo: geo, SeedKeyword: seed, Keywords: []NicheKeyword{}}
	seen := make(map[string]struct{})
	for _, item := range head(resp.RelatedQueries.Rising, limit) {
		seen[item.Query] = struct{}{}
		out.Keywords = append(out.Keywords, NicheKeyword{
			Keyword:    item.Query,
			Trend:      "rising",
			Value:      int64(item.ExtractedValue),
			Growth:     fmt.Sprintf("+%d%%", item.ExtractedValue),
			Popularity: "high",
		})
	}
	if len(out.Keywords) < limit {
		for _, item := range head(resp.RelatedQueries.Top, limit-len(out.Keywords)) {
			if _, dup := seen[item.Query]; dup {
				continue
			}
			seen[item.Query] = struct{}{}
			popularity := "high"
			if item.ExtractedValue < 50 {
				popularity = "medium"
			}
			out.Keywords = append(out.Keywords, NicheKeyword{
				Keyword:    item.Query,
				Trend:      "stable",
				Value:      int64(item.ExtractedValue),
				Growth:     fmt.Sprintf("%d", item.ExtractedValue),
				Popularity: popularity,
			})
		}
	}
	out.Keywords = head(out.Keywords, limit)
	out.TotalCount = len(out.Keywords)
	return out, nil
}

type unavailableTrends struct {
	upstream.Unavailable
}

func (t unavailableTrends) Trending(context.Context, string) (*TrendingResult, error) {
	return nil, t.Err()
}

func (t unavailableTrends) InterestOverTime(context.Context, string, string, string) (*InterestResult, error) {
	return nil, t.Err()
}

func (t unavailableTrends) RelatedTopics(context.Context, string, string) (*RelatedTopicsResult, error) {
	return nil, t.Err()
}

func (t unavailableTrends) NicheKeywords(_ context.Context, niche, _ string, _ int) (*NicheKeywordsResult, error) {
	if _, ok := nicheSeeds(niche); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNiche, niche)
	}
	return nil, t.Err()
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
