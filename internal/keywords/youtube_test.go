// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/upstream"
)

func newTestYouTube(t *testing.T, search, videos string) YouTube {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "yt-key" || r.URL.Query().Get("type") != "video" {
			t.Errorf("search query = %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(search))
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(videos))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewYouTube(config.YouTubeConfig{URL: server.URL, APIKey: "yt-key"})
}

func TestYouTube_KeywordStats(t *testing.T) {
	t.Parallel()

	yt := newTestYouTube(t,
		`{"pageInfo":{"totalResults":600},"items":[
			{"id":{"kind":"youtube#video","videoId":"v1"}},
			{"id":{"kind":"youtube#channel","channelId":"c1"}},
			{"id":{"kind":"youtube#video","videoId":"v2"}}
		]}`,
		`{"items":[
			{"id":"v1","snippet":{"title":"Brewing 101","channelTitle":"Beans"},"statistics":{"viewCount":"1000","likeCount":"100","commentCount":"5"}},
			{"id":"v2","snippet":{"title":"Latte art","channelTitle":"Milk"},"statistics":{"viewCount":"3000","likeCount":"30"}}
		]}`)

	got, err := yt.KeywordStats(context.Background(), "coffee", 0)
	if err != nil {
		t.Fatalf("KeywordStats() error = %v", err)
	}
	if got.VideoCount != 2 || got.TotalResults != 600 {
		t.Errorf("VideoCount = %d, TotalResults = %d", got.VideoCount, got.TotalResults)
	}
	if got.TotalViews != 4000 || got.AvgViews != 2000 || got.TotalLikes != 130 || got.TotalComments != 5 {
		t.Errorf("totals = %+v", got)
	}
	if got.EngagementRate != 3.25 {
		t.Errorf("EngagementRate = %v, want 3.25", got.EngagementRate)
	}
	if got.TopVideos[0].VideoID != "v2" || got.TopVideos[0].EngagementRate != 1 {
		t.Errorf("top video = %+v, want v2 sorted first", got.TopVideos[0])
	}
	if got.TopVideos[1].EngagementRate != 10 {
		t.Errorf("v1 engagement = %v, want 10", got.TopVideos[1].EngagementRate)
	}
	if got.EstimatedMonthlySearches != "1K-5K" || got.CompetitionLevel != "Low" {
		t.Errorf("searches = %q, competition = %q", got.EstimatedMonthlySearches, got.CompetitionLevel)
	}
}

func TestYouTube_KeywordStatsNoVideos(t *testing.T) {
	t.Parallel()

	yt := newTestYouTube(t, `{"pageInfo":{"totalResults":0},"items":[]}`, `{"items":[]}`)
	got, err := yt.KeywordStats(context.Background(), "zzzz", 10)
	if err != nil {
		t.Fatalf("KeywordStats() error = %v", err)
	}
	if got.CompetitionLevel != "Unknown" || got.EstimatedMonthlySearches != "<1K" || len(got.TopVideos) != 0 {
		t.Errorf("empty stats = %+v", got)
	}
}

func TestYouTube_TrendingTopics(t *testing.T) {
	t.Parallel()

	yt := newTestYouTube(t, `{}`, `{"items":[
		{"id":"t1","snippet":{"title":"Hit","channelTitle":"Chan","categoryId":"10"},"statistics":{"viewCount":"99","likeCount":"9"}}
	]}`)
	got, err := yt.TrendingTopics(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("TrendingTopics() error = %v", err)
	}
	if len(got) != 1 || got[0].Category != "10" || got[0].Views != 99 {
		t.Errorf("TrendingTopics() = %+v", got)
	}
}

func TestYouTube_Unavailable(t *testing.T) {
	t.Parallel()

	yt := NewYouTube(config.YouTubeConfig{})
	if yt.Available() {
		t.Fatal("Available() = true without an API key")
	}
	if _, err := yt.KeywordStats(context.Background(), "x", 5); !errors.Is(err, upstream.ErrFeatureUnavailable) {
		t.Errorf("KeywordStats() error = %v", err)
	}
	if _, err := yt.TrendingTopics(context.Background(), "US", 5); !errors.Is(err, upstream.ErrConfigurationMissing) {
		t.Errorf("TrendingTopics() error = %v", err)
	}
}

func TestCompetition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		videos, avg int64
		want        string
	}{
		{20_000, 200_000, "Very High"},
		{20_000, 60_000, "High"},
		{6_000, 60_000, "High"},
		{6_000, 20_000, "Medium"},
		{2_000, 20_000, "Medium"},
		{2_000, 5_000, "Low"},
		{501, 0, "Low"},
		{500, 1_000_000, "Very Low"},
		{0, 0, "Very Low"},
	}
	for _, tt := range tests {
		if got := Competition(tt.videos, tt.avg); got != tt.want {
			t.Errorf("Competition(%d, %d) = %q, want %q", tt.videos, tt.avg, got, tt.want)
		}
	}
}

func TestEstimateSearches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		avg  int64
		want string
	}{
		{2_000_000, "1M+"},
		{500_000, "500K-1M"},
		{100_000, "100K-500K"},
		{50_000, "50K-100K"},
		{10_000, "10K-50K"},
		{5_000, "5K-10K"},
		{1_000, "1K-5K"},
		{999, "<1K"},
		{0, "<1K"},
	}
	for _, tt := range tests {
		if got := EstimateSearches(tt.avg); got != tt.want {
			t.Errorf("EstimateSearches(%d) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}
