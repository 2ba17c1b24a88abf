// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// YouTube is keyword-level video statistics.
type YouTube interface {
	Available() bool
	KeywordStats(ctx context.Context, keyword string, maxResults int) (*VideoStats, error)
	TrendingTopics(ctx context.Context, region string, maxResults int) ([]TrendingVideo, error)
}

// VideoSummary is one video in the top list.
type VideoSummary struct {
	VideoID        string  `json:"video_id"`
	Title          string  `json:"title"`
	Channel        string  `json:"channel"`
	PublishedAt    string  `json:"published_at"`
	Thumbnail      string  `json:"thumbnail"`
	Views          int64   `json:"views"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	EngagementRate float64 `json:"engagement_rate"`
}

// VideoStats aggregates the videos found for a keyword.
type VideoStats struct {
	Keyword                  string         `json:"keyword"`
	Platform                 string         `json:"platform"`
	VideoCount               int            `json:"video_count"`
	TotalResults             int64          `json:"total_results"`
	TotalViews               int64          `json:"total_views"`
	AvgViews                 int64          `json:"avg_views"`
	TotalLikes               int64          `json:"total_likes"`
	TotalComments            int64          `json:"total_comments"`
	EngagementRate           float64        `json:"engagement_rate"`
	TopVideos                []VideoSummary `json:"top_videos"`
	EstimatedMonthlySearches string         `json:"estimated_monthly_searches"`
	CompetitionLevel         string         `json:"competition_level"`
}

// TrendingVideo is a most-popular chart entry.
type TrendingVideo struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Category  string `json:"category"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Thumbnail string `json:"thumbnail"`
}

// NewYouTube returns a YouTube Data API v3 client, or an unavailable one
// when no API key is configured.
func NewYouTube(cfg config.YouTubeConfig) YouTube {
	if cfg.APIKey == "" {
		logging.Warn().Msg("YOUTUBE_API_KEY not configured; video statistics are unavailable")
		return unavailableYouTube{upstream.NewUnavailable("youtube", "YOUTUBE_API_KEY")}
	}
	return &youTubeClient{
		client: upstream.NewClient(upstream.OptionsFromConfig("youtube", cfg.URL, cfg.Client)),
		apiKey: cfg.APIKey,
	}
}

type youTubeClient struct {
	client *upstream.Client
	apiKey string
}

type ytSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	CategoryID   string `json:"categoryId"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
	} `json:"thumbnails"`
}

type ytVideo struct {
	ID         string    `json:"id"`
	Snippet    ytSnippet `json:"snippet"`
	Statistics struct {
		ViewCount    flexInt `json:"viewCount"`
		LikeCount    flexInt `json:"likeCount"`
		CommentCount flexInt `json:"commentCount"`
	} `json:"statistics"`
}

type ytSearchResponse struct {
	PageInfo struct {
		TotalResults int64 `json:"totalResults"`
	} `json:"pageInfo"`
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []ytVideo `json:"items"`
}

func (y *youTubeClient) Available() bool { return true }

// KeywordStats searches for keyword, then fetches statistics for the hits.
// maxResults is clamped to 1..50, the API maximum.
func (y *youTubeClient) KeywordStats(ctx context.Context, keyword string, maxResults int) (*VideoStats, error) {
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 50
	}

	search, err := upstream.GetJSON[ytSearchResponse](ctx, y.client, "search", url.Values{
		"q":                 {keyword},
		"part":              {"id,snippet"},
		"maxResults":        {strconv.Itoa(maxResults)},
		"type":              {"video"},
		"order":             {"relevance"},
		"relevanceLanguage": {"en"},
		"key":               {y.apiKey},
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.Kind == "youtube#video" && item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return emptyVideoStats(keyword), nil
	}

	videos, err := upstream.GetJSON[ytVideosResponse](ctx, y.client, "videos", url.Values{
		"part": {"statistics,snippet"},
		"id":   {strings.Join(ids, ",")},
		"key":  {y.apiKey},
	})
	if err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}

	return summarizeVideos(keyword, len(ids), search.PageInfo.TotalResults, videos.Items), nil
}

func summarizeVideos(keyword string, videoCount int, totalResults int64, items []ytVideo) *VideoStats {
	stats := &VideoStats{
		Keyword:      keyword,
		Platform:     "youtube",
		VideoCount:   videoCount,
		TotalResults: totalResults,
		TopVideos:    make([]VideoSummary, 0, len(items)),
	}

	for _, v := range items {
		views := int64(v.Statistics.ViewCount)
		likes := int64(v.Statistics.LikeCount)
		comments := int64(v.Statistics.CommentCount)
		stats.TotalViews += views
		stats.TotalLikes += likes
		stats.TotalComments += comments

		stats.TopVideos = append(stats.TopVideos, VideoSummary{
			VideoID:        v.ID,
			Title:          v.Snippet.Title,
			Channel:        v.Snippet.ChannelTitle,
			PublishedAt:    v.Snippet.PublishedAt,
			Thumbnail:      v.Snippet.Thumbnails.Medium.URL,
			Views:          views,
			Likes:          likes,
			Comments:       comments,
			EngagementRate: percent2(likes, views),
		})
	}

	sort.SliceStable(stats.TopVideos, func(i, j int) bool {
		return stats.TopVideos[i].Views > stats.TopVideos[j].Views
	})
	stats.TopVideos = head(stats.TopVideos, 10)

	if videoCount > 0 {
		stats.AvgViews = stats.TotalViews / int64(videoCount)
	}
	stats.EngagementRate = percent2(stats.TotalLikes, stats.TotalViews)
	stats.EstimatedMonthlySearches = EstimateSearches(stats.AvgViews)
	stats.CompetitionLevel = Competition(totalResults, stats.AvgViews)
	return stats
}

func emptyVideoStats(keyword string) *VideoStats {
	return &VideoStats{
		Keyword:                  keyword,
		Platform:                 "youtube",
		TopVideos:                []VideoSummary{},
		EstimatedMonthlySearches: "<1K",
		CompetitionLevel:         "Unknown",
	}
}

// percent2 is part/whole*100 rounded to two decimals, 0 when whole is 0.
func percent2(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

// EstimateSearches maps average views per video to a monthly search band.
func EstimateSearches(avgViews int64) string {
	switch {
	case avgViews >= 1_000_000:
		return "1M+"
	case avgViews >= 500_000:
		return "500K-1M"
	case avgViews >= 100_000:
		return "100K-500K"
	case avgViews >= 50_000:
		return "50K-100K"
	case avgViews >= 10_000:
		return "10K-50K"
	case avgViews >= 5_000:
		return "5K-10K"
	case avgViews >= 1_000:
		return "1K-5K"
	default:
		return "<1K"
	}
}

// Competition rates how crowded a keyword is from the number of matching
// videos and their average views.
func Competition(videoCount, avgViews int64) string {
	switch {
	case videoCount > 10_000 && avgViews > 100_000:
		return "Very High"
	case videoCount > 5_000 && avgViews > 50_000:
		return "High"
	case videoCount > 1_000 && avgViews > 10_000:
		return "Medium"
	case videoCount > 500:
		return "Low"
	default:
		return "Very Low"
	}
}

// TrendingTopics returns the most popular chart for region.
func (y *youTubeClient) TrendingTopics(ctx context.Context, region string, maxResults int) ([]TrendingVideo, error) {
	if region == "" {
		region = "US"
	}
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 20
	}

	resp, err := upstream.GetJSON[ytVideosResponse](ctx, y.client, "videos", url.Values{
		"part":       {"snippet,statistics"},
		"chart":      {"mostPopular"},
		"regionCode": {region},
		"maxResults": {strconv.Itoa(maxResults)},
		"key":        {y.apiKey},
	})
	if err != nil {
		return nil, fmt.Errorf("youtube trending: %w", err)
	}

	out := make([]TrendingVideo, 0, len(resp.Items))
	for _, v := range resp.Items {
		out = append(out, TrendingVideo{
			VideoID:   v.ID,
			Title:     v.Snippet.Title,
			Channel:   v.Snippet.ChannelTitle,
			Category:  v.Snippet.CategoryID,
			Views:     int64(v.Statistics.ViewCount),
			Likes:     int64(v.Statistics.LikeCount),
			Thumbnail: v.Snippet.Thumbnails.Medium.URL,
		})
	}
	return out, nil
}

type unavailableYouTube struct {
	upstream.Unavailable
}

func (y unavailableYouTube) KeywordStats(context.Context, string, int) (*VideoStats, error) {
	return nil, y.Err()
}

func (y unavailableYouTube) TrendingTopics(context.Context, string, int) ([]TrendingVideo, error) {
	return nil, y.Err()
}
