// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/NetRider88/viralAI/internal/keywords"
	"github.com/NetRider88/viralAI/internal/models"
)

const (
	defaultGeo       = "US"
	defaultTimeframe = "today 12-m"
)

// SuggestionsResponse is the autocomplete passthrough.
type SuggestionsResponse struct {
	Query            string                           `json:"query"`
	Country          string                           `json:"country"`
	Language         string                           `json:"language"`
	Suggestions      []keywords.SuggestionResult      `json:"suggestions"`
	PlatformAffinity []keywords.PlatformAffinityScore `json:"platform_affinity"`
}

// KeywordSuggestions returns scored autocomplete suggestions. Upstream
// failures degrade to an empty list.
func (h *Handler) KeywordSuggestions(w http.ResponseWriter, r *http.Request) {
	q := suggestionsQuery{
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Country:  r.URL.Query().Get("country"),
		Language: r.URL.Query().Get("language"),
	}
	if !validateQuery(w, r, &q) {
		return
	}
	norm := keywords.NormalizeQuery(keywords.KeywordQuery{Keyword: q.Query, Country: q.Country, Language: q.Language})

	results := h.aggregator.FetchSuggestions(r.Context(), norm.Keyword, norm.Country, norm.Language)
	if results == nil {
		results = []keywords.SuggestionResult{}
	}
	texts := make([]string, len(results))
	for i, s := range results {
		texts[i] = s.Keyword
	}

	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, SuggestionsResponse{
		Query:            norm.Keyword,
		Country:          norm.Country,
		Language:         norm.Language,
		Suggestions:      results,
		PlatformAffinity: keywords.PlatformAffinity(texts),
	}, models.Meta{Total: len(results)})
}

// KeywordResearch runs (or replays from cache) a full research fan-out.
// Each fresh run is billed as one API call.
func (h *Handler) KeywordResearch(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req researchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.usage.Allow(r.Context(), claims.UserID(), claims.Tier, models.UsageAPICall); err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.keywords.Run(r.Context(), claims.UserID(), keywords.KeywordQuery{
		Keyword:  req.Keyword,
		Country:  req.Country,
		Language: req.Language,
	}, req.IncludeYouTube)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, result, models.Meta{Cached: result.Cached})
}

// KeywordHistory lists the caller's past research.
func (h *Handler) KeywordHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 20, 1, 100)
	history, err := h.keywords.History(r.Context(), claims.UserID(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if history == nil {
		history = []models.KeywordResearch{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, history, models.Meta{Total: len(history)})
}

// Trending returns the trending searches for a region.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	geo := strings.ToUpper(queryString(r, "geo", defaultGeo))
	result, err := h.trends.Trending(r.Context(), geo)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// InterestOverTime returns the search interest timeline for a keyword.
func (h *Handler) InterestOverTime(w http.ResponseWriter, r *http.Request) {
	q := keywordQuery{Keyword: queryString(r, "keyword", "")}
	if !validateQuery(w, r, &q) {
		return
	}
	geo := strings.ToUpper(queryString(r, "geo", defaultGeo))
	result, err := h.trends.InterestOverTime(r.Context(), q.Keyword, geo, queryString(r, "timeframe", defaultTimeframe))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// RelatedTopics returns the rising and top topics for a keyword.
func (h *Handler) RelatedTopics(w http.ResponseWriter, r *http.Request) {
	q := keywordQuery{Keyword: queryString(r, "keyword", "")}
	if !validateQuery(w, r, &q) {
		return
	}
	geo := strings.ToUpper(queryString(r, "geo", defaultGeo))
	result, err := h.trends.RelatedTopics(r.Context(), q.Keyword, geo)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// ListNiches returns the static niche table. It needs no upstream.
func (h *Handler) ListNiches(w http.ResponseWriter, r *http.Request) {
	niches := keywords.Niches()
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, niches, models.Meta{Total: len(niches)})
}

// NicheKeywords returns trending keywords for one niche.
func (h *Handler) NicheKeywords(w http.ResponseWriter, r *http.Request) {
	niche := strings.ToLower(chi.URLParam(r, "niche"))
	geo := strings.ToUpper(queryString(r, "geo", defaultGeo))
	limit := queryInt(r, "limit", 20, 1, 50)

	result, err := h.trends.NicheKeywords(r.Context(), niche, geo, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// YouTubeStats returns video statistics for a keyword.
func (h *Handler) YouTubeStats(w http.ResponseWriter, r *http.Request) {
	q := keywordQuery{Keyword: queryString(r, "keyword", "")}
	if !validateQuery(w, r, &q) {
		return
	}
	maxResults := queryInt(r, "max_results", 50, 1, 50)
	stats, err := h.keywords.YouTube().KeywordStats(r.Context(), q.Keyword, maxResults)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(stats)
}

// YouTubeTrending returns the most popular videos for a region.
func (h *Handler) YouTubeTrending(w http.ResponseWriter, r *http.Request) {
	region := strings.ToUpper(queryString(r, "region", defaultGeo))
	maxResults := queryInt(r, "max_results", 10, 1, 50)
	videos, err := h.keywords.YouTube().TrendingTopics(r.Context(), region, maxResults)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if videos == nil {
		videos = []keywords.TrendingVideo{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, videos, models.Meta{Total: len(videos)})
}
