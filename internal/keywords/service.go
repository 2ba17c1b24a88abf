// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/NetRider88/viralAI/internal/cache"
	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// ResearchStore persists research records.
type ResearchStore interface {
	SaveKeywordResearch(ctx context.Context, r *models.KeywordResearch) error
	ListKeywordResearch(ctx context.Context, userID string, limit int) ([]models.KeywordResearch, error)
}

// BundleCache is a TTL key-value cache.
type BundleCache interface {
	Get(key string, dst any) error
	Set(key string, value any, ttl time.Duration) error
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// ServiceDeps wires a Service.
type ServiceDeps struct {
	Researcher *Researcher
	YouTube    YouTube
	Store      ResearchStore
	Cache      BundleCache
	Events     Publisher
	CacheTTL   time.Duration
}

// RunResult is a research run, fresh or from cache.
type RunResult struct {
	ResearchID string          `json:"id"`
	Cached     bool            `json:"cached"`
	CreatedAt  time.Time       `json:"created_at"`
	Bundle     *ResearchBundle `json:"data"`
}

// Service runs, caches and persists keyword research.
type Service struct {
	researcher *Researcher
	youtube    YouTube
	store      ResearchStore
	cache      BundleCache
	events     Publisher
	ttl        time.Duration
	now        func() time.Time
}

// NewService creates a Service. A zero CacheTTL means 24h.
func NewService(deps ServiceDeps) *Service {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	yt := deps.YouTube
	if yt == nil {
		yt = unavailableYouTube{upstream.NewUnavailable("youtube", "YOUTUBE_API_KEY")}
	}
	return &Service{
		researcher: deps.Researcher,
		youtube:    yt,
		store:      deps.Store,
		cache:      deps.Cache,
		events:     deps.Events,
		ttl:        ttl,
		now:        time.Now,
	}
}

// NormalizeQuery trims the keyword and fills the default country and
// language.
func NormalizeQuery(q KeywordQuery) KeywordQuery {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Country = strings.ToUpper(strings.TrimSpace(q.Country))
	q.Language = strings.ToLower(strings.TrimSpace(q.Language))
	if q.Country == "" {
		q.Country = "US"
	}
	if q.Language == "" {
		q.Language = "en"
	}
	return q
}

// Run returns the user's research for q from the last 24h if cached;
// otherwise it researches, persists, caches and publishes
// research.completed. Only fresh runs publish, so a cache hit is not
// counted as an API call.
func (s *Service) Run(ctx context.Context, userID string, q KeywordQuery, includeYouTube bool) (*RunResult, error) {
	q = NormalizeQuery(q)
	if q.Keyword == "" {
		return nil, errors.New("keyword is required")
	}
	log := logging.Ctx(ctx).With().Str("keyword", q.Keyword).Logger()
	key := researchCacheKey(userID, q)

	var cached RunResult
	switch err := s.cache.Get(key, &cached); {
	case err == nil && cached.Bundle != nil:
		log.Debug().Str("research_id", cached.ResearchID).Msg("returning cached keyword research")
		if includeYouTube && cached.Bundle.YouTube == nil {
			if cached.Bundle.YouTube = s.videoStats(ctx, q); cached.Bundle.YouTube != nil {
				if err := s.cache.Set(key, &cached, s.ttl); err != nil {
					log.Warn().Err(err).Msg("research cache write failed")
				}
			}
		}
		cached.Cached = true
		return &cached, nil
	case err != nil && !errors.Is(err, cache.ErrNotFound):
		log.Warn().Err(err).Msg("research cache read failed")
	}

	bundle, err := s.researcher.Research(ctx, q)
	if err != nil {
		return nil, err
	}

	if includeYouTube {
		bundle.YouTube = s.videoStats(ctx, q)
	}

	encoded, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encode research bundle: %w", err)
	}

	record := &models.KeywordResearch{
		ID:               uuid.NewString(),
		UserID:           userID,
		Keyword:          q.Keyword,
		Country:          q.Country,
		Language:         q.Language,
		TotalSuggestions: bundle.Summary.TotalSuggestions,
		Results:          encoded,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.SaveKeywordResearch(ctx, record); err != nil {
		return nil, fmt.Errorf("save keyword research: %w", err)
	}

	result := &RunResult{ResearchID: record.ID, CreatedAt: record.CreatedAt, Bundle: bundle}
	if err := s.cache.Set(key, result, s.ttl); err != nil {
		log.Warn().Err(err).Msg("research cache write failed")
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.TopicResearchCompleted, events.ResearchCompleted{
			UserID:           userID,
			ResearchID:       record.ID,
			Keyword:          q.Keyword,
			TotalSuggestions: bundle.Summary.TotalSuggestions,
			FailedQueries:    bundle.Summary.FailedQueries,
		}); err != nil {
			log.Error().Err(err).Msg("failed to publish research.completed")
		}
	}

	return result, nil
}

// History lists the user's persisted research, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]models.KeywordResearch, error) {
	return s.store.ListKeywordResearch(ctx, userID, limit)
}

// videoStats returns the keyword's video statistics, or nil when the
// client is unavailable or the lookup fails.
func (s *Service) videoStats(ctx context.Context, q KeywordQuery) *VideoStats {
	if !s.youtube.Available() {
		return nil
	}
	stats, err := s.youtube.KeywordStats(ctx, q.Keyword, 50)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("keyword", q.Keyword).Msg("youtube statistics unavailable for research")
		return nil
	}
	return stats
}

// YouTube exposes the video statistics client.
func (s *Service) YouTube() YouTube { return s.youtube }

func researchCacheKey(userID string, q KeywordQuery) string {
	return "research:" + userID + ":" + strings.ToLower(q.Keyword) + ":" + q.Country + ":" + q.Language
}
