// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NetRider88/viralAI/internal/cache"
	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/models"
)

type fakeResearchStore struct {
	mu      sync.Mutex
	saved   []models.KeywordResearch
	saveErr error
}

func (f *fakeResearchStore) SaveKeywordResearch(_ context.Context, r *models.KeywordResearch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *r)
	return nil
}

func (f *fakeResearchStore) ListKeywordResearch(_ context.Context, userID string, limit int) ([]models.KeywordResearch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.KeywordResearch
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].UserID == userID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

type publishedEvent struct {
	topic   string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(_ context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{topic, payload})
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeYouTube struct {
	stats *VideoStats
	err   error
}

func (f fakeYouTube) Available() bool { return true }

func (f fakeYouTube) KeywordStats(context.Context, string, int) (*VideoStats, error) {
	return f.stats, f.err
}

func (f fakeYouTube) TrendingTopics(context.Context, string, int) ([]TrendingVideo, error) {
	return nil, f.err
}

type serviceFixture struct {
	svc   *Service
	store *fakeResearchStore
	pub   *fakePublisher
	calls *atomic.Int32
}

func newServiceFixture(t *testing.T, yt YouTube) serviceFixture {
	t.Helper()

	bundles, err := cache.Open("test-research", "")
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = bundles.Close() })

	var calls atomic.Int32
	s := suggesterFunc(func(_ context.Context, q KeywordQuery) Outcome {
		calls.Add(1)
		if q.Keyword == "coffee how" {
			return success("coffee how to brew")
		}
		return Outcome{Status: StatusEmpty}
	})

	store := &fakeResearchStore{}
	pub := &fakePublisher{}
	svc := NewService(ServiceDeps{
		Researcher: NewResearcher(s, config.ResearchConfig{Concurrency: 8, Deadline: 5 * time.Second}),
		YouTube:    yt,
		Store:      store,
		Cache:      bundles,
		Events:     pub,
	})
	return serviceFixture{svc: svc, store: store, pub: pub, calls: &calls}
}

func TestService_RunCachesPerUser(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Run(ctx, "user-1", KeywordQuery{Keyword: "  coffee "}, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.Cached {
		t.Error("first run reported cached")
	}
	if first.Bundle.Country != "US" || first.Bundle.Language != "en" {
		t.Errorf("locale = %s/%s, want US/en", first.Bundle.Country, first.Bundle.Language)
	}
	if first.Bundle.Summary.TotalSuggestions != 1 {
		t.Errorf("TotalSuggestions = %d, want 1", first.Bundle.Summary.TotalSuggestions)
	}
	if len(f.store.saved) != 1 || f.store.saved[0].TotalSuggestions != 1 {
		t.Fatalf("saved = %+v", f.store.saved)
	}

	if f.pub.count() != 1 {
		t.Fatalf("published %d events, want 1", f.pub.count())
	}
	ev := f.pub.events[0]
	payload, ok := ev.payload.(events.ResearchCompleted)
	if ev.topic != events.TopicResearchCompleted || !ok {
		t.Fatalf("event = %s %T", ev.topic, ev.payload)
	}
	if payload.UserID != "user-1" || payload.ResearchID != first.ResearchID {
		t.Errorf("payload = %+v", payload)
	}

	callsAfterFirst := f.calls.Load()
	second, err := f.svc.Run(ctx, "user-1", KeywordQuery{Keyword: "Coffee", Country: "us", Language: "EN"}, false)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.Cached || second.ResearchID != first.ResearchID {
		t.Errorf("second run = cached %v id %s, want cached %s", second.Cached, second.ResearchID, first.ResearchID)
	}
	if f.calls.Load() != callsAfterFirst {
		t.Error("cache hit still queried the suggester")
	}
	if f.pub.count() != 1 || len(f.store.saved) != 1 {
		t.Errorf("cache hit published or persisted again: events=%d saved=%d", f.pub.count(), len(f.store.saved))
	}

	other, err := f.svc.Run(ctx, "user-2", KeywordQuery{Keyword: "coffee"}, false)
	if err != nil {
		t.Fatalf("other user Run() error = %v", err)
	}
	if other.Cached {
		t.Error("cache leaked across users")
	}

	history, err := f.svc.History(ctx, "user-1", 10)
	if err != nil || len(history) != 1 {
		t.Errorf("History() = %d records, %v", len(history), err)
	}
}

func TestService_RunWithYouTube(t *testing.T) {
	t.Parallel()

	stats := &VideoStats{Keyword: "coffee", Platform: "youtube", VideoCount: 3, TopVideos: []VideoSummary{}}
	f := newServiceFixture(t, fakeYouTube{stats: stats})

	got, err := f.svc.Run(context.Background(), "u", KeywordQuery{Keyword: "coffee"}, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Bundle.YouTube == nil || got.Bundle.YouTube.VideoCount != 3 {
		t.Errorf("YouTube = %+v, want merged stats", got.Bundle.YouTube)
	}
}

func TestService_CachedRunAddsYouTubeWhenRequested(t *testing.T) {
	t.Parallel()

	stats := &VideoStats{Keyword: "coffee", Platform: "youtube", VideoCount: 7, TopVideos: []VideoSummary{}}
	f := newServiceFixture(t, fakeYouTube{stats: stats})
	ctx := context.Background()

	first, err := f.svc.Run(ctx, "u", KeywordQuery{Keyword: "coffee"}, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.Bundle.YouTube != nil {
		t.Fatal("YouTube stats fetched without being requested")
	}

	second, err := f.svc.Run(ctx, "u", KeywordQuery{Keyword: "coffee"}, true)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.Cached || second.ResearchID != first.ResearchID {
		t.Errorf("second run = cached %v id %s, want cached %s", second.Cached, second.ResearchID, first.ResearchID)
	}
	if second.Bundle.YouTube == nil || second.Bundle.YouTube.VideoCount != 7 {
		t.Fatalf("YouTube = %+v, want stats on cache hit", second.Bundle.YouTube)
	}

	third, err := f.svc.Run(ctx, "u", KeywordQuery{Keyword: "coffee"}, false)
	if err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if third.Bundle.YouTube == nil {
		t.Error("refreshed cache entry lost the YouTube stats")
	}
	if f.pub.count() != 1 || len(f.store.saved) != 1 {
		t.Errorf("cache hits published or persisted: events=%d saved=%d", f.pub.count(), len(f.store.saved))
	}
}

func TestService_RunYouTubeFailureDegrades(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, fakeYouTube{err: errors.New("quota exceeded")})
	got, err := f.svc.Run(context.Background(), "u", KeywordQuery{Keyword: "coffee"}, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Bundle.YouTube != nil {
		t.Error("failed YouTube lookup should leave stats empty")
	}
}

func TestService_RunErrors(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, nil)
	if _, err := f.svc.Run(context.Background(), "u", KeywordQuery{Keyword: "   "}, false); err == nil {
		t.Error("blank keyword accepted")
	}

	f.store.saveErr = errors.New("disk full")
	if _, err := f.svc.Run(context.Background(), "u", KeywordQuery{Keyword: "tea"}, false); err == nil {
		t.Error("store failure not returned")
	}
	if f.pub.count() != 0 {
		t.Error("failed run published an event")
	}
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	got := NormalizeQuery(KeywordQuery{Keyword: " cold brew ", Country: " gb", Language: "FR "})
	want := KeywordQuery{Keyword: "cold brew", Country: "GB", Language: "fr"}
	if got != want {
		t.Errorf("NormalizeQuery() = %+v, want %+v", got, want)
	}
	if got := NormalizeQuery(KeywordQuery{Keyword: "x"}); got.Country != "US" || got.Language != "en" {
		t.Errorf("defaults = %+v", got)
	}
}
