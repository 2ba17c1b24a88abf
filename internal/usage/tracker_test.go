// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package usage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/models"
)

// memStore is an in-memory Store keyed by user and month.
type memStore struct {
	mu      sync.Mutex
	buckets map[string]*models.UsageBucket
	failErr error
}

func newMemStore() *memStore {
	return &memStore{buckets: make(map[string]*models.UsageBucket)}
}

func (m *memStore) key(userID string, month time.Time) string {
	return userID + "|" + month.Format("2006-01")
}

func (m *memStore) IncrementUsage(_ context.Context, userID string, month time.Time, kind models.UsageKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	b, ok := m.buckets[m.key(userID, month)]
	if !ok {
		b = &models.UsageBucket{UserID: userID, Month: month}
		m.buckets[m.key(userID, month)] = b
	}
	switch kind {
	case models.UsageContentBlock:
		b.ContentBlocksCreated++
	case models.UsageAPICall:
		b.APICalls++
	case models.UsageImageGeneration:
		b.ImageGenerations++
	case models.UsageVideoGeneration:
		b.VideoGenerations++
	}
	return nil
}

func (m *memStore) GetUsage(_ context.Context, userID string, month time.Time) (*models.UsageBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buckets[m.key(userID, month)]; ok {
		cp := *b
		return &cp, nil
	}
	return &models.UsageBucket{UserID: userID, Month: month}, nil
}

func (m *memStore) UsageHistory(_ context.Context, userID string, months int) ([]models.UsageBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UsageBucket
	for _, b := range m.buckets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.After(out[j].Month) })
	if len(out) > months {
		out = out[:months]
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func testUsageConfig(enforce bool) config.UsageConfig {
	return config.UsageConfig{
		EnforceQuotas: enforce,
		Tiers: map[string]config.TierLimit{
			"free":   {ContentBlocks: 2, APICalls: 3, ImageGenerations: 1, VideoGenerations: 0},
			"pro":    {ContentBlocks: 5, APICalls: config.Unlimited, ImageGenerations: 5, VideoGenerations: 1},
			"agency": {ContentBlocks: config.Unlimited, APICalls: config.Unlimited, ImageGenerations: config.Unlimited, VideoGenerations: config.Unlimited},
		},
	}
}

func TestRecordEvent_BucketsByMonth(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tr := NewTracker(store, testUsageConfig(false))
	ctx := context.Background()

	tr.now = fixedClock(time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC))
	for i := 0; i < 2; i++ {
		if err := tr.RecordEvent(ctx, "u1", models.UsageContentBlock); err != nil {
			t.Fatalf("RecordEvent() error = %v", err)
		}
	}
	tr.now = fixedClock(time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC))
	if err := tr.RecordEvent(ctx, "u1", models.UsageContentBlock); err != nil {
		t.Fatal(err)
	}

	april, err := tr.Current(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if april.ContentBlocksCreated != 1 {
		t.Errorf("April content blocks = %d, want 1", april.ContentBlocksCreated)
	}
	if !april.Month.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Month = %v, want 2026-04-01", april.Month)
	}

	history, err := tr.History(ctx, "u1", 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[1].ContentBlocksCreated != 2 {
		t.Errorf("history = %+v", history)
	}
}

func TestRecordEvent_Validation(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tr := NewTracker(store, testUsageConfig(false))

	if err := tr.RecordEvent(context.Background(), "u", models.UsageKind("tweets")); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind error = %v", err)
	}
	if err := tr.RecordEvent(context.Background(), "", models.UsageAPICall); err == nil {
		t.Error("empty user accepted")
	}

	store.failErr = errors.New("conflict")
	if err := tr.RecordEvent(context.Background(), "u", models.UsageAPICall); err == nil {
		t.Error("store failure not returned")
	}
}

func TestAllow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		enforce bool
		tier    string
		kind    models.UsageKind
		record  int
		wantErr bool
	}{
		{"under limit", true, "free", models.UsageContentBlock, 1, false},
		{"at limit", true, "free", models.UsageContentBlock, 2, true},
		{"image limit", true, "free", models.UsageImageGeneration, 1, true},
		{"zero allows nothing", true, "free", models.UsageVideoGeneration, 0, true},
		{"negative is unlimited", true, "pro", models.UsageAPICall, 50, false},
		{"agency unlimited", true, "agency", models.UsageContentBlock, 10, false},
		{"unknown tier falls back to free", true, "enterprise", models.UsageAPICall, 3, true},
		{"enforcement off", false, "free", models.UsageContentBlock, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := NewTracker(newMemStore(), testUsageConfig(tt.enforce))
			ctx := context.Background()
			for i := 0; i < tt.record; i++ {
				if err := tr.RecordEvent(ctx, "u", tt.kind); err != nil {
					t.Fatal(err)
				}
			}

			err := tr.Allow(ctx, "u", tt.tier, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Allow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var qe *QuotaError
			if !errors.As(err, &qe) || !errors.Is(err, ErrQuotaExceeded) {
				t.Fatalf("error = %v, want *QuotaError", err)
			}
			if qe.Used != int64(tt.record) || qe.Kind != tt.kind {
				t.Errorf("QuotaError = %+v", qe)
			}
		})
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	tr := NewTracker(newMemStore(), testUsageConfig(true))
	ctx := context.Background()
	_ = tr.RecordEvent(ctx, "u", models.UsageAPICall)

	r, err := tr.Report(ctx, "u", "free")
	if err != nil {
		t.Fatal(err)
	}
	if r.Usage.APICalls != 1 || r.Limits.APICalls != 3 || !r.Enforced || r.Tier != "free" {
		t.Errorf("Report() = %+v", r)
	}
}

// TestRecordEvent_DuckDBConcurrent runs the tracker against the real store
// to check that concurrent increments on one bucket are not lost.
func TestRecordEvent_DuckDBConcurrent(t *testing.T) {
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	tr := NewTracker(db, testUsageConfig(false))
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tr.RecordEvent(ctx, "u-concurrent", models.UsageImageGeneration); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("RecordEvent() error = %v", err)
	}

	bucket, err := tr.Current(ctx, "u-concurrent")
	if err != nil {
		t.Fatal(err)
	}
	if bucket.ImageGenerations != workers {
		t.Errorf("ImageGenerations = %d, want %d", bucket.ImageGenerations, workers)
	}
}
