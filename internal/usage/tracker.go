// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package usage counts per-user monthly activity and enforces tier quotas.
//
// Counters live in one bucket per (user, calendar month UTC). Increments are
// atomic upserts in the store, so concurrent events never lose updates.
// Events normally arrive through the event bus (see Subscribe); RecordEvent
// may also be called directly.
package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

var (
	// ErrUnknownKind is returned for a usage kind with no counter.
	ErrUnknownKind = errors.New("unknown usage kind")

	// ErrQuotaExceeded is wrapped by *QuotaError.
	ErrQuotaExceeded = errors.New("monthly quota exceeded")
)

// QuotaError reports which quota blocked a request.
type QuotaError struct {
	Tier  string
	Kind  models.UsageKind
	Limit int
	Used  int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %s tier allows %d %s per month, %d used", ErrQuotaExceeded, e.Tier, e.Limit, e.Kind, e.Used)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// Store is the bucket persistence the tracker needs.
type Store interface {
	IncrementUsage(ctx context.Context, userID string, month time.Time, kind models.UsageKind) error
	GetUsage(ctx context.Context, userID string, month time.Time) (*models.UsageBucket, error)
	UsageHistory(ctx context.Context, userID string, months int) ([]models.UsageBucket, error)
}

// Tracker records usage events and answers quota checks.
type Tracker struct {
	store Store
	cfg   config.UsageConfig
	now   func() time.Time
}

// NewTracker creates a Tracker.
func NewTracker(store Store, cfg config.UsageConfig) *Tracker {
	return &Tracker{store: store, cfg: cfg, now: time.Now}
}

// RecordEvent adds one to the user's counter for kind in the current month.
// It is not idempotent.
func (t *Tracker) RecordEvent(ctx context.Context, userID string, kind models.UsageKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if userID == "" {
		return errors.New("usage: user id is required")
	}

	month := models.MonthStart(t.now())
	if err := t.store.IncrementUsage(ctx, userID, month, kind); err != nil {
		return fmt.Errorf("record %s usage: %w", kind, err)
	}
	metrics.UsageIncrements.WithLabelValues(string(kind)).Inc()

	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("month", month.Format("2006-01")).
		Msg("usage recorded")
	return nil
}

// Current returns the user's bucket for this month, zeroed if none exists.
func (t *Tracker) Current(ctx context.Context, userID string) (*models.UsageBucket, error) {
	return t.store.GetUsage(ctx, userID, models.MonthStart(t.now()))
}

// History returns up to months buckets, newest first.
func (t *Tracker) History(ctx context.Context, userID string, months int) ([]models.UsageBucket, error) {
	return t.store.UsageHistory(ctx, userID, months)
}

// Allow returns a *QuotaError when the user's tier has used up its monthly
// limit for kind. Quotas are only checked when enforcement is enabled. A
// negative limit is unlimited and a zero limit refuses every request.
func (t *Tracker) Allow(ctx context.Context, userID, tier string, kind models.UsageKind) error {
	if !t.cfg.EnforceQuotas {
		return nil
	}
	limit := limitFor(t.cfg.Limit(tier), kind)
	if limit < 0 {
		return nil
	}

	bucket, err := t.Current(ctx, userID)
	if err != nil {
		return fmt.Errorf("check %s quota: %w", kind, err)
	}
	used := bucket.Count(kind)
	if used < int64(limit) {
		return nil
	}

	metrics.QuotaDenials.WithLabelValues(tier, string(kind)).Inc()
	return &QuotaError{Tier: tier, Kind: kind, Limit: limit, Used: used}
}

// Report is the current month's usage next to the tier's limits.
type Report struct {
	Month    time.Time          `json:"month"`
	Tier     string             `json:"tier"`
	Usage    models.UsageBucket `json:"usage"`
	Limits   config.TierLimit   `json:"limits"`
	Enforced bool               `json:"enforced"`
}

// Report builds the usage summary shown to the user.
func (t *Tracker) Report(ctx context.Context, userID, tier string) (*Report, error) {
	bucket, err := t.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Report{
		Month:    bucket.Month,
		Tier:     tier,
		Usage:    *bucket,
		Limits:   t.cfg.Limit(tier),
		Enforced: t.cfg.EnforceQuotas,
	}, nil
}

func limitFor(l config.TierLimit, kind models.UsageKind) int {
	switch kind {
	case models.UsageContentBlock:
		return l.ContentBlocks
	case models.UsageAPICall:
		return l.APICalls
	case models.UsageImageGeneration:
		return l.ImageGenerations
	case models.UsageVideoGeneration:
		return l.VideoGenerations
	}
	return config.Unlimited
}
