// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
)

// BreakerSettings tunes a Breaker. Zero values take the defaults used for
// third-party APIs: trip at 60% failures over at least 10 requests, stay
// open for one minute, allow 3 probes while half-open.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	OpenTimeout  time.Duration
	HalfOpenMax  uint32
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = time.Minute
	}
	if s.HalfOpenMax == 0 {
		s.HalfOpenMax = 3
	}
	return s
}

// Breaker wraps gobreaker with metrics and the package error taxonomy.
// Client errors (4xx other than 429) and caller cancellation do not count
// as failures: they say nothing about the upstream's health.
type Breaker[T any] struct {
	name string
	cb   *gobreaker.CircuitBreaker[T]
}

// NewBreaker creates a named breaker.
func NewBreaker[T any](name string, s BreakerSettings) *Breaker[T] {
	s = s.withDefaults()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenMax,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
		IsSuccessful: countsAsSuccess,
	})

	return &Breaker[T]{name: name, cb: cb}
}

// Execute runs fn through the breaker. A rejected call returns an error
// wrapping ErrCircuitOpen.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	}
	return result, err
}

// State returns "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}

// Name returns the breaker name.
func (b *Breaker[T]) Name() string {
	return b.name
}

func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrDecode) || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.Temporary()
	}
	return false
}
