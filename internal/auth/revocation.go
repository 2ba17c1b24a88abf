// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NetRider88/viralAI/internal/cache"
)

const revokedKeyPrefix = "revoked-jti:"

// RevocationStore remembers the IDs of signed-out tokens until the tokens
// would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationStore keeps revoked IDs in process. Entries are lost on
// restart; the server uses BadgerRevocationStore.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore creates an empty in-process store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke records jti until the given time and drops entries that expired.
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, id)
		}
	}
	if now.Before(until) {
		s.entries[jti] = until
	}
	return nil
}

// IsRevoked reports whether jti was revoked and has not yet expired.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.entries[jti]
	return ok && s.now().Before(until), nil
}

// BadgerRevocationStore keeps revoked IDs in the Badger cache with a TTL
// equal to the token's remaining lifetime, so revocations survive restarts.
type BadgerRevocationStore struct {
	store *cache.Store
}

// NewBadgerRevocationStore stores revocations in store under their own key
// prefix.
func NewBadgerRevocationStore(store *cache.Store) *BadgerRevocationStore {
	return &BadgerRevocationStore{store: store}
}

// Revoke records jti until the given time. Already expired tokens are not
// stored.
func (s *BadgerRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.store.Set(revokedKeyPrefix+jti, until, ttl)
}

// IsRevoked reports whether jti is recorded.
func (s *BadgerRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	var until time.Time
	err := s.store.Get(revokedKeyPrefix+jti, &until)
	if errors.Is(err, cache.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
