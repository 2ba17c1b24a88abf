// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NetRider88/viralAI/internal/cache"
)

func TestMemoryRevocationStore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewMemoryRevocationStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Revoke(ctx, "a", now.Add(time.Hour))
	_ = s.Revoke(ctx, "expired", now.Add(-time.Second))

	if ok, _ := s.IsRevoked(ctx, "a"); !ok {
		t.Error("a not revoked")
	}
	if ok, _ := s.IsRevoked(ctx, "expired"); ok {
		t.Error("already expired token recorded")
	}
	if ok, _ := s.IsRevoked(ctx, "unknown"); ok {
		t.Error("unknown token reported revoked")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := s.IsRevoked(ctx, "a"); ok {
		t.Error("revocation outlived the token")
	}
	_ = s.Revoke(ctx, "b", now.Add(time.Hour))
	if len(s.entries) != 1 {
		t.Errorf("entries = %d, want expired ones pruned", len(s.entries))
	}
}

func TestBadgerRevocationStore(t *testing.T) {
	t.Parallel()

	store, err := cache.Open("test-revocations", "")
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	s := NewBadgerRevocationStore(store)
	ctx := context.Background()

	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := s.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}

	if ok, err := s.IsRevoked(ctx, "jti-1"); err != nil || !ok {
		t.Errorf("IsRevoked(jti-1) = %v, %v", ok, err)
	}
	if ok, err := s.IsRevoked(ctx, "jti-old"); err != nil || ok {
		t.Errorf("IsRevoked(jti-old) = %v, %v", ok, err)
	}
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Time) error {
	return errors.New("store offline")
}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("store offline")
}

func TestMiddleware_RevokedToken(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t, time.Now())
	token, _, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	other, _, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	handler := NewMiddleware(m, ModeJWT).Authenticate(claimsEcho())

	call := func(tok string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := call(token); got != http.StatusOK {
		t.Fatalf("before logout status = %d", got)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("token has no ID")
	}
	if err := m.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if got := call(token); got != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", got)
	}
	// A second session of the same user is unaffected.
	if got := call(other); got != http.StatusOK {
		t.Errorf("other token status = %d, want 200", got)
	}

	m.UseRevocationStore(failingRevocations{})
	if got := call(other); got != http.StatusServiceUnavailable {
		t.Errorf("status with failing store = %d, want 503", got)
	}
}
