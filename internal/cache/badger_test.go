// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type bundle struct {
	Keyword string   `json:"keyword"`
	Related []string `json:"related"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("test", "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	in := bundle{Keyword: "coffee", Related: []string{"best coffee", "coffee near me"}}
	if err := s.Set("research:u1:coffee:US:en", in, time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var out bundle
	if err := s.Get("research:u1:coffee:US:en", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if out.Keyword != in.Keyword || len(out.Related) != 2 {
		t.Errorf("Get() = %+v, want %+v", out, in)
	}

	if err := s.Get("research:u2:coffee:US:en", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if err := s.Set("short", bundle{Keyword: "x"}, time.Second); err != nil {
		t.Fatal(err)
	}
	// Badger TTL has one-second resolution.
	time.Sleep(2100 * time.Millisecond)

	var out bundle
	if err := s.Get("short", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	for _, k := range []string{"research:u1:a", "research:u1:b", "research:u2:a"} {
		if err := s.Set(k, bundle{Keyword: k}, 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.DeletePrefix("research:u1:")
	if err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", n)
	}
	var out bundle
	if err := s.Get("research:u2:a", &out); err != nil {
		t.Errorf("other user's entry was removed: %v", err)
	}
	if err := s.Delete("research:u1:a"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestStore_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
