// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package authz

import (
	"strconv"
	"testing"
	"time"
)

func TestDecisionCache_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecisionCache(time.Minute)
	c.now = func() time.Time { return now }

	c.set("user", "/api/v1/usage", "read", true)
	if allowed, ok := c.get("user", "/api/v1/usage", "read"); !ok || !allowed {
		t.Fatalf("get = %v, %v", allowed, ok)
	}
	if _, ok := c.get("user", "/api/v1/usage", "write"); ok {
		t.Error("different action must miss")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.get("user", "/api/v1/usage", "read"); ok {
		t.Error("expired entry returned")
	}
	if c.len() != 0 {
		t.Errorf("expired entry not dropped, len = %d", c.len())
	}
}

func TestDecisionCache_KeysDoNotCollide(t *testing.T) {
	t.Parallel()

	c := newDecisionCache(time.Minute)
	c.set("a:b", "c", "read", true)
	if _, ok := c.get("a", "b:c", "read"); ok {
		t.Error("distinct keys collided")
	}
}

func TestDecisionCache_Bounded(t *testing.T) {
	t.Parallel()

	c := newDecisionCache(time.Minute)
	for i := range maxCachedDecisions + 5 {
		c.set("user", "/api/v1/content/blocks/"+strconv.Itoa(i), "read", true)
	}
	if got := c.len(); got > maxCachedDecisions {
		t.Errorf("len = %d, want <= %d", got, maxCachedDecisions)
	}
}
