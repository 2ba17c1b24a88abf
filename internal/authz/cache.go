// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package authz

import (
	"sync"
	"time"
)

// maxCachedDecisions bounds the cache. Object keys are request paths, and
// paths with IDs would otherwise grow it without limit.
const maxCachedDecisions = 10_000

// decisionCache remembers Enforce results for a TTL. Expired entries are
// dropped on read; the whole map is reset when it reaches the bound.
type decisionCache struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]cachedDecision
}

type cachedDecision struct {
	allowed   bool
	expiresAt time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	return &decisionCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cachedDecision),
	}
}

func decisionKey(role, object, action string) string {
	return role + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(role, object, action string) (allowed, ok bool) {
	key := decisionKey(role, object, action)

	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()
	if !found {
		return false, false
	}
	if c.now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return false, false
	}
	return item.allowed, true
}

func (c *decisionCache) set(role, object, action string, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= maxCachedDecisions {
		c.items = make(map[string]cachedDecision)
	}
	c.items[decisionKey(role, object, action)] = cachedDecision{
		allowed:   allowed,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *decisionCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
