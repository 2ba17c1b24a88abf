// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package authz

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/NetRider88/viralAI/internal/config"
)

func setupEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t, nil)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"user", "/api/v1/keywords/suggestions", "read", true},
		{"user", "/api/v1/keywords/research", "write", true},
		{"user", "/api/v1/content/blocks/abc/metrics", "write", true},
		{"user", "/api/v1/links", "write", true},
		{"user", "/api/v1/links/abc/analytics", "read", true},
		{"user", "/api/v1/usage", "read", true},
		{"user", "/api/v1/usage/history", "read", true},
		{"user", "/api/v1/auth/me", "read", true},
		{"user", "/api/v1/ws", "read", true},
		{"user", "/api/v1/usage", "write", false},
		{"user", "/api/v1/content/blocks/abc", "delete", false},
		{"user", "/api/v1/admin/usage/u1", "read", false},
		{"admin", "/api/v1/admin/usage/u1", "read", true},
		{"admin", "/api/v1/content/generate", "write", true},
		{"admin", "/api/v1/usage", "read", true},
		{"", "/api/v1/usage", "read", true},
		{"", "/api/v1/admin/usage/u1", "read", false},
		{"stranger", "/api/v1/usage", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.object, func(t *testing.T) {
			t.Parallel()
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%q, %q, %q) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforcer_RolesFor(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t, nil)
	roles, err := e.RolesFor("admin")
	if err != nil {
		t.Fatalf("RolesFor() error = %v", err)
	}
	if !slices.Contains(roles, "user") {
		t.Errorf("admin roles = %v, want to include user", roles)
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.csv")
	policy := "p, user, /api/v1/keywords/*, read\n"
	if err := os.WriteFile(policyPath, []byte(policy), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	e := setupEnforcer(t, &EnforcerConfig{PolicyPath: policyPath})

	if ok, _ := e.Enforce("user", "/api/v1/keywords/niches", "read"); !ok {
		t.Error("file policy should allow keyword reads")
	}
	if ok, _ := e.Enforce("user", "/api/v1/content/blocks", "read"); ok {
		t.Error("file policy replaces the embedded one; content should be denied")
	}
}

func TestEnforcer_MissingFilesFallBack(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t, &EnforcerConfig{
		ModelPath:  "/does/not/exist/model.conf",
		PolicyPath: "/does/not/exist/policy.csv",
	})
	if ok, _ := e.Enforce("admin", "/api/v1/admin/usage/x", "read"); !ok {
		t.Error("embedded policy not loaded")
	}
}

func TestEnforcer_CacheServesRepeatDecisions(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t, &EnforcerConfig{DefaultRole: "user", CacheTTL: time.Minute})
	for range 3 {
		if ok, err := e.Enforce("user", "/api/v1/usage", "read"); err != nil || !ok {
			t.Fatalf("Enforce() = %v, %v", ok, err)
		}
	}
	if got := e.cache.len(); got != 1 {
		t.Errorf("cache len = %d, want 1", got)
	}
}

func TestLoadPolicy_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy string
	}{
		{"short p", "p, user, /x"},
		{"short g", "g, admin"},
		{"unknown type", "x, a, b, c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := setupEnforcer(t, &EnforcerConfig{})
			if err := loadPolicy(e.enforcer, tt.policy); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnforcerConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := EnforcerConfigFromSecurity(&config.SecurityConfig{CasbinPolicyPath: "/etc/viralai/policy.csv"})
	if cfg.PolicyPath != "/etc/viralai/policy.csv" || cfg.ReloadInterval != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg := EnforcerConfigFromSecurity(&config.SecurityConfig{}); cfg.ReloadInterval != 0 {
		t.Errorf("reload without a policy file: %v", cfg.ReloadInterval)
	}
}
