// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath overrides the embedded model when the file exists.
	ModelPath string

	// PolicyPath overrides the embedded policy when the file exists.
	PolicyPath string

	// ReloadInterval polls PolicyPath for changes. Zero disables reload.
	ReloadInterval time.Duration

	// DefaultRole is used for subjects whose token carries no role.
	DefaultRole string

	// CacheTTL caches decisions. Zero disables the cache.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns the embedded policy with a 5 minute
// decision cache.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		DefaultRole: models.RoleUser,
		CacheTTL:    5 * time.Minute,
	}
}

// EnforcerConfigFromSecurity builds the enforcer config from the security
// section.
func EnforcerConfigFromSecurity(sec *config.SecurityConfig) *EnforcerConfig {
	cfg := DefaultEnforcerConfig()
	cfg.ModelPath = sec.CasbinModelPath
	cfg.PolicyPath = sec.CasbinPolicyPath
	if cfg.PolicyPath != "" {
		cfg.ReloadInterval = 30 * time.Second
	}
	return cfg
}

// Enforcer decides whether a role may perform an action on a route.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// NewEnforcer loads the model and policy. Paths that do not exist fall back
// to the embedded files.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = DefaultEnforcerConfig()
	}

	var (
		m   model.Model
		err error
	)
	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	fromFile := cfg.PolicyPath != "" && fileExists(cfg.PolicyPath)
	if fromFile {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if fromFile && cfg.ReloadInterval > 0 {
		enforcer.StartAutoLoadPolicy(cfg.ReloadInterval)
	}

	e := &Enforcer{config: cfg, enforcer: enforcer}
	if cfg.CacheTTL > 0 {
		e.cache = newDecisionCache(cfg.CacheTTL)
	}

	logging.Info().
		Bool("policy_file", fromFile).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Authorization policy loaded")
	return e, nil
}

// loadPolicy adds the p and g lines of a CSV policy.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch rule := parts[1:]; parts[0] {
		case "p":
			if len(rule) != 3 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case "g":
			if len(rule) != 2 {
				return fmt.Errorf("malformed role line %q", line)
			}
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("unknown policy type %q", parts[0])
		}
	}
	return nil
}

// Enforce checks if role may perform action on object. An empty role is
// replaced by the default role.
func (e *Enforcer) Enforce(role, object, action string) (bool, error) {
	if role == "" {
		role = e.config.DefaultRole
	}

	start := time.Now()
	if e.cache != nil {
		if allowed, ok := e.cache.get(role, object, action); ok {
			recordDecision(role, action, allowed, true, time.Since(start))
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	if e.cache != nil {
		e.cache.set(role, object, action, allowed)
	}
	recordDecision(role, action, allowed, false, time.Since(start))
	return allowed, nil
}

// RolesFor returns the roles role inherits, itself excluded.
func (e *Enforcer) RolesFor(role string) ([]string, error) {
	return e.enforcer.GetImplicitRolesForUser(role)
}

// Close stops policy reloading.
func (e *Enforcer) Close() {
	e.enforcer.StopAutoLoadPolicy()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
