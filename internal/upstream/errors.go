// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package upstream

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport means the request never produced an HTTP response:
	// connection refused, DNS, TLS, timeout or cancellation.
	ErrTransport = errors.New("upstream transport failure")

	// ErrConfigurationMissing means a required credential or endpoint was not
	// configured. It is detected when the service is built, not per call.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrFeatureUnavailable is returned by every call on a service that was
	// built without its configuration.
	ErrFeatureUnavailable = errors.New("feature unavailable")

	// ErrCircuitOpen means the circuit breaker rejected the call without
	// contacting the upstream.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrDecode means the upstream answered 2xx with a body we could not parse.
	ErrDecode = errors.New("upstream response decode failed")
)

// StatusError is a non-2xx response from an upstream.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.StatusCode, body)
}

// Temporary reports whether retrying later might succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Classify returns a short, bounded label for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFeatureUnavailable):
		return "unavailable"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrDecode):
		return "decode"
	case StatusCode(err) != 0:
		return "status"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}

// Unavailable is embedded by the stand-in implementations that constructors
// return when a feature's credentials are absent. Its Err method produces
// the error every call returns, without touching the network.
type Unavailable struct {
	Feature string
	Missing []string
}

// NewUnavailable names the feature and the settings that were missing.
func NewUnavailable(feature string, missing ...string) Unavailable {
	return Unavailable{Feature: feature, Missing: missing}
}

// Err returns an error matching both ErrFeatureUnavailable and
// ErrConfigurationMissing.
func (u Unavailable) Err() error {
	if len(u.Missing) == 0 {
		return fmt.Errorf("%s: %w: %w", u.Feature, ErrFeatureUnavailable, ErrConfigurationMissing)
	}
	return fmt.Errorf("%s: %w: %w: %s not set", u.Feature, ErrFeatureUnavailable, ErrConfigurationMissing, strings.Join(u.Missing, ", "))
}

// Available always reports false.
func (u Unavailable) Available() bool { return false }
