// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL accepts a base URL: http(s) scheme, a host, no path beyond
// "/" and no query string.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := parseHTTP(rawURL, fieldName)
	if err != nil {
		return err
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, u.Path)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, u.RawQuery)
	}
	return nil
}

// validateEndpointURL accepts an API endpoint, which may carry a path such as
// /v1 or /complete/search.
func validateEndpointURL(rawURL, fieldName string) error {
	u, err := parseHTTP(rawURL, fieldName)
	if err != nil {
		return err
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, u.RawQuery)
	}
	return nil
}

func parseHTTP(rawURL, fieldName string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s host is required", fieldName)
	}
	return u, nil
}

// validateNATSURL accepts nats://, tls:// and ws(s):// URLs.
func validateNATSURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("NATS_URL failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("NATS_URL scheme must be nats, tls, ws or wss, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("NATS_URL host is required")
	}
	return nil
}
