// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package links

import (
	"net"
	"net/http"
	"strings"
)

// ClickInfo is what a redirect request tells us about the visitor.
type ClickInfo struct {
	IP        string
	UserAgent string
	Referer   string
	Country   string
}

// ClickInfoFromRequest extracts ClickInfo. Country comes from the
// CF-IPCountry header when a CDN sets it.
func ClickInfoFromRequest(r *http.Request) ClickInfo {
	return ClickInfo{
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
		Country:   strings.TrimSpace(r.Header.Get("CF-IPCountry")),
	}
}

// ClientIP is the first X-Forwarded-For entry, else the host part of
// RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Agent is the parsed device, browser and OS of a user agent.
type Agent struct {
	Device  string
	Browser string
	OS      string
}

// ParseUserAgent classifies ua by case-insensitive substring. Checks run in
// a fixed order and the first match wins, so a Chrome-based Edge reports
// chrome.
func ParseUserAgent(ua string) Agent {
	ua = strings.ToLower(ua)
	return Agent{
		Device:  firstMatch(ua, deviceRules, "desktop"),
		Browser: firstMatch(ua, browserRules, "Other"),
		OS:      firstMatch(ua, osRules, "Other"),
	}
}

type uaRule struct {
	needles []string
	label   string
}

var (
	deviceRules = []uaRule{
		{[]string{"mobile", "android", "iphone"}, "mobile"},
		{[]string{"tablet", "ipad"}, "tablet"},
	}
	browserRules = []uaRule{
		{[]string{"chrome"}, "Chrome"},
		{[]string{"firefox"}, "Firefox"},
		{[]string{"safari"}, "Safari"},
		{[]string{"edge"}, "Edge"},
		{[]string{"opera"}, "Opera"},
	}
	osRules = []uaRule{
		{[]string{"windows"}, "Windows"},
		{[]string{"mac"}, "macOS"},
		{[]string{"linux"}, "Linux"},
		{[]string{"android"}, "Android"},
		{[]string{"ios", "iphone", "ipad"}, "iOS"},
	}
)

func firstMatch(ua string, rules []uaRule, fallback string) string {
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(ua, n) {
				return r.label
			}
		}
	}
	return fallback
}
