// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package models

import "time"

// TrackableLink is a short redirect link.
type TrackableLink struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	ShortCode         string    `json:"short_code"`
	DestinationURL    string    `json:"destination_url"`
	PlatformContentID string    `json:"platform_content_id,omitempty"`
	Clicks            int64     `json:"clicks"`
	UniqueVisitors    int64     `json:"unique_visitors"`
	CreatedAt         time.Time `json:"created_at"`
	FullURL           string    `json:"full_url,omitempty"`
}

// LinkClick is one resolved redirect.
type LinkClick struct {
	ID         string    `json:"id"`
	LinkID     string    `json:"link_id"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	Referer    string    `json:"referer,omitempty"`
	Country    string    `json:"country,omitempty"`
	DeviceType string    `json:"device_type"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	IsUnique   bool      `json:"is_unique"`
	ClickedAt  time.Time `json:"clicked_at"`
}

// LinkAnalytics summarizes a link's recent clicks.
type LinkAnalytics struct {
	Link      TrackableLink    `json:"link"`
	ByCountry map[string]int64 `json:"by_country"`
	ByDevice  map[string]int64 `json:"by_device"`
	ByBrowser map[string]int64 `json:"by_browser"`
	Sampled   int              `json:"sampled"`
	Recent    []LinkClick      `json:"recent_clicks"`
}
