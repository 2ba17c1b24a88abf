// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package models

import "time"

// Content block statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ContentBlock is one generation request and its platform rows.
type ContentBlock struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Keyword     string            `json:"keyword"`
	ContentType string            `json:"content_type"`
	Tone        string            `json:"tone"`
	Angle       string            `json:"angle"`
	Niche       string            `json:"niche,omitempty"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Platforms   []PlatformContent `json:"platforms,omitempty"`

	// Totals sums the platform metrics; filled when platforms are loaded.
	Totals PerformanceMetrics `json:"totals"`
}

// PlatformContent is the persisted result for one platform. Metrics are the
// only fields that change after creation.
type PlatformContent struct {
	ID          string             `json:"id"`
	BlockID     string             `json:"block_id"`
	Platform    string             `json:"platform"`
	Caption     string             `json:"caption"`
	Hashtags    []string           `json:"hashtags"`
	Hook        string             `json:"hook"`
	CTA         string             `json:"cta"`
	Images      []string           `json:"images"`
	VideoScript string             `json:"video_script,omitempty"`
	Metrics     PerformanceMetrics `json:"metrics"`
	CreatedAt   time.Time          `json:"created_at"`
}

// PerformanceMetrics are appended by the user after publishing.
type PerformanceMetrics struct {
	Reach       int64   `json:"reach" validate:"gte=0"`
	Engagement  int64   `json:"engagement" validate:"gte=0"`
	Clicks      int64   `json:"clicks" validate:"gte=0"`
	Conversions int64   `json:"conversions" validate:"gte=0"`
	Revenue     float64 `json:"revenue" validate:"gte=0"`
}

// Add returns the field-wise sum of m and o.
func (m PerformanceMetrics) Add(o PerformanceMetrics) PerformanceMetrics {
	return PerformanceMetrics{
		Reach:       m.Reach + o.Reach,
		Engagement:  m.Engagement + o.Engagement,
		Clicks:      m.Clicks + o.Clicks,
		Conversions: m.Conversions + o.Conversions,
		Revenue:     m.Revenue + o.Revenue,
	}
}

// Image is an entry in a user's image library.
type Image struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Style     string    `json:"style"`
	Size      string    `json:"size"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}
