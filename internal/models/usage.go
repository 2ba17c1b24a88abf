// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package models

import "time"

// UsageKind names one monthly usage counter.
type UsageKind string

const (
	UsageContentBlock    UsageKind = "content_block"
	UsageAPICall         UsageKind = "api_call"
	UsageImageGeneration UsageKind = "image_generation"
	UsageVideoGeneration UsageKind = "video_generation"
)

// Valid reports whether k is a known counter.
func (k UsageKind) Valid() bool {
	switch k {
	case UsageContentBlock, UsageAPICall, UsageImageGeneration, UsageVideoGeneration:
		return true
	}
	return false
}

// UsageBucket holds one user's counters for one calendar month. Month is the
// first day of the month at 00:00 UTC.
type UsageBucket struct {
	UserID               string    `json:"user_id"`
	Month                time.Time `json:"month"`
	ContentBlocksCreated int64     `json:"content_blocks_created"`
	APICalls             int64     `json:"api_calls"`
	ImageGenerations     int64     `json:"image_generations"`
	VideoGenerations     int64     `json:"video_generations"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Count returns the counter for k.
func (b UsageBucket) Count(k UsageKind) int64 {
	switch k {
	case UsageContentBlock:
		return b.ContentBlocksCreated
	case UsageAPICall:
		return b.APICalls
	case UsageImageGeneration:
		return b.ImageGenerations
	case UsageVideoGeneration:
		return b.VideoGenerations
	}
	return 0
}

// MonthStart truncates t to the first instant of its UTC calendar month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
