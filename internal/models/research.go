// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package models

import (
	"encoding/json"
	"time"
)

// KeywordResearch is a persisted research run. Results holds the encoded
// bundle so the record stays readable when the bundle shape grows.
type KeywordResearch struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Keyword          string          `json:"keyword"`
	Country          string          `json:"country"`
	Language         string          `json:"language"`
	TotalSuggestions int             `json:"total_suggestions"`
	Results          json.RawMessage `json:"results"`
	CreatedAt        time.Time       `json:"created_at"`
}
