// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// Topics.
const (
	TopicContentCreated     = "content.created"
	TopicResearchCompleted  = "research.completed"
	TopicImageGenerated     = "image.generated"
	TopicVideoGenerated     = "video.generated"
	TopicGenerationProgress = "generation.progress"
)

// Metadata keys set on every message.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataRequestID     = "request_id"
	MetadataUserID        = "user_id"
	MetadataTopic         = "topic"
)

// ContentCreated is published once per persisted content block.
type ContentCreated struct {
	UserID          string    `json:"user_id"`
	BlockID         string    `json:"block_id"`
	Keyword         string    `json:"keyword"`
	Platforms       []string  `json:"platforms"`
	FailedPlatforms []string  `json:"failed_platforms,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ResearchCompleted is published for each fresh keyword research run.
// Cached results do not publish.
type ResearchCompleted struct {
	UserID           string `json:"user_id"`
	ResearchID       string `json:"research_id"`
	Keyword          string `json:"keyword"`
	TotalSuggestions int    `json:"total_suggestions"`
	FailedQueries    int    `json:"failed_queries"`
}

// ImageGenerated is published once per generated image.
type ImageGenerated struct {
	UserID   string `json:"user_id"`
	ImageID  string `json:"image_id,omitempty"`
	Platform string `json:"platform,omitempty"`
	Prompt   string `json:"prompt"`
	URL      string `json:"url"`
}

// VideoGenerated is published once per generated video script.
type VideoGenerated struct {
	UserID   string `json:"user_id"`
	Platform string `json:"platform"`
	Keyword  string `json:"keyword"`
}

// Generation progress stages.
const (
	StageStarted   = "started"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// GenerationProgress reports one platform's progress during content
// generation. It is forwarded to the user's WebSocket connections.
type GenerationProgress struct {
	UserID   string `json:"user_id"`
	Keyword  string `json:"keyword"`
	Platform string `json:"platform"`
	Stage    string `json:"stage"`
	Error    string `json:"error,omitempty"`
	Done     int    `json:"done"`
	Total    int    `json:"total"`
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", msg.Metadata.Get(MetadataTopic), err)
	}
	return out, nil
}
