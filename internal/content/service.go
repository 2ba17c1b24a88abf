// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/events"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/validation"
)

var (
	// ErrBlockNotFound is returned for a block that does not exist or
	// belongs to another user.
	ErrBlockNotFound = errors.New("content block not found")
)

var imageLibraryTags = []string{"ai-generated", "dall-e-3"}

// Store persists content blocks and the image library.
type Store interface {
	CreateContentBlock(ctx context.Context, block *models.ContentBlock) error
	ListContentBlocks(ctx context.Context, userID string, limit, offset int) ([]models.ContentBlock, error)
	GetContentBlock(ctx context.Context, userID, blockID string) (*models.ContentBlock, error)
	AppendMetrics(ctx context.Context, userID, blockID, platform string, m models.PerformanceMetrics) error
	SaveImage(ctx context.Context, img *models.Image) error
	ListImages(ctx context.Context, userID string, limit int) ([]models.Image, error)
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// ServiceDeps wires a Service.
type ServiceDeps struct {
	Generator *Generator
	Images    ImageGenerator
	Humanizer *Humanizer
	Store     Store
	Events    Publisher
}

// Service validates, generates, persists and announces content.
type Service struct {
	generator *Generator
	images    ImageGenerator
	humanizer *Humanizer
	store     Store
	events    Publisher
	now       func() time.Time
}

// NewService creates a Service.
func NewService(deps ServiceDeps) *Service {
	return &Service{
		generator: deps.Generator,
		images:    deps.Images,
		humanizer: deps.Humanizer,
		store:     deps.Store,
		events:    deps.Events,
		now:       time.Now,
	}
}

// GenerateOutput is a persisted block with the per-platform outcome. Block
// is nil when every platform failed.
type GenerateOutput struct {
	Block  *models.ContentBlock `json:"block"`
	Result GenerationResult     `json:"result"`
}

// Generate validates req, generates content for every platform and
// persists the platforms that succeeded as one draft block.
func (s *Service) Generate(ctx context.Context, userID string, req Request) (*GenerateOutput, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	if err := validation.Validate(&req); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	log := logging.Ctx(ctx).With().
		Str("keyword", req.Keyword).
		Strs("platforms", req.Platforms).
		Logger()

	result := s.generator.GenerateWithProgress(ctx, req, s.progressPublisher(ctx, userID, req.Keyword))
	out := &GenerateOutput{Result: result}
	if len(result.Results) == 0 {
		return out, fmt.Errorf("%w: %s", ErrAllPlatformsFailed, failureSummary(result.Failures))
	}

	createdAt := s.now().UTC()
	block := &models.ContentBlock{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Keyword + " - " + req.ContentType,
		Keyword:     req.Keyword,
		ContentType: req.ContentType,
		Tone:        req.Tone,
		Angle:       req.Angle,
		Niche:       req.Niche,
		Status:      models.StatusDraft,
		CreatedAt:   createdAt,
	}
	for _, r := range result.Results {
		block.Platforms = append(block.Platforms, models.PlatformContent{
			ID:          uuid.NewString(),
			Platform:    r.Platform,
			Caption:     r.Caption,
			Hashtags:    r.Hashtags,
			Hook:        r.Hook,
			CTA:         r.CTA,
			Images:      r.Images,
			VideoScript: r.VideoScript,
			CreatedAt:   createdAt,
		})
	}

	if err := s.store.CreateContentBlock(ctx, block); err != nil {
		return out, fmt.Errorf("save content block: %w", err)
	}
	out.Block = block

	log.Info().
		Str("block_id", block.ID).
		Int("succeeded", len(result.Results)).
		Int("failed", len(result.Failures)).
		Msg("content generated")

	s.publishGenerated(ctx, userID, req, block, result)
	return out, nil
}

func (s *Service) publishGenerated(ctx context.Context, userID string, req Request, block *models.ContentBlock, result GenerationResult) {
	created := events.ContentCreated{
		UserID:    userID,
		BlockID:   block.ID,
		Keyword:   req.Keyword,
		CreatedAt: block.CreatedAt,
	}
	for _, r := range result.Results {
		created.Platforms = append(created.Platforms, r.Platform)
	}
	for _, f := range result.Failures {
		created.FailedPlatforms = append(created.FailedPlatforms, f.Platform)
	}
	s.publish(ctx, events.TopicContentCreated, created)

	for _, r := range result.Results {
		for i, url := range r.Images {
			prompt := ""
			if i < len(r.imagePrompts) {
				prompt = r.imagePrompts[i]
			}
			s.publish(ctx, events.TopicImageGenerated, events.ImageGenerated{
				UserID:   userID,
				Platform: r.Platform,
				Prompt:   prompt,
				URL:      url,
			})
		}
		if r.VideoScript != "" {
			s.publish(ctx, events.TopicVideoGenerated, events.VideoGenerated{
				UserID:   userID,
				Platform: r.Platform,
				Keyword:  req.Keyword,
			})
		}
	}
}

func (s *Service) progressPublisher(ctx context.Context, userID, keyword string) ProgressFunc {
	return func(p Progress) {
		msg := events.GenerationProgress{
			UserID:   userID,
			Keyword:  keyword,
			Platform: p.Platform,
			Stage:    p.Stage,
			Done:     p.Done,
			Total:    p.Total,
		}
		if p.Err != nil {
			msg.Error = p.Err.Error()
		}
		s.publish(ctx, events.TopicGenerationProgress, msg)
	}
}

func (s *Service) publish(ctx context.Context, topic string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, topic, payload); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}

// ImageRequestInput is a standalone image generation request. ArtStyle
// optionally appends an art direction preset to the prompt.
type ImageRequestInput struct {
	Prompt   string `json:"prompt" validate:"required,max=1000"`
	Style    string `json:"style" validate:"omitempty,oneof=natural vivid"`
	Size     string `json:"size" validate:"omitempty,oneof=1024x1024 1024x1792 1792x1024"`
	ArtStyle string `json:"art_style" validate:"max=50"`
}

// ImageOutput is a saved library image with the provider's metadata.
type ImageOutput struct {
	Image         models.Image `json:"image"`
	RevisedPrompt string       `json:"revised_prompt,omitempty"`
}

// GenerateImage creates one image and saves it to the user's library.
func (s *Service) GenerateImage(ctx context.Context, userID string, in ImageRequestInput) (*ImageOutput, error) {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	if in.Style == "" {
		in.Style = ImageStyleNatural
	}
	if in.Size == "" {
		in.Size = defaultImageSize
	}

	prompt := in.Prompt
	if in.ArtStyle != "" {
		prompt += ", " + StylePrompt(in.ArtStyle, "")
	}

	gen, err := s.images.GenerateImage(ctx, ImageRequest{Prompt: prompt, Size: in.Size, Style: in.Style})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	img := models.Image{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       gen.URL,
		Prompt:    prompt,
		Style:     in.Style,
		Size:      in.Size,
		Tags:      append([]string(nil), imageLibraryTags...),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveImage(ctx, &img); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	s.publish(ctx, events.TopicImageGenerated, events.ImageGenerated{
		UserID:  userID,
		ImageID: img.ID,
		Prompt:  prompt,
		URL:     img.URL,
	})

	return &ImageOutput{Image: img, RevisedPrompt: gen.RevisedPrompt}, nil
}

// ListBlocks returns the user's blocks, newest first.
func (s *Service) ListBlocks(ctx context.Context, userID string, limit, offset int) ([]models.ContentBlock, error) {
	return s.store.ListContentBlocks(ctx, userID, limit, offset)
}

// GetBlock returns one of the user's blocks with its platform rows.
func (s *Service) GetBlock(ctx context.Context, userID, blockID string) (*models.ContentBlock, error) {
	block, err := s.store.GetContentBlock(ctx, userID, blockID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrBlockNotFound
	}
	return block, err
}

// MetricsInput is a performance metrics append for one platform row.
type MetricsInput struct {
	Platform string                    `json:"platform" validate:"required,platform"`
	Metrics  models.PerformanceMetrics `json:"metrics"`
}

// RecordMetrics appends performance metrics to a platform row. Metrics only
// grow; negative values are rejected.
func (s *Service) RecordMetrics(ctx context.Context, userID, blockID string, in MetricsInput) error {
	if err := validation.Validate(&in); err != nil {
		return err
	}
	err := s.store.AppendMetrics(ctx, userID, blockID, in.Platform, in.Metrics)
	if errors.Is(err, database.ErrNotFound) {
		return ErrBlockNotFound
	}
	return err
}

// ListImages returns the user's image library.
func (s *Service) ListImages(ctx context.Context, userID string, limit int) ([]models.Image, error) {
	return s.store.ListImages(ctx, userID, limit)
}

// Humanize rewrites text to read more naturally, returning it unchanged
// when the rewrite fails.
func (s *Service) Humanize(ctx context.Context, text, style string, brand *BrandContext) string {
	if s.humanizer == nil {
		return text
	}
	return s.humanizer.Humanize(ctx, text, style, brand)
}

func failureSummary(failures []PlatformFailure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.Platform+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}
