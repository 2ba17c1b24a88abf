// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"fmt"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// Image styles accepted by the images API.
const (
	ImageStyleNatural = "natural"
	ImageStyleVivid   = "vivid"
)

// ImageRequest asks for one image. Empty Size and Style default to
// 1024x1024 and natural.
type ImageRequest struct {
	Prompt string
	Size   string
	Style  string
}

// GeneratedImage is one generated image.
type GeneratedImage struct {
	URL           string `json:"url"`
	Prompt        string `json:"prompt"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Size          string `json:"size"`
	Style         string `json:"style"`
}

// ImageGenerator creates images.
type ImageGenerator interface {
	Available() bool
	GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error)
	GenerateCarousel(ctx context.Context, keyword string, slides int) ([]GeneratedImage, error)
}

// NewImages returns an OpenAI-compatible images client, or an unavailable
// one when no API key is configured.
func NewImages(cfg config.ImageConfig) ImageGenerator {
	if cfg.APIKey == "" {
		logging.Warn().Msg("OPENAI_API_KEY not configured; image generation is unavailable")
		return unavailableImages{upstream.NewUnavailable("image generation", "OPENAI_API_KEY")}
	}
	opts := upstream.OptionsFromConfig("images", cfg.URL, cfg.Client)
	opts.Headers = map[string]string{"Authorization": "Bearer " + cfg.APIKey}

	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	return &imagesClient{client: upstream.NewClient(opts), model: model}
}

type imagesClient struct {
	client *upstream.Client
	model  string
}

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

func (c *imagesClient) Available() bool { return true }

func (c *imagesClient) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	if req.Size == "" {
		req.Size = defaultImageSize
	}
	if req.Style == "" {
		req.Style = ImageStyleNatural
	}

	resp, err := upstream.PostJSONDecode[imageGenerationResponse](ctx, c.client, "images/generations", imageGenerationRequest{
		Model:   c.model,
		Prompt:  req.Prompt,
		N:       1,
		Size:    req.Size,
		Quality: "standard",
		Style:   req.Style,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("images: %w: no image in response", upstream.ErrDecode)
	}
	return &GeneratedImage{
		URL:           resp.Data[0].URL,
		Prompt:        req.Prompt,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Size:          req.Size,
		Style:         req.Style,
	}, nil
}

// GenerateCarousel creates one square image per slide, in slide order.
func (c *imagesClient) GenerateCarousel(ctx context.Context, keyword string, slides int) ([]GeneratedImage, error) {
	out := make([]GeneratedImage, 0, slides)
	for i := 1; i <= slides; i++ {
		img, err := c.GenerateImage(ctx, ImageRequest{
			Prompt: carouselSlidePrompt(keyword, i, slides),
			Size:   defaultImageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("slide %d/%d: %w", i, slides, err)
		}
		out = append(out, *img)
	}
	return out, nil
}

func carouselSlidePrompt(keyword string, slide, total int) string {
	switch slide {
	case 1:
		return fmt.Sprintf("Cover slide of a %d-slide social media carousel about %s, bold focal visual, minimalist design, consistent color palette", total, keyword)
	case total:
		return fmt.Sprintf("Closing slide of a social media carousel about %s, call-to-action mood, minimalist design, consistent color palette", keyword)
	default:
		return fmt.Sprintf("Slide %d of %d of a social media carousel about %s, one clear idea illustrated, minimalist design, consistent color palette", slide, total, keyword)
	}
}

type unavailableImages struct {
	upstream.Unavailable
}

func (u unavailableImages) GenerateImage(context.Context, ImageRequest) (*GeneratedImage, error) {
	return nil, u.Err()
}

func (u unavailableImages) GenerateCarousel(context.Context, string, int) ([]GeneratedImage, error) {
	return nil, u.Err()
}
