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
	"sync/atomic"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// Generation modes.
const (
	ModeBoth  = "both"
	ModeText  = "text"
	ModeImage = "image"
)

const (
	defaultContentType     = "post"
	defaultTone            = "professional"
	defaultAngle           = "informative"
	defaultImageCount      = 1
	defaultConcurrency     = 3
	defaultPlatformTimeout = 120 * time.Second

	singleImagePromptFormat = "Professional social media image about %s, high quality, minimalist design"

	markerEndWith = "end with:"
	markerMention = "mention:"
)

var (
	// ErrImageCount means the image provider returned a different number of
	// images than requested.
	ErrImageCount = errors.New("image count mismatch")

	// ErrAllPlatformsFailed is returned by Service.Generate when no platform
	// produced content.
	ErrAllPlatformsFailed = errors.New("content generation failed for every platform")
)

// Request is a content generation request. Zero values take the defaults
// listed on withDefaults.
type Request struct {
	Keyword             string   `json:"keyword" validate:"required,max=255"`
	Platforms           []string `json:"platforms" validate:"required,min=1,unique,dive,platform"`
	ContentType         string   `json:"content_type" validate:"max=100"`
	Tone                string   `json:"tone" validate:"max=100"`
	Angle               string   `json:"angle" validate:"max=100"`
	Niche               string   `json:"niche" validate:"max=100"`
	GenerationMode      string   `json:"generation_mode" validate:"omitempty,genmode"`
	ImageCount          int      `json:"image_count" validate:"gte=0,lte=10"`
	GenerateVideoScript bool     `json:"generate_video_script"`
	CustomInstruction   string   `json:"custom_prompt" validate:"max=1000"`
}

// withDefaults fills contentType "post", tone "professional", angle
// "informative", mode "both" and imageCount 1.
func (r Request) withDefaults() Request {
	if r.ContentType == "" {
		r.ContentType = defaultContentType
	}
	if r.Tone == "" {
		r.Tone = defaultTone
	}
	if r.Angle == "" {
		r.Angle = defaultAngle
	}
	if r.GenerationMode == "" {
		r.GenerationMode = ModeBoth
	}
	if r.ImageCount <= 0 {
		r.ImageCount = defaultImageCount
	}
	return r
}

func (r Request) wantsImages() bool {
	return r.GenerationMode == ModeBoth || r.GenerationMode == ModeImage
}

// PlatformResult is the generated content for one platform.
type PlatformResult struct {
	Platform       string   `json:"platform"`
	Caption        string   `json:"caption"`
	Hashtags       []string `json:"hashtags"`
	Hook           string   `json:"hook"`
	CTA            string   `json:"cta"`
	Slides         []string `json:"slides,omitempty"`
	Images         []string `json:"images"`
	VideoScript    string   `json:"video_script,omitempty"`
	CharacterCount int      `json:"character_count"`

	imagePrompts []string
}

// PlatformFailure reports a platform that produced no content.
type PlatformFailure struct {
	Platform string `json:"platform"`
	Error    string `json:"error"`

	err error
}

// Err returns the underlying error.
func (f PlatformFailure) Err() error { return f.err }

// GenerationResult holds one entry per requested platform, either in
// Results or in Failures, each in request order.
type GenerationResult struct {
	Results  []PlatformResult  `json:"results"`
	Failures []PlatformFailure `json:"failures,omitempty"`
}

// Progress is reported as each platform starts and finishes.
type Progress struct {
	Platform string
	Stage    string
	Err      error
	Done     int
	Total    int
}

// ProgressFunc receives progress updates. It is called from the platform
// goroutines and must be safe for concurrent use.
type ProgressFunc func(Progress)

// Progress stages.
const (
	StageStarted   = "started"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// Generator fans a request out to its platforms.
type Generator struct {
	text        TextGenerator
	images      ImageGenerator
	concurrency int
	timeout     time.Duration
}

// NewGenerator creates a Generator. Concurrency defaults to 3 and the
// per-platform timeout to 120s.
func NewGenerator(text TextGenerator, images ImageGenerator, cfg config.GenerationConfig) *Generator {
	g := &Generator{
		text:        text,
		images:      images,
		concurrency: cfg.Concurrency,
		timeout:     cfg.PlatformTimeout,
	}
	if g.concurrency <= 0 {
		g.concurrency = defaultConcurrency
	}
	if g.timeout <= 0 {
		g.timeout = defaultPlatformTimeout
	}
	return g
}

// Generate produces content for every requested platform.
func (g *Generator) Generate(ctx context.Context, req Request) GenerationResult {
	return g.GenerateWithProgress(ctx, req, nil)
}

// GenerateWithProgress is Generate with progress reporting. A nil progress
// func is allowed.
func (g *Generator) GenerateWithProgress(ctx context.Context, req Request, progress ProgressFunc) GenerationResult {
	req = req.withDefaults()
	if progress == nil {
		progress = func(Progress) {}
	}

	total := len(req.Platforms)
	results := make([]*PlatformResult, total)
	failures := make([]error, total)
	var done atomic.Int32

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)

	for i, platform := range req.Platforms {
		eg.Go(func() error {
			progress(Progress{Platform: platform, Stage: StageStarted, Done: int(done.Load()), Total: total})

			start := time.Now()
			res, err := g.generatePlatform(ctx, req, platform)
			n := int(done.Add(1))

			if err != nil {
				failures[i] = err
				metrics.RecordGeneration(platform, "failed", time.Since(start))
				logging.Ctx(ctx).Warn().
					Err(err).
					Str("platform", platform).
					Str("keyword", req.Keyword).
					Str("error_class", upstream.Classify(err)).
					Msg("platform generation failed")
				progress(Progress{Platform: platform, Stage: StageFailed, Err: err, Done: n, Total: total})
				return nil
			}

			results[i] = res
			metrics.RecordGeneration(platform, "success", time.Since(start))
			progress(Progress{Platform: platform, Stage: StageCompleted, Done: n, Total: total})
			return nil
		})
	}
	_ = eg.Wait()

	out := GenerationResult{Results: make([]PlatformResult, 0, total)}
	for i, platform := range req.Platforms {
		if failures[i] != nil {
			out.Failures = append(out.Failures, PlatformFailure{
				Platform: platform,
				Error:    failures[i].Error(),
				err:      failures[i],
			})
			continue
		}
		out.Results = append(out.Results, *results[i])
	}
	return out
}

func (g *Generator) generatePlatform(ctx context.Context, req Request, platform string) (*PlatformResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.text.GenerateContent(ctx, TextRequest{
		Keyword:           req.Keyword,
		Platform:          platform,
		ContentType:       req.ContentType,
		Tone:              req.Tone,
		Angle:             req.Angle,
		Niche:             req.Niche,
		CustomInstruction: req.CustomInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}

	caption, cta := applyCustomInstruction(req.CustomInstruction, text.Caption, text.CTA)
	res := &PlatformResult{
		Platform:       platform,
		Caption:        caption,
		Hashtags:       text.Hashtags,
		Hook:           text.Hook,
		CTA:            cta,
		Slides:         []string(text.Slides),
		Images:         []string{},
		CharacterCount: len([]rune(caption)),
	}
	if res.Hashtags == nil {
		res.Hashtags = []string{}
	}

	if req.wantsImages() {
		images, err := g.generateImages(ctx, req.Keyword, platform, req.ImageCount)
		if err != nil {
			return nil, fmt.Errorf("images: %w", err)
		}
		if len(images) != req.ImageCount {
			return nil, fmt.Errorf("images: %w: got %d, want %d", ErrImageCount, len(images), req.ImageCount)
		}
		for _, img := range images {
			res.Images = append(res.Images, img.URL)
			res.imagePrompts = append(res.imagePrompts, img.Prompt)
		}
	}

	if req.GenerateVideoScript {
		script, err := g.text.GenerateVideoScript(ctx, req.Keyword, platform, req.Tone)
		if err != nil {
			return nil, fmt.Errorf("video script: %w", err)
		}
		res.VideoScript = script.Voiceover
	}

	return res, nil
}

func (g *Generator) generateImages(ctx context.Context, keyword, platform string, count int) ([]GeneratedImage, error) {
	if count > 1 {
		return g.images.GenerateCarousel(ctx, keyword, count)
	}
	img, err := g.images.GenerateImage(ctx, ImageRequest{
		Prompt: fmt.Sprintf(singleImagePromptFormat, keyword),
		Size:   ImageSizeFor(platform),
	})
	if err != nil {
		return nil, err
	}
	return []GeneratedImage{*img}, nil
}

// applyCustomInstruction appends the text after an "end with:" marker to the
// caption and cta, or the text after a "mention:" marker to the caption.
// Markers match case-insensitively; "end with:" wins when both appear.
func applyCustomInstruction(instruction, caption, cta string) (string, string) {
	if instruction == "" {
		return caption, cta
	}
	if text, ok := textAfterMarker(instruction, markerEndWith); ok {
		return appendToField(caption, text), appendToField(cta, text)
	}
	if text, ok := textAfterMarker(instruction, markerMention); ok {
		return appendToField(caption, text), cta
	}
	return caption, cta
}

// textAfterMarker returns the trimmed text after the first case-insensitive
// occurrence of an ASCII marker.
func textAfterMarker(s, marker string) (string, bool) {
	for i := 0; i+len(marker) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(marker)], marker) {
			return strings.TrimSpace(s[i+len(marker):]), true
		}
	}
	return "", false
}

func appendToField(field, text string) string {
	if field == "" {
		return field
	}
	return strings.TrimRightFunc(field, unicode.IsSpace) + " " + text
}
