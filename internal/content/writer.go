// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrMalformedOutput means the model answered but not with the JSON shape
// the prompt asked for.
var ErrMalformedOutput = errors.New("malformed model output")

// TextGenerator writes captions and video scripts.
type TextGenerator interface {
	GenerateContent(ctx context.Context, req TextRequest) (*TextContent, error)
	GenerateVideoScript(ctx context.Context, keyword, platform, tone string) (*VideoScript, error)
}

// TextRequest is the input for one platform's copy.
type TextRequest struct {
	Keyword           string
	Platform          string
	ContentType       string
	Tone              string
	Angle             string
	Niche             string
	CustomInstruction string
}

// TextContent is the copy for one platform.
type TextContent struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	Hook     string   `json:"hook"`
	CTA      string   `json:"cta"`
	Slides   textList `json:"slides"`
}

// VideoScript is a short-form video script. Only Voiceover is persisted.
type VideoScript struct {
	Hook            string   `json:"hook"`
	Voiceover       string   `json:"voiceover"`
	Scenes          textList `json:"scenes"`
	DurationSeconds int      `json:"duration_seconds"`
}

// textList decodes a JSON array whose items may be strings or objects.
// Objects are kept as compact JSON text.
type textList []string

func (l *textList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, item); err != nil {
			return err
		}
		out = append(out, buf.String())
	}
	*l = out
	return nil
}

// platformSpec describes how copy and images are shaped per platform.
type platformSpec struct {
	ImageSize  string
	MaxCaption int
	Hashtags   int
	Style      string
}

var platformSpecs = map[string]platformSpec{
	"instagram": {
		ImageSize:  "1024x1024",
		MaxCaption: 2200,
		Hashtags:   15,
		Style:      "visual storytelling, short lines with line breaks, a few emojis",
	},
	"tiktok": {
		ImageSize:  "1024x1792",
		MaxCaption: 2200,
		Hashtags:   5,
		Style:      "punchy, trend-aware, speaks directly to the viewer",
	},
	"youtube": {
		ImageSize:  "1792x1024",
		MaxCaption: 5000,
		Hashtags:   5,
		Style:      "video description with the main keyword in the first sentence",
	},
	"linkedin": {
		ImageSize:  "1792x1024",
		MaxCaption: 3000,
		Hashtags:   5,
		Style:      "professional insight, short paragraphs, no slang",
	},
	"twitter": {
		ImageSize:  "1792x1024",
		MaxCaption: 280,
		Hashtags:   2,
		Style:      "concise and conversational, one idea",
	},
	"facebook": {
		ImageSize:  "1792x1024",
		MaxCaption: 2000,
		Hashtags:   3,
		Style:      "conversational, invites comments from the community",
	},
}

const defaultImageSize = "1024x1024"

// ImageSizeFor returns the image size for a platform, 1024x1024 for unknown
// platforms.
func ImageSizeFor(platform string) string {
	if spec, ok := platformSpecs[platform]; ok {
		return spec.ImageSize
	}
	return defaultImageSize
}

const contentSystemPrompt = `You are a social media copywriter who writes viral, platform-native posts.
Respond with a single JSON object and nothing else.`

const videoSystemPrompt = `You are a short-form video scriptwriter.
Respond with a single JSON object and nothing else.`

// Writer implements TextGenerator on top of a Completer.
type Writer struct {
	llm Completer
}

// NewWriter creates a Writer.
func NewWriter(llm Completer) *Writer {
	return &Writer{llm: llm}
}

// Available reports whether the underlying provider is configured.
func (w *Writer) Available() bool { return w.llm.Available() }

// GenerateContent writes the copy for one platform.
func (w *Writer) GenerateContent(ctx context.Context, req TextRequest) (*TextContent, error) {
	out, err := w.llm.Complete(ctx, Completion{
		System: contentSystemPrompt,
		Prompt: contentPrompt(req),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var content TextContent
	if err := decodeModelJSON(out, &content); err != nil {
		return nil, err
	}
	content.Caption = strings.TrimSpace(content.Caption)
	if content.Caption == "" {
		return nil, fmt.Errorf("%w: empty caption", ErrMalformedOutput)
	}
	content.Hashtags = normalizeHashtags(content.Hashtags)
	return &content, nil
}

// GenerateVideoScript writes a short video script.
func (w *Writer) GenerateVideoScript(ctx context.Context, keyword, platform, tone string) (*VideoScript, error) {
	out, err := w.llm.Complete(ctx, Completion{
		System: videoSystemPrompt,
		Prompt: videoPrompt(keyword, platform, tone),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var script VideoScript
	if err := decodeModelJSON(out, &script); err != nil {
		return nil, err
	}
	script.Voiceover = strings.TrimSpace(script.Voiceover)
	if script.Voiceover == "" {
		return nil, fmt.Errorf("%w: empty voiceover", ErrMalformedOutput)
	}
	return &script, nil
}

func contentPrompt(req TextRequest) string {
	spec, ok := platformSpecs[req.Platform]
	if !ok {
		spec = platformSpec{MaxCaption: 2200, Hashtags: 5, Style: "engaging and clear"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s for %s about %q.\n\n", req.ContentType, req.Platform, req.Keyword)
	fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	fmt.Fprintf(&b, "Angle: %s\n", req.Angle)
	if req.Niche != "" {
		fmt.Fprintf(&b, "Niche: %s\n", req.Niche)
	}
	fmt.Fprintf(&b, "Platform style: %s\n", spec.Style)
	fmt.Fprintf(&b, "Caption length: at most %d characters\n", spec.MaxCaption)
	fmt.Fprintf(&b, "Hashtags: %d relevant hashtags\n", spec.Hashtags)
	if req.ContentType == "carousel" {
		b.WriteString("Include slide texts for a carousel, one short headline per slide.\n")
	}
	if req.CustomInstruction != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from the user:\n%s\n", req.CustomInstruction)
	}
	b.WriteString(`
Return JSON with exactly these keys:
{"hook": "first line that stops the scroll", "caption": "full post text", "hashtags": ["#tag"], "cta": "call to action", "slides": ["slide text"]}`)
	return b.String()
}

func videoPrompt(keyword, platform, tone string) string {
	return fmt.Sprintf(`Write a 30-60 second %s video script about %q.
Tone: %s

Return JSON with exactly these keys:
{"hook": "first 3 seconds", "voiceover": "the full narration", "scenes": ["scene description"], "duration_seconds": 45}`,
		platform, keyword, tone)
}

// decodeModelJSON unmarshals the first JSON object in a model answer,
// tolerating markdown fences and surrounding prose.
func decodeModelJSON(out string, dst any) error {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: no JSON object in response", ErrMalformedOutput)
	}
	if err := json.Unmarshal([]byte(out[start:end+1]), dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	return nil
}

func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		out = append(out, tag)
	}
	return out
}
