// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
)

const (
	humanizeTemperature   = 0.9
	brandVoiceTemperature = 0.7
	rewriteMaxTokens      = 2000
)

const humanizeGuidelines = `Guidelines:
- Use contractions naturally (it's, don't, we're, you'll)
- Add conversational phrases and transitions
- Vary sentence length and structure significantly
- Include occasional colloquialisms appropriate for the audience
- Add personality and genuine emotion
- Remove overly formal, robotic, or AI-sounding language
- Make it feel like a real person wrote it spontaneously
- Keep the core message and key points intact
- Add subtle imperfections that make it feel authentic
- Use active voice predominantly
- Include rhetorical questions where appropriate
- Add personal touches and relatable examples`

// BrandContext adds brand information to a rewrite.
type BrandContext struct {
	Voice          string `json:"voice"`
	Tone           string `json:"tone"`
	Values         string `json:"values"`
	TargetAudience string `json:"target_audience"`
	Instructions   string `json:"instructions"`
}

// Humanizer rewrites generated copy so it reads less machine-written.
// Every method returns the input unchanged when the rewrite fails.
type Humanizer struct {
	llm Completer
}

// NewHumanizer creates a Humanizer.
func NewHumanizer(llm Completer) *Humanizer {
	return &Humanizer{llm: llm}
}

// Humanize rewrites text in the given style ("casual" when empty).
func (h *Humanizer) Humanize(ctx context.Context, text, style string, brand *BrandContext) string {
	if style == "" {
		style = "casual"
	}

	var b strings.Builder
	b.WriteString("Rewrite the following content to make it more natural, authentic, and human-like.\n\n")
	fmt.Fprintf(&b, "Style: %s\n\n%s\n", style, humanizeGuidelines)
	if brand != nil {
		if brand.Voice != "" {
			fmt.Fprintf(&b, "\nBrand Voice: %s", brand.Voice)
		}
		if brand.TargetAudience != "" {
			fmt.Fprintf(&b, "\nTarget Audience: %s", brand.TargetAudience)
		}
	}
	fmt.Fprintf(&b, "\n\nContent to humanize:\n%s\n\nReturn ONLY the humanized version. No explanations, no meta-commentary.", text)

	return h.rewrite(ctx, "humanize", text, b.String(), humanizeTemperature)
}

// ApplyBrandVoice rewrites text to match brand guidelines.
func (h *Humanizer) ApplyBrandVoice(ctx context.Context, text string, brand BrandContext) string {
	prompt := fmt.Sprintf(`Rewrite this content to match the following brand guidelines:

Brand Voice: %s
Brand Tone: %s
Brand Values: %s
Target Audience: %s

Additional Instructions:
%s

Content:
%s

Return the rewritten content that perfectly matches the brand guidelines.`,
		orDefault(brand.Voice, "Professional and engaging"),
		orDefault(brand.Tone, "Friendly yet authoritative"),
		orDefault(brand.Values, "Quality, Innovation, Trust"),
		orDefault(brand.TargetAudience, "General audience"),
		orDefault(brand.Instructions, "Follow the brand voice consistently"),
		text)

	return h.rewrite(ctx, "brand_voice", text, prompt, brandVoiceTemperature)
}

func (h *Humanizer) rewrite(ctx context.Context, op, original, prompt string, temperature float64) string {
	out, err := h.llm.Complete(ctx, Completion{
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   rewriteMaxTokens,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("op", op).
			Str("error_class", upstream.Classify(err)).
			Msg("rewrite failed, returning original text")
		return original
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return original
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
