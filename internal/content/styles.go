// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package content

import "math/rand/v2"

// StyleSurprise picks a random art style.
const StyleSurprise = "surprise"

const defaultStyle = "modern"

// ArtStyle is an art direction preset for image prompts.
type ArtStyle struct {
	Value       string   `json:"value"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`

	prompt string
}

var artStyles = []ArtStyle{
	{
		Value:       "minimalistic",
		Name:        "Minimalistic",
		Description: "Clean, simple, modern design with lots of white space",
		prompt:      "minimalist design, clean lines, white space, simple, modern, uncluttered, geometric shapes, limited color palette, sans-serif typography",
		Colors:      []string{"#FFFFFF", "#000000", "#F5F5F5", "#E0E0E0"},
	},
	{
		Value:       "retro",
		Name:        "Retro",
		Description: "1970s-1980s aesthetic with vintage vibes",
		prompt:      "1970s-1980s aesthetic, vintage colors, retro fonts, nostalgic vibes, groovy patterns, warm tones, analog feel",
		Colors:      []string{"#FF6B35", "#F7931E", "#FDC830", "#37B5A6", "#5B3A29"},
	},
	{
		Value:       "vintage",
		Name:        "Vintage",
		Description: "Classic, timeless design with aged look",
		prompt:      "vintage style, classic, timeless, aged look, sepia tones, traditional, weathered textures, ornate details",
		Colors:      []string{"#8B7355", "#D4A574", "#E8D5B7", "#4A4A4A", "#F5E6D3"},
	},
	{
		Value:       "pop",
		Name:        "Pop Art",
		Description: "Bold, colorful, vibrant Andy Warhol inspired",
		prompt:      "pop art style, bold colors, high contrast, vibrant, Andy Warhol inspired, comic book aesthetic, halftone dots, bright and energetic",
		Colors:      []string{"#FF0080", "#00FFFF", "#FFFF00", "#FF4500", "#8A2BE2"},
	},
	{
		Value:       "modern",
		Name:        "Modern",
		Description: "Contemporary, sleek, cutting-edge design",
		prompt:      "modern contemporary design, sleek, cutting-edge, gradient colors, glass morphism, 3D elements, futuristic",
		Colors:      []string{"#667eea", "#764ba2", "#f093fb", "#4facfe", "#00f2fe"},
	},
	{
		Value:       "elegant",
		Name:        "Elegant",
		Description: "Sophisticated, luxurious, refined aesthetic",
		prompt:      "elegant sophisticated design, luxurious, refined, gold accents, serif typography, premium feel, high-end",
		Colors:      []string{"#D4AF37", "#000000", "#FFFFFF", "#C0C0C0", "#2C2C2C"},
	},
	{
		Value:       "bold",
		Name:        "Bold",
		Description: "Strong, impactful, attention-grabbing",
		prompt:      "bold impactful design, strong typography, high contrast, attention-grabbing, powerful, dramatic, intense colors",
		Colors:      []string{"#FF0000", "#000000", "#FFFFFF", "#FFA500", "#8B0000"},
	},
	{
		Value:       "playful",
		Name:        "Playful",
		Description: "Fun, whimsical, lighthearted design",
		prompt:      "playful whimsical design, fun, lighthearted, rounded shapes, bright colors, cartoon-like, cheerful, friendly",
		Colors:      []string{"#FF6B9D", "#C44569", "#FFC312", "#12CBC4", "#FDA7DF"},
	},
}

// ArtStyles returns the available presets.
func ArtStyles() []ArtStyle {
	out := make([]ArtStyle, len(artStyles))
	copy(out, artStyles)
	return out
}

// StylePrompt returns the prompt fragment for a style, with custom
// instructions appended. "surprise" picks a random style and unknown names
// fall back to modern.
func StylePrompt(name, custom string) string {
	return stylePrompt(name, custom, rand.IntN)
}

func stylePrompt(name, custom string, pick func(n int) int) string {
	if name == StyleSurprise {
		name = artStyles[pick(len(artStyles))].Value
	}
	style, ok := findStyle(name)
	if !ok {
		style, _ = findStyle(defaultStyle)
	}
	prompt := style.prompt
	if custom != "" {
		prompt += ", " + custom
	}
	return prompt
}

func findStyle(name string) (ArtStyle, bool) {
	for _, s := range artStyles {
		if s.Value == name {
			return s, true
		}
	}
	return ArtStyle{}, false
}
