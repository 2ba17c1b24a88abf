// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"math"
	"strings"
)

// PlatformAffinityScore is how many indicator words for a platform appeared
// in the research suggestions.
type PlatformAffinityScore struct {
	Platform          string  `json:"platform"`
	MatchCount        int     `json:"count"`
	PercentageOfTotal float64 `json:"percentage"`
}

// platformIndicators is ordered; the breakdown follows this order.
var platformIndicators = []struct {
	platform   string
	indicators []string
}{
	{"instagram", []string{"photo", "picture", "image", "aesthetic", "feed", "story", "reel"}},
	{"tiktok", []string{"video", "trend", "viral", "dance", "challenge", "sound"}},
	{"linkedin", []string{"professional", "career", "business", "job", "work", "industry"}},
	{"twitter", []string{"news", "update", "tweet", "thread", "breaking"}},
	{"youtube", []string{"tutorial", "how to", "guide", "review", "watch"}},
}

// PlatformAffinity scores suggestions by case-insensitive substring match.
// Every indicator found in a suggestion counts once. Percentages are
// rounded half to even at one decimal and sum to 100 within 0.1; they are
// all zero when nothing matched.
func PlatformAffinity(suggestions []string) []PlatformAffinityScore {
	counts := make([]int, len(platformIndicators))
	total := 0
	for _, s := range suggestions {
		lower := strings.ToLower(s)
		for i, p := range platformIndicators {
			for _, ind := range p.indicators {
				if strings.Contains(lower, ind) {
					counts[i]++
					total++
				}
			}
		}
	}

	tenths := percentTenths(counts, total)
	out := make([]PlatformAffinityScore, len(platformIndicators))
	for i, p := range platformIndicators {
		out[i] = PlatformAffinityScore{
			Platform:          p.platform,
			MatchCount:        counts[i],
			PercentageOfTotal: tenths[i] / 10,
		}
	}
	return out
}

// percentTenths returns each count's share of total in tenths of a percent.
// Shares are rounded half to even; when that leaves the sum more than one
// tenth away from 1000, the entries furthest from their exact share move
// one tenth toward it until the sum is within one tenth.
func percentTenths(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}

	exact := make([]float64, len(counts))
	var sum float64
	for i, c := range counts {
		exact[i] = float64(c) * 1000 / float64(total)
		out[i] = math.RoundToEven(exact[i])
		sum += out[i]
	}

	for diff := 1000 - sum; math.Abs(diff) > 1; {
		step := math.Copysign(1, diff)
		best := 0
		for i := range out {
			if (exact[i]-out[i])*step > (exact[best]-out[best])*step {
				best = i
			}
		}
		out[best] += step
		diff -= step
	}
	return out
}
