// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package keywords implements keyword suggestion and research.

Components:

  - Aggregator: one autocomplete request per query, normalized into scored
    suggestions. Fetch returns an explicit Outcome (success, empty, failed);
    FetchSuggestions keeps the degrade-to-empty contract for callers that do
    not care why a list is empty.
  - Researcher: fans the template queries (questions, prepositions, alphabet,
    comparisons) and the related-keyword modifiers out over a bounded worker
    group with an overall deadline. Results land in indexed slots, so output
    order is template order regardless of completion order.
  - Trends: Google Trends through SerpApi.
  - YouTube: YouTube Data API v3 keyword statistics.
  - Service: caches bundles for 24h in Badger, persists them to DuckDB and
    publishes research.completed.

Trends and YouTube need API keys. Their constructors check the key once and
return an implementation whose every call fails with
upstream.ErrFeatureUnavailable when it is absent.

Scoring:

The autocomplete response is ordered by popularity, so the item at index i
scores max(10-i, 1). The volume band is a pure function of the score:

	score >= 9  10K-100K
	score >= 7  5K-10K
	score >= 5  1K-5K
	score >= 3  500-1K
	otherwise   100-500
*/
package keywords
