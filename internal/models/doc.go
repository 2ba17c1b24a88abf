// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package models defines the persisted records and API envelopes shared by the
ViralAI packages.

Model Categories:

 1. Database Models:
    - User: account with subscription tier and role
    - ContentBlock / PlatformContent: a generation and its per-platform rows
    - KeywordResearch: a persisted research bundle
    - UsageBucket: monthly usage counters per user
    - TrackableLink / LinkClick: short links and their clicks
    - Image: the per-user image library

 2. API Models:
    - APIResponse: the {success, data, error, meta} envelope
    - APIError: machine-readable error code with message and request ID

Request-scoped types (suggestions, research categories, generation requests)
live with the packages that produce them.
*/
package models
