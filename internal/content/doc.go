// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package content generates platform-specific social media content.

Architecture:

	Service.Generate
	    |
	    +-- validation (go-playground/validator)
	    +-- usage.Tracker.Allow (content_block quota)
	    +-- Generator.Generate
	    |       errgroup, SetLimit(concurrency), one goroutine per platform
	    |       each platform: context.WithTimeout(platformTimeout)
	    |         1. Writer.GenerateContent   -> Completer (litellm | anthropic | gemini)
	    |         2. custom instruction markers ("end with:", "mention:")
	    |         3. Images.GenerateImage / GenerateCarousel (OpenAI images API)
	    |         4. Writer.GenerateVideoScript (voiceover only)
	    |
	    +-- database.CreateContentBlock (successful platforms only)
	    +-- events: content.created, image.generated, video.generated,
	                generation.progress

Failure isolation:

A platform that fails (text, images, script or its own timeout) is reported
as a PlatformFailure and never cancels its siblings. Results and failures are
both in request platform order. A request where every platform failed
returns ErrAllPlatformsFailed and persists nothing.

Image count:

When the generation mode includes images, a successful platform carries
exactly ImageCount image URLs. A provider that returns a different number
fails that platform.

Providers:

LLM_PROVIDER selects the Completer. The litellm provider speaks the
OpenAI-compatible chat completions API through upstream.Client (rate limit,
429 backoff, circuit breaker). The anthropic and gemini providers use the
vendor SDKs. A provider without its API key is replaced by one whose every
call returns upstream.ErrFeatureUnavailable.
*/
package content
