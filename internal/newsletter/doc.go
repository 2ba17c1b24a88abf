// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package newsletter adds newly registered users to a Listmonk mailing list.
//
// New returns a Listmonk client when newsletter.listmonk_url is set and an
// unavailable stand-in otherwise. Signup treats every Subscribe error as
// non-fatal, so a missing or failing Listmonk never blocks registration.
// An email that Listmonk already knows (409) counts as subscribed.
package newsletter
