// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Command viralctl is the operator CLI for ViralAI. It runs keyword
// suggestions and research locally against the configured upstreams,
// checks configuration, and reads a user's usage from a running server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
