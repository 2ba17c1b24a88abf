// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

var (
	heading = color.New(color.Bold, color.FgCyan)
	dim     = color.New(color.Faint)
)

func printStatus(w io.Writer, symbol, message string, attr color.Attribute) {
	c := color.New(attr)
	_, _ = c.Fprint(w, symbol)
	_, _ = fmt.Fprintf(w, " %s\n", message)
}

func printHeading(w io.Writer, format string, args ...any) {
	_, _ = heading.Fprintf(w, format+"\n", args...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// limitString renders a quota, where a negative limit means unlimited.
func limitString(limit int) string {
	if limit < 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", limit)
}
