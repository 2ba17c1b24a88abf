// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NetRider88/viralAI/internal/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	server   string
	token    string
	noColor  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "viralctl",
		Short: "ViralAI operator CLI",
		Long: `viralctl drives ViralAI from the command line.

suggest and research run locally with the same configuration the server
uses (config.yaml and environment). usage talks to a running server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
			logging.Init(logging.Config{
				Level:  opts.logLevel,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("VIRALAI_SERVER", "http://localhost:8000"), "ViralAI server base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("VIRALAI_TOKEN"), "bearer token for server commands")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for library output")

	root.AddCommand(
		newSuggestCmd(),
		newResearchCmd(),
		newUsageCmd(opts),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
