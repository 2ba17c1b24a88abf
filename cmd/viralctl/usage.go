// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/NetRider88/viralAI/internal/models"
	"github.com/NetRider88/viralAI/internal/usage"
)

// apiEnvelope mirrors the server's response envelope with a typed payload.
type apiEnvelope[T any] struct {
	Success bool             `json:"success"`
	Data    T                `json:"data"`
	Error   *models.APIError `json:"error"`
}

// getJSON calls the ViralAI API and decodes the envelope's data into T.
func getJSON[T any](ctx context.Context, server, token, path string) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(server, "/")+path, nil)
	if err != nil {
		return zero, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}
	var env apiEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		if env.Error != nil {
			return zero, fmt.Errorf("HTTP %d %s: %s", resp.StatusCode, env.Error.Code, env.Error.Message)
		}
		return zero, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return env.Data, nil
}

func newUsageCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show this month's usage and tier limits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.token == "" {
				return errors.New("a token is required: pass --token or set VIRALAI_TOKEN")
			}
			report, err := getJSON[usage.Report](cmd.Context(), opts.server, opts.token, "/api/v1/usage")
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, report)
			}
			printReport(w, &report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printReport(w io.Writer, r *usage.Report) {
	printHeading(w, "Usage for %s (%s tier)", r.Month.Format("January 2006"), r.Tier)
	rows := []struct {
		kind  models.UsageKind
		limit int
	}{
		{models.UsageContentBlock, r.Limits.ContentBlocks},
		{models.UsageAPICall, r.Limits.APICalls},
		{models.UsageImageGeneration, r.Limits.ImageGenerations},
		{models.UsageVideoGeneration, r.Limits.VideoGenerations},
	}
	for _, row := range rows {
		used := r.Usage.Count(row.kind)
		attr := color.FgGreen
		if row.limit >= 0 && used >= int64(row.limit) {
			attr = color.FgRed
		} else if row.limit > 0 && used*5 >= int64(row.limit)*4 {
			attr = color.FgYellow
		}
		printStatus(w, "●", fmt.Sprintf("%-18s %d / %s", row.kind, used, limitString(row.limit)), attr)
	}
	if !r.Enforced {
		_, _ = dim.Fprintln(w, "  quotas are not enforced on this server")
	}
}
