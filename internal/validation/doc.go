// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and shared by every
// request handler and service. Field names in errors are the JSON names of
// the struct fields, so messages line up with what API clients sent.
//
// # Quick Start
//
//	type GenerateRequest struct {
//	    Keyword   string   `json:"keyword" validate:"required,max=255"`
//	    Platforms []string `json:"platforms" validate:"required,min=1,unique,dive,platform"`
//	}
//
//	if err := validation.Validate(&req); err != nil {
//	    var verr *validation.RequestValidationError
//	    if errors.As(err, &verr) {
//	        apiErr := verr.ToAPIError()
//	        // respond 400 with apiErr
//	    }
//	}
//
// # Custom Tags
//
//   - platform: one of SupportedPlatforms
//   - genmode: a content generation mode (both, text, image)
//
// # Error Format
//
// ToAPIError produces a VALIDATION_ERROR. A single failure carries its field
// in details; several failures are listed under details.fields:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "keyword: keyword is required; platforms[0]: platforms[0] must be one of: ...",
//	    "details": {"fields": [{"field": "keyword", "tag": "required", "message": "..."}]}
//	}
//
// Min and max are worded by kind: "characters" for strings, "items" for
// slices.
package validation
