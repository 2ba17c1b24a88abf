// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type generateRequest struct {
	Keyword    string   `json:"keyword" validate:"required,max=20"`
	Platforms  []string `json:"platforms" validate:"required,min=1,max=3,unique,dive,platform"`
	Mode       string   `json:"generation_mode" validate:"omitempty,genmode"`
	ImageCount int      `json:"image_count" validate:"gte=0,lte=10"`
	Style      string   `json:"style" validate:"omitempty,oneof=natural vivid"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Internal   string   `validate:"max=3"`
}

func validRequest() generateRequest {
	return generateRequest{Keyword: "cold brew", Platforms: []string{"instagram", "tiktok"}}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*generateRequest)
	}{
		{"minimal", func(*generateRequest) {}},
		{"every platform once", func(r *generateRequest) { r.Platforms = []string{"linkedin", "twitter", "youtube"} }},
		{"text mode", func(r *generateRequest) { r.Mode = "text" }},
		{"max images", func(r *generateRequest) { r.ImageCount = 10 }},
		{"vivid style", func(r *generateRequest) { r.Style = "vivid" }},
		{"email", func(r *generateRequest) { r.Email = "user@example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.modify(&req)
			if err := Validate(&req); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		modify      func(*generateRequest)
		wantField   string
		wantTag     string
		wantMessage string
	}{
		{"missing keyword", func(r *generateRequest) { r.Keyword = "" }, "keyword", "required", "keyword is required"},
		{"long keyword", func(r *generateRequest) { r.Keyword = strings.Repeat("k", 21) }, "keyword", "max", "keyword must be at most 20 characters"},
		{"no platforms", func(r *generateRequest) { r.Platforms = nil }, "platforms", "required", "platforms is required"},
		{"too many platforms", func(r *generateRequest) { r.Platforms = []string{"instagram", "tiktok", "twitter", "facebook"} }, "platforms", "max", "platforms must be at most 3 items"},
		{"duplicate platforms", func(r *generateRequest) { r.Platforms = []string{"tiktok", "tiktok"} }, "platforms", "unique", "platforms must not contain duplicates"},
		{"unknown platform", func(r *generateRequest) { r.Platforms = []string{"instagram", "myspace"} }, "platforms[1]", "platform", "platforms[1] must be one of: instagram tiktok linkedin twitter facebook youtube"},
		{"bad mode", func(r *generateRequest) { r.Mode = "audio" }, "generation_mode", "genmode", "generation_mode must be one of: both text image"},
		{"too many images", func(r *generateRequest) { r.ImageCount = 11 }, "image_count", "lte", "image_count must be less than or equal to 10"},
		{"negative images", func(r *generateRequest) { r.ImageCount = -1 }, "image_count", "gte", "image_count must be greater than or equal to 0"},
		{"bad style", func(r *generateRequest) { r.Style = "sketch" }, "style", "oneof", "style must be one of: natural vivid"},
		{"bad email", func(r *generateRequest) { r.Email = "nope" }, "email", "email", "email must be a valid email address"},
		{"untagged field uses Go name", func(r *generateRequest) { r.Internal = "long" }, "Internal", "max", "Internal must be at most 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.modify(&req)

			verr := ValidateStruct(&req)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if errs[0].Error() != tt.wantMessage {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMessage)
			}
		})
	}
}

func TestValidate_NilOnSuccess(t *testing.T) {
	t.Parallel()

	req := validRequest()
	if err := Validate(&req); err != nil {
		t.Fatalf("Validate() = %v, want untyped nil", err)
	}

	req.Keyword = ""
	var verr *RequestValidationError
	if err := Validate(&req); !errors.As(err, &verr) {
		t.Errorf("Validate() error = %T, want *RequestValidationError", err)
	}
}

type metricsInput struct {
	Platform string `json:"platform" validate:"required,platform"`
	Metrics  struct {
		Reach int64 `json:"reach" validate:"gte=0"`
	} `json:"metrics"`
}

func TestNestedStructValidation(t *testing.T) {
	t.Parallel()

	in := metricsInput{Platform: "facebook"}
	in.Metrics.Reach = -5

	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("nested negative value accepted")
	}
	if got := verr.Errors()[0].Field(); got != "reach" {
		t.Errorf("Field() = %q, want reach", got)
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Keyword = ""
	apiErr := ValidateStruct(&req).ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if apiErr.Message != "keyword is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "keyword" || apiErr.Details["tag"] != "required" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	req := generateRequest{ImageCount: 99}
	apiErr := ValidateStruct(&req).ToAPIError()

	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok {
		t.Fatalf("Details[fields] = %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("len(fields) = %d, want 3", len(fields))
	}
	for _, want := range []string{"keyword: keyword is required", "platforms: platforms is required", "image_count: "} {
		if !strings.Contains(apiErr.Message, want) {
			t.Errorf("Message %q missing %q", apiErr.Message, want)
		}
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
}
