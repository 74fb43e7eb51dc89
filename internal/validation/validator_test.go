// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	UserID    string `validate:"required,max=16"`
	IPAddress string `validate:"omitempty,ip"`
	Level     string `validate:"omitempty,oneof=beginner intermediate advanced"`
}

func TestValidateStructPassesValidInput(t *testing.T) {
	req := sampleRequest{UserID: "alice", IPAddress: "10.0.0.1", Level: "beginner"}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct returned %v for valid input", err)
	}
}

func TestValidateStructCollectsFieldErrors(t *testing.T) {
	req := sampleRequest{IPAddress: "not-an-ip", Level: "expert"}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("got %d field errors, want 3: %v", len(err.Errors()), err)
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details == nil {
		t.Fatal("expected details for multi-field failure")
	}
}

func TestValidationMessagesAreReadable(t *testing.T) {
	req := sampleRequest{UserID: strings.Repeat("x", 32)}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	msg := err.Error()
	if !strings.Contains(msg, "UserID") {
		t.Errorf("message does not name the field: %q", msg)
	}
}

func TestSingletonValidatorReused(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the shared instance")
	}
}
