// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewEvent represents a single course view by a user.
//
// Events are append-only: repeated views of the same course produce
// separate rows, and history queries rely on viewed_at descending order
// rather than any uniqueness constraint.
type ViewEvent struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	CourseID       string    `json:"course_id"`
	ViewedAt       time.Time `json:"viewed_at"` // UTC
	IPAddress      string    `json:"ip_address,omitempty"`
	ReferralSource string    `json:"referral_source,omitempty"`
	Device         string    `json:"device,omitempty"`
}

// NewViewEvent builds a ViewEvent with a fresh ID and the current UTC time.
func NewViewEvent(userID, courseID string) ViewEvent {
	return ViewEvent{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		ViewedAt: time.Now().UTC(),
	}
}

// ViewContext carries the optional request metadata attached to a tracked view.
type ViewContext struct {
	IPAddress      string `json:"ip_address,omitempty"`
	ReferralSource string `json:"referral_source,omitempty"`
	Device         string `json:"device,omitempty"`
}
