// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package models

// ScoreComponents is the fixed-shape breakdown of a relevance score.
//
// Keeping the components typed (rather than a free-form map) makes the
// formula auditable: every returned score decomposes into exactly these
// three terms before clamping.
type ScoreComponents struct {
	// CategoryMatch is 1.0 when the course category matched the
	// reference category set, 0 otherwise.
	CategoryMatch float64 `json:"category_match"`
	// TagOverlap is 0.5 per tag shared with the reference tag set.
	TagOverlap float64 `json:"tag_overlap"`
	// RatingTerm is the course rating scaled by 0.3.
	RatingTerm float64 `json:"rating_term"`
}

// Sum returns the unclamped sum of the components.
func (s ScoreComponents) Sum() float64 {
	return s.CategoryMatch + s.TagOverlap + s.RatingTerm
}

// RecommendationResult is a scored course returned to the caller.
// Results are transient, computed per request, and never persisted.
type RecommendationResult struct {
	CourseID        string          `json:"course_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"image_url,omitempty"`
	AuthorID        string          `json:"author_id"`
	AuthorName      string          `json:"author_name"`
	Rating          float64         `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	DifficultyLevel string          `json:"difficulty_level"`
	DurationMinutes int             `json:"duration_minutes"`
	Category        string          `json:"category"`
	Tags            []string        `json:"tags"`
	RelevanceScore  float64         `json:"relevance_score"` // clamped to [0,5]
	Scores          ScoreComponents `json:"scores"`
	Reason          string          `json:"reason"`
}

// RecommendationList is the data payload of recommendation responses.
type RecommendationList struct {
	Recommendations []RecommendationResult `json:"recommendations"`
	Count           int                    `json:"count"`
}

// UserInterestSet holds the normalized interest tokens for a user.
// The set is fully replaced on every update, never merged.
type UserInterestSet struct {
	UserID string   `json:"user_id"`
	Tokens []string `json:"tokens"`
}
