// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package recommend

import (
	"strings"

	"github.com/coursepilot/coursepilot/internal/models"
)

// Score weights for the additive relevance formula. The formula is
// deliberately simple so every returned score can be explained from its
// components.
const (
	categoryMatchWeight = 1.0
	tagOverlapWeight    = 0.5
	ratingWeight        = 0.3

	// maxScore is the upper clamp for every relevance score.
	maxScore = 5.0
)

// scoreCourse computes the relevance score of a course against a
// reference signal.
//
// withCategory controls the +1.0 category-match term: the history-driven
// and similar-items strategies use it, while the interest-token
// strategies score per-tag only (their tokens already stand in for both
// tags and categories, and a token matching the category would
// double-count).
func scoreCourse(course *models.Course, ref signal, withCategory bool) (float64, models.ScoreComponents) {
	var comp models.ScoreComponents

	if withCategory {
		category := strings.ToLower(strings.TrimSpace(course.Category))
		if _, ok := ref.categories[category]; ok {
			comp.CategoryMatch = categoryMatchWeight
		}
	}

	for _, tag := range course.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if _, ok := ref.tags[tag]; ok {
			comp.TagOverlap += tagOverlapWeight
		}
	}

	comp.RatingTerm = course.Rating * ratingWeight

	return clampScore(comp.Sum()), comp
}

// clampScore bounds a score to [0, maxScore].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// scoredResult converts a course into a recommendation result with the
// given score, components, and reason.
func scoredResult(course *models.Course, score float64, comp models.ScoreComponents, reason string) models.RecommendationResult {
	return models.RecommendationResult{
		CourseID:        course.ID,
		Title:           course.Title,
		Description:     course.Description,
		ImageURL:        course.ImageURL,
		AuthorID:        course.AuthorID,
		AuthorName:      course.AuthorName,
		Rating:          course.Rating,
		ReviewCount:     course.ReviewCount,
		DifficultyLevel: course.DifficultyLevel,
		DurationMinutes: course.DurationMinutes,
		Category:        course.Category,
		Tags:            course.Tags,
		RelevanceScore:  score,
		Scores:          comp,
		Reason:          reason,
	}
}

// scoreCandidates scores a candidate pool against a reference signal,
// preserving pool order. Scoring is pure; it never mutates the courses.
func scoreCandidates(candidates []models.Course, ref signal, withCategory bool, reason string) []models.RecommendationResult {
	results := make([]models.RecommendationResult, 0, len(candidates))
	for i := range candidates {
		score, comp := scoreCourse(&candidates[i], ref, withCategory)
		results = append(results, scoredResult(&candidates[i], score, comp, reason))
	}
	return results
}
