// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package recommend

import (
	"sort"

	"github.com/coursepilot/coursepilot/internal/models"
)

// rankAndTruncate sorts results by relevance score descending and cuts
// the list to count. The sort is stable: equal scores keep their
// candidate-pool order, so callers must not rely on any secondary
// ordering the formula does not encode.
func rankAndTruncate(results []models.RecommendationResult, count int) []models.RecommendationResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > count {
		results = results[:count]
	}
	return results
}

// truncate cuts a list to count without re-sorting. Used by strategies
// whose pool ordering is already the ranking (popular, new).
func truncate(results []models.RecommendationResult, count int) []models.RecommendationResult {
	if len(results) > count {
		return results[:count]
	}
	return results
}

// orderByPopularity sorts courses by view count descending, breaking
// ties by rating descending.
func orderByPopularity(courses []models.Course, counts map[string]int) {
	sort.SliceStable(courses, func(i, j int) bool {
		ci, cj := counts[courses[i].ID], counts[courses[j].ID]
		if ci != cj {
			return ci > cj
		}
		return courses[i].Rating > courses[j].Rating
	})
}
