// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/models"
	"github.com/coursepilot/coursepilot/internal/recommend"
)

// Compile-time checks that *DB satisfies the engine's accessor interfaces.
var (
	_ recommend.CatalogAccessor     = (*DB)(nil)
	_ recommend.ViewHistoryStore    = (*DB)(nil)
	_ recommend.InterestStore       = (*DB)(nil)
	_ recommend.CompletionAccessor  = (*DB)(nil)
	_ recommend.ViewCountAggregator = (*DB)(nil)
)

// courseColumns is the canonical SELECT list for course rows. Keep in
// sync with scanCourse.
const courseColumns = `id, title, description, image_url, author_id, author_name,
	rating, review_count, difficulty_level, duration_minutes, category, tags,
	created_at, is_published, is_deleted`

// scanCourse reads one course row into a models.Course.
func scanCourse(rows *sql.Rows) (models.Course, error) {
	var (
		c       models.Course
		tagsStr string
	)
	if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.AuthorID,
		&c.AuthorName, &c.Rating, &c.ReviewCount, &c.DifficultyLevel, &c.DurationMinutes,
		&c.Category, &tagsStr, &c.CreatedAt, &c.IsPublished, &c.IsDeleted); err != nil {
		return models.Course{}, fmt.Errorf("scan course: %w", err)
	}
	c.Tags = splitAndTrim(tagsStr)
	return c, nil
}

// collectCourses runs a catalog query and scans every row.
func (db *DB) collectCourses(ctx context.Context, operation, query string, args ...interface{}) ([]models.Course, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery(operation, "courses", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer closeQuietly(rows)

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// CourseByID returns the course with the given id, or nil when it does
// not exist. Unpublished and soft-deleted courses are still returned;
// visibility policy belongs to the caller's query, not the point lookup.
func (db *DB) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ? AND NOT is_deleted`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, id)
	metrics.RecordDBQuery("course_by_id", "courses", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("course_by_id: %w", err)
	}
	defer closeQuietly(rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("course_by_id: %w", err)
		}
		return nil, nil
	}

	course, err := scanCourse(rows)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// TopRatedCourses returns published, non-deleted courses ordered by
// rating descending, skipping the excluded ids.
func (db *DB) TopRatedCourses(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Course, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + courseColumns + ` FROM courses WHERE is_published AND NOT is_deleted`)

	args := make([]interface{}, 0, len(exclude)+1)
	if len(exclude) > 0 {
		sb.WriteString(` AND id NOT IN (` + placeholders(len(exclude)) + `)`)
		for id := range exclude {
			args = append(args, id)
		}
	}
	sb.WriteString(` ORDER BY rating DESC, review_count DESC, id LIMIT ?`)
	args = append(args, limit)

	return db.collectCourses(ctx, "top_rated", sb.String(), args...)
}

// CoursesMatching returns published, non-deleted courses whose category
// or any tag matches the given lowercase token sets, skipping excluded
// ids. Matching is case-insensitive and exact per token.
func (db *DB) CoursesMatching(ctx context.Context, categories, tags []string, exclude map[string]struct{}, limit int) ([]models.Course, error) {
	if len(categories) == 0 && len(tags) == 0 {
		return []models.Course{}, nil
	}

	var (
		sb    strings.Builder
		args  []interface{}
		conds []string
	)
	sb.WriteString(`SELECT ` + courseColumns + ` FROM courses WHERE is_published AND NOT is_deleted`)

	if len(categories) > 0 {
		conds = append(conds, `lower(trim(category)) IN (`+placeholders(len(categories))+`)`)
		for _, c := range categories {
			args = append(args, strings.ToLower(strings.TrimSpace(c)))
		}
	}
	if len(tags) > 0 {
		// Tags live comma-separated in one column; normalize each element
		// before the membership test.
		conds = append(conds, `list_has_any(list_transform(string_split(tags, ','), t -> lower(trim(t))), [`+placeholders(len(tags))+`])`)
		for _, t := range tags {
			args = append(args, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	sb.WriteString(` AND (` + strings.Join(conds, ` OR `) + `)`)

	if len(exclude) > 0 {
		sb.WriteString(` AND id NOT IN (` + placeholders(len(exclude)) + `)`)
		for id := range exclude {
			args = append(args, id)
		}
	}

	sb.WriteString(` ORDER BY rating DESC, review_count DESC, id LIMIT ?`)
	args = append(args, limit)

	return db.collectCourses(ctx, "courses_matching", sb.String(), args...)
}

// CoursesCreatedSince returns published, non-deleted courses created at
// or after the cutoff, newest first.
func (db *DB) CoursesCreatedSince(ctx context.Context, since time.Time, limit int) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses
		WHERE is_published AND NOT is_deleted AND created_at >= ?
		ORDER BY created_at DESC, id LIMIT ?`

	return db.collectCourses(ctx, "courses_created_since", query, since, limit)
}

// CoursesByIDs returns the published, non-deleted courses among the
// given ids. Missing ids are silently absent from the result.
func (db *DB) CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}

	query := `SELECT ` + courseColumns + ` FROM courses
		WHERE is_published AND NOT is_deleted AND id IN (` + placeholders(len(ids)) + `)
		ORDER BY id`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return db.collectCourses(ctx, "courses_by_ids", query, args...)
}

// UpsertCourse inserts or replaces a catalog row. Used by seeding and by
// catalog synchronization jobs; the recommendation read path never writes.
func (db *DB) UpsertCourse(ctx context.Context, course models.Course) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if course.ID == "" {
		return errors.New("course id is required")
	}

	query := `INSERT OR REPLACE INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		course.ID, course.Title, course.Description, course.ImageURL, course.AuthorID,
		course.AuthorName, course.Rating, course.ReviewCount, course.DifficultyLevel,
		course.DurationMinutes, course.Category, joinTags(course.Tags),
		course.CreatedAt, course.IsPublished, course.IsDeleted)
	metrics.RecordDBQuery("upsert_course", "courses", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", course.ID, err)
	}
	return nil
}
