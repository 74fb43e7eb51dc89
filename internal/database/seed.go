// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/models"
)

// SeedDemoData fills an empty database with a small realistic catalog,
// view history, interests, and completions. Intended for demos and local
// development only; it is a no-op when the catalog already has rows.
func (db *DB) SeedDemoData(ctx context.Context) error {
	var existing int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&existing); err != nil {
		return fmt.Errorf("count courses: %w", err)
	}
	if existing > 0 {
		logging.Debug().Int("courses", existing).Msg("Catalog already populated, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo data...")

	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic demo data

	courses := demoCourses()
	for _, course := range courses {
		if err := db.UpsertCourse(ctx, course); err != nil {
			return err
		}
	}

	users := []string{"alice", "bob", "carol", "dave", "erin"}
	now := time.Now().UTC()

	devices := []string{"web", "ios", "android"}

	// Spread views over the trailing 30 days so the popular strategy has
	// something to count.
	for i := 0; i < 200; i++ {
		user := users[rng.Intn(len(users))]
		course := courses[rng.Intn(len(courses))]
		event := models.NewViewEvent(user, course.ID)
		event.ViewedAt = now.AddDate(0, 0, -rng.Intn(30)).Add(-time.Duration(rng.Intn(86400)) * time.Second)
		event.Device = devices[rng.Intn(len(devices))]
		if err := db.RecordView(ctx, event); err != nil {
			return err
		}
	}

	interests := map[string][]string{
		"alice": {"go", "backend", "databases"},
		"bob":   {"design", "figma"},
		"carol": {"python", "machine learning"},
	}
	for user, tokens := range interests {
		if err := db.ReplaceInterests(ctx, user, tokens); err != nil {
			return err
		}
	}

	for i := 0; i < 20; i++ {
		user := users[rng.Intn(len(users))]
		course := courses[rng.Intn(len(courses))]
		completedAt := now.AddDate(0, 0, -rng.Intn(90))
		if err := db.RecordCompletion(ctx, user, course.ID, completedAt); err != nil {
			return err
		}
	}

	logging.Info().
		Int("courses", len(courses)).
		Int("users", len(users)).
		Msg("Demo seed complete")
	return nil
}

// demoCourses returns a fixed catalog spanning several categories.
func demoCourses() []models.Course {
	now := time.Now().UTC()

	type row struct {
		id       string
		title    string
		category string
		tags     []string
		rating   float64
		reviews  int
		ageDays  int
	}

	rows := []row{
		{"go-fundamentals", "Go Fundamentals", "programming", []string{"go", "backend"}, 4.7, 812, 400},
		{"go-concurrency", "Concurrency in Go", "programming", []string{"go", "concurrency", "backend"}, 4.8, 540, 210},
		{"sql-for-analysts", "SQL for Analysts", "data", []string{"sql", "databases", "analytics"}, 4.5, 1204, 600},
		{"duckdb-analytics", "Analytics with DuckDB", "data", []string{"sql", "databases", "olap"}, 4.6, 201, 45},
		{"python-ml-intro", "Machine Learning with Python", "data", []string{"python", "machine learning"}, 4.4, 980, 520},
		{"figma-basics", "Figma Basics", "design", []string{"figma", "ui"}, 4.3, 655, 380},
		{"design-systems", "Building Design Systems", "design", []string{"figma", "ui", "components"}, 4.6, 310, 150},
		{"react-essentials", "React Essentials", "programming", []string{"javascript", "react", "frontend"}, 4.5, 1500, 700},
		{"rest-api-design", "REST API Design", "programming", []string{"backend", "http", "api"}, 4.4, 430, 260},
		{"distributed-systems", "Distributed Systems Primer", "programming", []string{"backend", "distributed", "concurrency"}, 4.9, 220, 20},
		{"kubernetes-ops", "Operating Kubernetes", "devops", []string{"kubernetes", "containers", "ops"}, 4.2, 760, 340},
		{"observability-101", "Observability 101", "devops", []string{"metrics", "logging", "ops"}, 4.5, 180, 10},
	}

	courses := make([]models.Course, len(rows))
	for i, r := range rows {
		courses[i] = models.Course{
			ID:              r.id,
			Title:           r.title,
			Description:     "A hands-on course on " + r.title + ".",
			AuthorID:        "author-" + r.id,
			AuthorName:      "CoursePilot Faculty",
			Rating:          r.rating,
			ReviewCount:     r.reviews,
			DifficultyLevel: "intermediate",
			DurationMinutes: 300 + 30*i,
			Category:        r.category,
			Tags:            r.tags,
			CreatedAt:       now.AddDate(0, 0, -r.ageDays),
			IsPublished:     true,
		}
	}
	return courses
}
