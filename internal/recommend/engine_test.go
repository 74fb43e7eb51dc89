// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/coursepilot/coursepilot/internal/models"
)

// fakeCatalog implements CatalogAccessor over an in-memory course list.
type fakeCatalog struct {
	courses []models.Course
	err     error

	// onTopRated, when set, runs at the start of each TopRatedCourses
	// call with a 1-based call number. Lets tests fail or cancel a
	// specific call, such as the padding query.
	onTopRated    func(call int)
	topRatedCalls int
}

func (f *fakeCatalog) visible(c *models.Course) bool {
	return c.IsPublished && !c.IsDeleted
}

func (f *fakeCatalog) CourseByID(_ context.Context, id string) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.courses {
		if f.courses[i].ID == id {
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) TopRatedCourses(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Course, error) {
	f.topRatedCalls++
	if f.onTopRated != nil {
		f.onTopRated(f.topRatedCalls)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Course
	for i := range f.courses {
		c := f.courses[i]
		if !f.visible(&c) {
			continue
		}
		if _, skip := exclude[c.ID]; skip {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) CoursesMatching(_ context.Context, categories, tags []string, exclude map[string]struct{}, limit int) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	catSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		catSet[strings.ToLower(c)] = struct{}{}
	}
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[strings.ToLower(t)] = struct{}{}
	}

	var out []models.Course
	for i := range f.courses {
		c := f.courses[i]
		if !f.visible(&c) {
			continue
		}
		if _, skip := exclude[c.ID]; skip {
			continue
		}
		matched := false
		if _, ok := catSet[strings.ToLower(c.Category)]; ok {
			matched = true
		}
		for _, t := range c.Tags {
			if _, ok := tagSet[strings.ToLower(t)]; ok {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) CoursesCreatedSince(_ context.Context, since time.Time, limit int) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Course
	for i := range f.courses {
		c := f.courses[i]
		if f.visible(&c) && c.CreatedAt.After(since) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) CoursesByIDs(_ context.Context, ids []string) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Course
	for _, id := range ids {
		for i := range f.courses {
			c := f.courses[i]
			if c.ID == id && f.visible(&c) {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// fakeViews implements ViewHistoryStore.
type fakeViews struct {
	events    []models.ViewEvent
	readErr   error
	recordErr error
}

func (f *fakeViews) RecordView(_ context.Context, event models.ViewEvent) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeViews) RecentViews(_ context.Context, userID string, limit int) ([]models.ViewEvent, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []models.ViewEvent
	for i := range f.events {
		if f.events[i].UserID == userID {
			out = append(out, f.events[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ViewedAt.After(out[j].ViewedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeViews) ViewedCourseIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make(map[string]struct{})
	for i := range f.events {
		if f.events[i].UserID == userID {
			out[f.events[i].CourseID] = struct{}{}
		}
	}
	return out, nil
}

// fakeInterests implements InterestStore.
type fakeInterests struct {
	tokens   map[string][]string
	readErr  error
	writeErr error
}

func (f *fakeInterests) ReplaceInterests(_ context.Context, userID string, tokens []string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.tokens == nil {
		f.tokens = make(map[string][]string)
	}
	f.tokens[userID] = tokens
	return nil
}

func (f *fakeInterests) Interests(_ context.Context, userID string) ([]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.tokens[userID], nil
}

// fakeCompletions implements CompletionAccessor.
type fakeCompletions struct {
	completed map[string]map[string]struct{}
	err       error
}

func (f *fakeCompletions) CompletedCourseIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	if ids, ok := f.completed[userID]; ok {
		return ids, nil
	}
	return map[string]struct{}{}, nil
}

// fakeCounts implements ViewCountAggregator.
type fakeCounts struct {
	counts map[string]int
	err    error
}

func (f *fakeCounts) CountViewsSince(_ context.Context, _ time.Time) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

type testDeps struct {
	catalog     *fakeCatalog
	views       *fakeViews
	interests   *fakeInterests
	completions *fakeCompletions
	counts      *fakeCounts
}

func newTestEngine(t *testing.T, deps testDeps) *Engine {
	t.Helper()
	if deps.catalog == nil {
		deps.catalog = &fakeCatalog{}
	}
	if deps.views == nil {
		deps.views = &fakeViews{}
	}
	if deps.interests == nil {
		deps.interests = &fakeInterests{}
	}
	if deps.completions == nil {
		deps.completions = &fakeCompletions{}
	}
	if deps.counts == nil {
		deps.counts = &fakeCounts{counts: map[string]int{}}
	}

	engine, err := New(DefaultConfig(), Providers{
		Catalog:     deps.catalog,
		Views:       deps.views,
		Interests:   deps.interests,
		Completions: deps.completions,
		ViewCounts:  deps.counts,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return engine
}

func course(id, category string, tags []string, rating float64) models.Course {
	return models.Course{
		ID:          id,
		Title:       "Course " + id,
		Category:    category,
		Tags:        tags,
		Rating:      rating,
		CreatedAt:   time.Now().UTC().AddDate(0, 0, -100),
		IsPublished: true,
	}
}

func view(userID, courseID string, age time.Duration) models.ViewEvent {
	event := models.NewViewEvent(userID, courseID)
	event.ViewedAt = time.Now().UTC().Add(-age)
	return event
}

func resultIDs(results []models.RecommendationResult) []string {
	ids := make([]string, len(results))
	for i := range results {
		ids[i] = results[i].CourseID
	}
	return ids
}

func TestNewValidatesConfigAndProviders(t *testing.T) {
	providers := Providers{
		Catalog:     &fakeCatalog{},
		Views:       &fakeViews{},
		Interests:   &fakeInterests{},
		Completions: &fakeCompletions{},
		ViewCounts:  &fakeCounts{},
	}

	if _, err := New(Config{HistoryWindow: 0, OverFetchFactor: 2, FallbackPeriodDays: 30}, providers); err == nil {
		t.Error("expected error for zero history window")
	}
	if _, err := New(Config{HistoryWindow: 21, OverFetchFactor: 2, FallbackPeriodDays: 30}, providers); err == nil {
		t.Error("expected error for history window above cap")
	}

	missing := providers
	missing.Catalog = nil
	if _, err := New(DefaultConfig(), missing); err == nil {
		t.Error("expected error for nil catalog accessor")
	}
}

func TestPersonalizedExcludesViewedAndCompleted(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("viewed", "programming", []string{"go"}, 4.8),
		course("done", "programming", []string{"go"}, 4.9),
		course("fresh", "programming", []string{"go"}, 4.0),
		course("other", "design", []string{"figma"}, 3.0),
	}}
	views := &fakeViews{events: []models.ViewEvent{view("u1", "viewed", time.Hour)}}
	completions := &fakeCompletions{completed: map[string]map[string]struct{}{
		"u1": {"done": {}},
	}}
	interests := &fakeInterests{tokens: map[string][]string{"u1": {"go"}}}

	engine := newTestEngine(t, testDeps{catalog: catalog, views: views, completions: completions, interests: interests})

	results, err := engine.Personalized(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Personalized failed: %v", err)
	}

	for _, id := range resultIDs(results) {
		if id == "viewed" || id == "done" {
			t.Errorf("excluded course %q appeared in output", id)
		}
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].CourseID != "fresh" {
		t.Errorf("top result = %s, want fresh", results[0].CourseID)
	}
}

func TestPersonalizedScoresPerTagOnly(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", []string{"go"}, 0),
	}}
	interests := &fakeInterests{tokens: map[string][]string{"u1": {"programming", "go"}}}

	engine := newTestEngine(t, testDeps{catalog: catalog, interests: interests})

	results, err := engine.Personalized(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Personalized failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len = %d, want 1", len(results))
	}
	// Only the go tag scores: 0.5. No category bonus, rating is zero.
	if !almostEqual(results[0].RelevanceScore, 0.5) {
		t.Errorf("score = %v, want 0.5", results[0].RelevanceScore)
	}
	if results[0].Scores.CategoryMatch != 0 {
		t.Errorf("CategoryMatch = %v, want 0", results[0].Scores.CategoryMatch)
	}
}

func TestFromViewHistoryExcludesViewed(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("seen1", "programming", []string{"go"}, 4.0),
		course("seen2", "programming", []string{"go"}, 4.1),
		course("rec", "programming", []string{"go", "backend"}, 4.5),
	}}
	views := &fakeViews{events: []models.ViewEvent{
		view("u1", "seen1", 2*time.Hour),
		view("u1", "seen2", time.Hour),
	}}

	engine := newTestEngine(t, testDeps{catalog: catalog, views: views})

	results, err := engine.FromViewHistory(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("FromViewHistory failed: %v", err)
	}

	ids := resultIDs(results)
	for _, id := range ids {
		if id == "seen1" || id == "seen2" {
			t.Errorf("viewed course %q appeared in output", id)
		}
	}
	if len(ids) == 0 || ids[0] != "rec" {
		t.Errorf("ids = %v, want rec first", ids)
	}
}

func TestFromViewHistoryEmptyEqualsPopular(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", []string{"go"}, 4.0),
		course("b", "design", []string{"ux"}, 4.5),
		course("c", "data", []string{"sql"}, 3.5),
	}}
	counts := &fakeCounts{counts: map[string]int{"a": 5, "b": 2, "c": 9}}

	engine := newTestEngine(t, testDeps{catalog: catalog, counts: counts})

	fromHistory, err := engine.FromViewHistory(context.Background(), "nobody", 3)
	if err != nil {
		t.Fatalf("FromViewHistory failed: %v", err)
	}
	popular, err := engine.Popular(context.Background(), 3, 30)
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}

	if !reflect.DeepEqual(fromHistory, popular) {
		t.Errorf("empty-history result %v != popular(30) result %v",
			resultIDs(fromHistory), resultIDs(popular))
	}
}

func TestFromCompletedCoursesExcludesCompleted(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("done", "programming", []string{"go"}, 5.0),
		course("next", "programming", []string{"go"}, 4.0),
	}}
	completions := &fakeCompletions{completed: map[string]map[string]struct{}{
		"u1": {"done": {}},
	}}

	engine := newTestEngine(t, testDeps{catalog: catalog, completions: completions})

	results, err := engine.FromCompletedCourses(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("FromCompletedCourses failed: %v", err)
	}

	for _, id := range resultIDs(results) {
		if id == "done" {
			t.Error("completed course appeared in output")
		}
	}
	if len(results) == 0 || results[0].CourseID != "next" {
		t.Errorf("ids = %v, want next first", resultIDs(results))
	}
}

func TestSimilarExcludesSeed(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("seed", "programming", []string{"go", "backend"}, 4.0),
		course("close", "programming", []string{"go"}, 4.2),
		course("far", "design", []string{"ux"}, 5.0),
	}}

	engine := newTestEngine(t, testDeps{catalog: catalog})

	results, err := engine.Similar(context.Background(), "seed", 10)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}

	ids := resultIDs(results)
	for _, id := range ids {
		if id == "seed" {
			t.Error("seed course appeared in its own similar list")
		}
	}
	if len(ids) == 0 || ids[0] != "close" {
		t.Errorf("ids = %v, want close first", ids)
	}
}

func TestSimilarMissingSeedReturnsEmptyList(t *testing.T) {
	engine := newTestEngine(t, testDeps{catalog: &fakeCatalog{}})

	results, err := engine.Similar(context.Background(), "ghost", 10)
	if err != nil {
		t.Fatalf("missing seed must not error, got: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil list", results)
	}
}

func TestPopularRanksByCountThenRating(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", nil, 3.0),
		course("b", "design", nil, 5.0),
		course("c", "data", nil, 4.0),
	}}
	counts := &fakeCounts{counts: map[string]int{"a": 10, "b": 2, "c": 2}}

	engine := newTestEngine(t, testDeps{catalog: catalog, counts: counts})

	results, err := engine.Popular(context.Background(), 3, 30)
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(resultIDs(results), want) {
		t.Errorf("ids = %v, want %v", resultIDs(results), want)
	}
	// Popular scores carry the rating with no additive bonuses.
	if !almostEqual(results[0].RelevanceScore, 3.0) {
		t.Errorf("score = %v, want rating 3.0", results[0].RelevanceScore)
	}
}

func TestPopularPartialResultsWhenCatalogExhausted(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", nil, 3.0),
		course("b", "design", nil, 5.0),
		course("c", "data", nil, 4.0),
	}}
	counts := &fakeCounts{counts: map[string]int{"a": 1, "b": 1, "c": 1}}

	engine := newTestEngine(t, testDeps{catalog: catalog, counts: counts})

	results, err := engine.Popular(context.Background(), 5, 30)
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len = %d, want exactly 3 (no padding beyond catalog size)", len(results))
	}
}

func TestNewAssignsFixedMaximalScore(t *testing.T) {
	recent := course("fresh", "programming", nil, 1.0)
	recent.CreatedAt = time.Now().UTC().AddDate(0, 0, -1)
	older := course("fresher", "design", nil, 2.0)
	older.CreatedAt = time.Now().UTC().AddDate(0, 0, -5)

	catalog := &fakeCatalog{courses: []models.Course{older, recent}}
	engine := newTestEngine(t, testDeps{catalog: catalog})

	results, err := engine.New(context.Background(), 2, 30)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	// Newest first, every score pinned at the maximum.
	if results[0].CourseID != "fresh" {
		t.Errorf("first = %s, want fresh (newest)", results[0].CourseID)
	}
	for _, r := range results {
		if r.RelevanceScore != 5.0 {
			t.Errorf("score for %s = %v, want fixed 5.0", r.CourseID, r.RelevanceScore)
		}
	}
}

func TestPaddingFillsWithTopRated(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("match", "programming", []string{"go"}, 3.0),
		course("filler1", "design", []string{"ux"}, 5.0),
		course("filler2", "data", []string{"sql"}, 4.0),
	}}
	interests := &fakeInterests{tokens: map[string][]string{"u1": {"go"}}}

	engine := newTestEngine(t, testDeps{catalog: catalog, interests: interests})

	results, err := engine.FromInterests(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("FromInterests failed: %v", err)
	}

	want := []string{"match", "filler1", "filler2"}
	if !reflect.DeepEqual(resultIDs(results), want) {
		t.Errorf("ids = %v, want %v", resultIDs(results), want)
	}
	if results[1].Reason != reasonTopRated {
		t.Errorf("filler reason = %q, want %q", results[1].Reason, reasonTopRated)
	}
}

func TestPaddingRespectsExclusionSet(t *testing.T) {
	// The highest-rated catalog course is completed; padding must not
	// reintroduce it.
	catalog := &fakeCatalog{courses: []models.Course{
		course("match", "programming", []string{"go"}, 3.0),
		course("done", "design", []string{"ux"}, 5.0),
		course("ok", "data", []string{"sql"}, 4.0),
	}}
	completions := &fakeCompletions{completed: map[string]map[string]struct{}{
		"u1": {"done": {}},
	}}

	engine := newTestEngine(t, testDeps{catalog: catalog, completions: completions})

	// Seed the signal from the completed course so the strategy runs.
	results, err := engine.FromCompletedCourses(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("FromCompletedCourses failed: %v", err)
	}

	for _, id := range resultIDs(results) {
		if id == "done" {
			t.Error("excluded course re-entered through padding")
		}
	}
}

func TestReadFailureFailsOpen(t *testing.T) {
	boom := errors.New("catalog down")
	engine := newTestEngine(t, testDeps{catalog: &fakeCatalog{err: boom}})

	results, err := engine.Similar(context.Background(), "any", 5)
	if err != nil {
		t.Fatalf("read failure must not propagate, got: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil list", results)
	}
}

func TestCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(t, testDeps{catalog: &fakeCatalog{err: context.Canceled}})

	results, err := engine.Similar(ctx, "any", 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Errorf("cancelled call must return no results, got %v", results)
	}
}

func TestCancellationDuringPaddingReturnsNoResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", []string{"go"}, 4.5),
		course("b", "design", nil, 4.0),
	}}
	// Call 1 feeds candidate selection; call 2 is the padding query.
	catalog.onTopRated = func(call int) {
		if call == 2 {
			cancel()
		}
	}

	engine := newTestEngine(t, testDeps{
		catalog:   catalog,
		interests: &fakeInterests{tokens: map[string][]string{"u1": {"go"}}},
	})

	results, err := engine.Personalized(ctx, "u1", 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Errorf("cancelled call must return no results, got %v", resultIDs(results))
	}
	if catalog.topRatedCalls != 2 {
		t.Errorf("TopRatedCourses called %d times, want 2 (candidates then padding)", catalog.topRatedCalls)
	}
}

func TestPaddingFailureStillReturnsPrimaryResults(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", []string{"go"}, 4.5),
		course("b", "design", nil, 4.0),
	}}
	boom := errors.New("catalog flaked")
	catalog.onTopRated = func(call int) {
		if call == 2 {
			catalog.err = boom
		}
	}

	engine := newTestEngine(t, testDeps{
		catalog:   catalog,
		interests: &fakeInterests{tokens: map[string][]string{"u1": {"go"}}},
	})

	results, err := engine.Personalized(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("Personalized returned %v, want nil (padding degrades silently)", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want the 2 primary candidates", len(results))
	}
}

func TestTrackViewPropagatesFailure(t *testing.T) {
	boom := errors.New("disk full")
	views := &fakeViews{recordErr: boom}
	engine := newTestEngine(t, testDeps{views: views})

	err := engine.TrackView(context.Background(), "u1", "c1", models.ViewContext{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestUpdateInterestsNormalizesAndRoundTrips(t *testing.T) {
	interests := &fakeInterests{}
	engine := newTestEngine(t, testDeps{interests: interests})

	err := engine.UpdateInterests(context.Background(), "u1", []string{" Go ", "PYTHON", "go", ""})
	if err != nil {
		t.Fatalf("UpdateInterests failed: %v", err)
	}

	got, err := engine.GetInterests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetInterests failed: %v", err)
	}
	want := []string{"go", "python"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("interests = %v, want %v", got, want)
	}
}

func TestUpdateInterestsEmptyClearsSet(t *testing.T) {
	interests := &fakeInterests{tokens: map[string][]string{"u1": {"go"}}}
	engine := newTestEngine(t, testDeps{interests: interests})

	if err := engine.UpdateInterests(context.Background(), "u1", nil); err != nil {
		t.Fatalf("UpdateInterests failed: %v", err)
	}

	got, err := engine.GetInterests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetInterests failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("interests = %v, want empty set", got)
	}
}

func TestUpdateInterestsPropagatesFailure(t *testing.T) {
	boom := errors.New("tx aborted")
	interests := &fakeInterests{writeErr: boom}
	engine := newTestEngine(t, testDeps{interests: interests})

	err := engine.UpdateInterests(context.Background(), "u1", []string{"go"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestScoresAlwaysWithinBounds(t *testing.T) {
	catalog := &fakeCatalog{courses: []models.Course{
		course("a", "programming", []string{"go", "backend", "web", "api", "cloud"}, 5.0),
		course("b", "programming", []string{"go"}, 0.0),
	}}
	interests := &fakeInterests{tokens: map[string][]string{
		"u1": {"programming", "go", "backend", "web", "api", "cloud"},
	}}

	engine := newTestEngine(t, testDeps{catalog: catalog, interests: interests})

	results, err := engine.FromInterests(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("FromInterests failed: %v", err)
	}
	for _, r := range results {
		if r.RelevanceScore < 0 || r.RelevanceScore > 5 {
			t.Errorf("score for %s = %v, outside [0,5]", r.CourseID, r.RelevanceScore)
		}
	}
}
