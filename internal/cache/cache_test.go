// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package cache

import (
	"reflect"
	"testing"
	"time"

	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) *ResponseCache {
	t.Helper()

	c, err := New(&config.CacheConfig{
		Enabled:  true,
		InMemory: true,
		TTL:      ttl,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})

	return c
}

func sampleResults() []models.RecommendationResult {
	return []models.RecommendationResult{
		{CourseID: "c1", Title: "Course c1", RelevanceScore: 2.7, Reason: "similar to courses you viewed"},
		{CourseID: "c2", Title: "Course c2", RelevanceScore: 1.4, Reason: "similar to courses you viewed"},
	}
}

func TestKeyIsDistinctPerRequestShape(t *testing.T) {
	keys := map[string]bool{
		Key("popular", "", 10, 30):       true,
		Key("popular", "", 10, 7):        true,
		Key("popular", "", 20, 30):       true,
		Key("personalized", "u1", 10, 0): true,
		Key("personalized", "u2", 10, 0): true,
	}
	if len(keys) != 5 {
		t.Errorf("expected 5 distinct keys, got %d", len(keys))
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)

	key := Key("similar", "c9", 10, 0)
	want := sampleResults()
	c.Set(key, want)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if _, ok := c.Get(Key("popular", "", 10, 30)); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestEntriesExpire(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)

	key := Key("new", "", 10, 30)
	c.Set(key, sampleResults())

	if _, ok := c.Get(key); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(120 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestEmptyResultListIsCacheable(t *testing.T) {
	c := newTestCache(t, time.Minute)

	key := Key("similar", "ghost", 10, 0)
	c.Set(key, []models.RecommendationResult{})

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit for cached empty list")
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty list", got)
	}
}

func TestRunGCNeverFailsOnIdleStore(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if err := c.RunGC(); err != nil {
		t.Errorf("RunGC failed: %v", err)
	}
}
