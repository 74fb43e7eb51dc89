// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getCounterValue extracts the value from a Prometheus counter.
func getCounterValue(counter prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// getGaugeValue extracts the value from a Prometheus gauge.
func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestRecordDBQuery(t *testing.T) {
	before := getCounterValue(DBQueryErrors.WithLabelValues("select", "courses"))

	RecordDBQuery("select", "courses", 5*time.Millisecond, nil)
	if got := getCounterValue(DBQueryErrors.WithLabelValues("select", "courses")); got != before {
		t.Errorf("error counter moved on success: %v -> %v", before, got)
	}

	RecordDBQuery("select", "courses", 5*time.Millisecond, errors.New("boom"))
	if got := getCounterValue(DBQueryErrors.WithLabelValues("select", "courses")); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestRecordFallbackAndDegraded(t *testing.T) {
	fallbackBefore := getCounterValue(RecommendationFallbacks.WithLabelValues("personalized"))
	RecordFallback("personalized")
	if got := getCounterValue(RecommendationFallbacks.WithLabelValues("personalized")); got != fallbackBefore+1 {
		t.Errorf("fallback counter = %v, want %v", got, fallbackBefore+1)
	}

	degradedBefore := getCounterValue(RecommendationDegraded.WithLabelValues("popular", "view_counts"))
	RecordDegraded("popular", "view_counts")
	if got := getCounterValue(RecommendationDegraded.WithLabelValues("popular", "view_counts")); got != degradedBefore+1 {
		t.Errorf("degraded counter = %v, want %v", got, degradedBefore+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := getGaugeValue(APIActiveRequests)

	TrackActiveRequest(true)
	if got := getGaugeValue(APIActiveRequests); got != before+1 {
		t.Errorf("gauge after inc = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := getGaugeValue(APIActiveRequests); got != before {
		t.Errorf("gauge after dec = %v, want %v", got, before)
	}
}
