// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer blocks in ListenAndServe until Shutdown is called.
type fakeServer struct {
	listenErr error
	shutdown  atomic.Bool
	done      chan struct{}
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{listenErr: listenErr, done: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.done
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(_ context.Context) error {
	f.shutdown.Store(true)
	close(f.done)
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer(nil)
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- svc.Serve(ctx) }()

	// Let the listener start before canceling.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if !srv.shutdown.Load() {
		t.Error("Shutdown was not called")
	}
}

func TestHTTPServicePropagatesListenFailure(t *testing.T) {
	boom := errors.New("address in use")
	svc := NewHTTPService(newFakeServer(boom), time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Serve returned %v, want wrapped %v", err, boom)
	}
}

func TestHTTPServiceStringer(t *testing.T) {
	if got := NewHTTPService(newFakeServer(nil), 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

type countingGC struct {
	runs atomic.Int64
	err  error
}

func (c *countingGC) RunGC() error {
	c.runs.Add(1)
	return c.err
}

func TestCacheGCServiceTicks(t *testing.T) {
	gc := &countingGC{}
	svc := NewCacheGCService(gc, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want context.DeadlineExceeded", err)
	}
	if gc.runs.Load() == 0 {
		t.Error("GC never ran")
	}
}

func TestCacheGCServiceSurvivesGCFailure(t *testing.T) {
	gc := &countingGC{err: errors.New("gc failed")}
	svc := NewCacheGCService(gc, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want context.DeadlineExceeded", err)
	}
	if gc.runs.Load() < 2 {
		t.Errorf("GC ran %d times, want retries after failure", gc.runs.Load())
	}
}
