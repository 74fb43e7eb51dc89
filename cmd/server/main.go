// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Command server runs the CoursePilot recommendation API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/coursepilot/coursepilot/internal/api"
	"github.com/coursepilot/coursepilot/internal/cache"
	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/database"
	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/recommend"
	"github.com/coursepilot/coursepilot/internal/supervisor"
	"github.com/coursepilot/coursepilot/internal/supervisor/services"
	csync "github.com/coursepilot/coursepilot/internal/sync"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Msg("Starting CoursePilot")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Database close failed")
		}
	}()

	// Catalog reads go through the circuit breaker; an open breaker
	// surfaces as an upstream failure and the engine fails open.
	catalog := csync.NewBreakerCatalog(db)

	engine, err := recommend.New(recommend.Config{
		HistoryWindow:      cfg.Recommend.HistoryWindow,
		OverFetchFactor:    cfg.Recommend.OverFetchFactor,
		FallbackPeriodDays: cfg.Recommend.FallbackPeriodDays,
	}, recommend.Providers{
		Catalog:     catalog,
		Views:       db,
		Interests:   db,
		Completions: db,
		ViewCounts:  db,
	})
	if err != nil {
		return fmt.Errorf("build recommendation engine: %w", err)
	}

	var respCache *cache.ResponseCache
	if cfg.Cache.Enabled {
		respCache, err = cache.New(&cfg.Cache)
		if err != nil {
			return fmt.Errorf("open response cache: %w", err)
		}
		defer func() {
			if cerr := respCache.Close(); cerr != nil {
				logging.Warn().Err(cerr).Msg("Cache close failed")
			}
		}()
	}

	handler := api.NewHandler(engine, respCache, db, &cfg.API)
	router := api.NewRouter(handler, &cfg.API)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	if respCache != nil {
		tree.AddMaintenanceService(services.NewCacheGCService(respCache, cfg.Cache.GCInterval))
	}

	logging.Info().Str("addr", server.Addr).Msg("Serving HTTP")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
