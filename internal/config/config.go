// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Package config provides layered configuration loading for CoursePilot.
//
// Configuration is resolved in precedence order: environment variables
// override the optional YAML config file, which overrides built-in
// defaults. See LoadWithKoanf for details.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	API       APIConfig       `koanf:"api"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file path. ":memory:" is valid for tests.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads limits DuckDB worker threads. 0 = runtime.NumCPU().
	Threads      int  `koanf:"threads"`
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// CacheConfig holds the BadgerDB recommendation response cache settings.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
	// InMemory runs badger without disk persistence. Used in tests.
	InMemory   bool          `koanf:"in_memory"`
	TTL        time.Duration `koanf:"ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// APIConfig holds API surface settings.
type APIConfig struct {
	DefaultCount      int           `koanf:"default_count"`
	MaxCount          int           `koanf:"max_count"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	// TrackViewPerSecond bounds the sustained rate of accepted view writes.
	TrackViewPerSecond float64 `koanf:"track_view_per_second"`
	TrackViewBurst     int     `koanf:"track_view_burst"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// HistoryWindow is the number of recent views used as the
	// view-history reference signal. Capped at 20.
	HistoryWindow int `koanf:"history_window"`
	// OverFetchFactor multiplies the requested count when pulling
	// candidates, to tolerate post-filtering losses.
	OverFetchFactor    int `koanf:"overfetch_factor"`
	DefaultPeriodDays  int `koanf:"default_period_days"`
	MaxPeriodDays      int `koanf:"max_period_days"`
	FallbackPeriodDays int `koanf:"fallback_period_days"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required when the cache is enabled and not in-memory")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.GCInterval <= 0 {
		return fmt.Errorf("CACHE_GC_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultCount < 1 {
		return fmt.Errorf("API_DEFAULT_COUNT must be >= 1")
	}
	if c.API.MaxCount < c.API.DefaultCount {
		return fmt.Errorf("API_MAX_COUNT must be >= API_DEFAULT_COUNT")
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1")
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.API.TrackViewPerSecond <= 0 {
		return fmt.Errorf("TRACK_VIEW_PER_SECOND must be positive")
	}
	if c.API.TrackViewBurst < 1 {
		return fmt.Errorf("TRACK_VIEW_BURST must be >= 1")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.HistoryWindow < 1 || c.Recommend.HistoryWindow > 20 {
		return fmt.Errorf("RECOMMEND_HISTORY_WINDOW must be between 1 and 20, got %d", c.Recommend.HistoryWindow)
	}
	if c.Recommend.OverFetchFactor < 1 {
		return fmt.Errorf("RECOMMEND_OVERFETCH_FACTOR must be >= 1")
	}
	if c.Recommend.DefaultPeriodDays < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_PERIOD_DAYS must be >= 1")
	}
	if c.Recommend.MaxPeriodDays < c.Recommend.DefaultPeriodDays {
		return fmt.Errorf("RECOMMEND_MAX_PERIOD_DAYS must be >= RECOMMEND_DEFAULT_PERIOD_DAYS")
	}
	if c.Recommend.FallbackPeriodDays < 1 {
		return fmt.Errorf("RECOMMEND_FALLBACK_PERIOD_DAYS must be >= 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, disabled; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
