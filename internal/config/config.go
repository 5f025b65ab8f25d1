// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the JSON song catalog. Empty means an
	// in-memory catalog seeded with nothing.
	CatalogPath string `koanf:"catalog_path"`

	// StoreBackend selects the profile store: "memory" or "badger".
	StoreBackend string `koanf:"store_backend"`

	// BadgerDir is the on-disk location for the badger backend.
	BadgerDir string `koanf:"badger_dir"`

	// EventQueueSize bounds the in-memory rating queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the memory store.
	ShardCount int `koanf:"shard_count"`

	// AdminUsers lists user IDs allowed to mutate the catalog.
	AdminUsers []string `koanf:"admin_users"`

	// MinVotes and MinMean gate entry into the top-rated chart.
	MinVotes int     `koanf:"min_votes"`
	MinMean  float64 `koanf:"min_mean"`

	// FavoriteThreshold is the rating score at or above which a song
	// counts as an implicit favorite.
	FavoriteThreshold int `koanf:"favorite_threshold"`

	// SimilarLimit caps GET /similar results. Zero means unlimited.
	SimilarLimit int `koanf:"similar_limit"`

	// ChartLimit caps chart and leaderboard results. Zero means unlimited.
	ChartLimit int `koanf:"chart_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		StoreBackend:      "memory",
		BadgerDir:         "data/profiles",
		EventQueueSize:    10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        50_000,
		ShardCount:        8,
		MinVotes:          2,
		MinMean:           7.0,
		FavoriteThreshold: 8,
		SimilarLimit:      20,
		ChartLimit:        50,
	}
}
