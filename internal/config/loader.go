package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MELODEX_CONFIG is set
//  3. env (prefix MELODEX_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MELODEX_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: MELODEX_ADDR, MELODEX_QUEUE_SIZE, ...
	// Map env keys like MELODEX_QUEUE_SIZE -> queue_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MELODEX_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "melodex_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.StoreBackend {
	case "memory", "badger":
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, cfg.StoreBackend)
	}
	if cfg.StoreBackend == "badger" && cfg.BadgerDir == "" {
		return fmt.Errorf("%w: badger_dir must be set for the badger backend", ErrInvalidConfig)
	}
	if cfg.EventQueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if cfg.MinVotes < 0 {
		return fmt.Errorf("%w: min_votes must not be negative", ErrInvalidConfig)
	}
	return nil
}
