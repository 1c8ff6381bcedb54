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
//  2. file (YAML) if LEADRANK_CONFIG is set
//  3. env (prefix LEADRANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LEADRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LEADRANK_ADDR, LEADRANK_TOPK, ...
	// Map env keys like LEADRANK_ARTIFACTS_DIR -> artifacts_dir (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("LEADRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "leadrank_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ArtifactsDir == "":
		return fmt.Errorf("%w: artifacts_dir must not be empty", ErrInvalidConfig)
	case c.TopK <= 0:
		return fmt.Errorf("%w: topk must be positive", ErrInvalidConfig)
	case c.PCAComponents <= 0:
		return fmt.Errorf("%w: pca_components must be positive", ErrInvalidConfig)
	case c.HashingDim <= 0:
		return fmt.Errorf("%w: hashing_dim must be positive", ErrInvalidConfig)
	}
	return nil
}
