// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/okian/leadrank/internal/domain/embed"
	"github.com/okian/leadrank/internal/domain/feature"
	"github.com/okian/leadrank/internal/domain/scoring"
)

// Config contains process configuration shared by the serving binary and the
// offline index builder.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// ArtifactsDir holds the published artifact bundle.
	ArtifactsDir string `koanf:"artifacts_dir"`

	// DataPath locates the reference-population dataset for the build step
	// (a sqlite database or a CSV file with a header row).
	DataPath string `koanf:"data_path"`

	// TopK is the neighbor count per similarity search.
	TopK int `koanf:"topk"`

	// PCAComponents caps the tabular embedding dimensionality.
	PCAComponents int `koanf:"pca_components"`

	// EmbedServerURL points at the embedding server; empty selects the
	// hashed fallback directly.
	EmbedServerURL string `koanf:"embed_server_url"`

	// PrimaryModel and SecondaryModel name the pretrained text models
	// probed in order at startup.
	PrimaryModel   string `koanf:"primary_model"`
	SecondaryModel string `koanf:"secondary_model"`

	// HashingDim sizes the hashed bag-of-words fallback.
	HashingDim int `koanf:"hashing_dim"`

	// EmbedTimeoutMS bounds each embedding-server call.
	EmbedTimeoutMS int `koanf:"embed_timeout_ms"`

	// Schema is the ordered column-role configuration. It must match
	// between build time and serve time.
	Schema feature.Schema `koanf:"schema"`
}

// New creates a Config with defaults mirroring the reference deployment.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9090",
		ArtifactsDir:   "./artifacts",
		TopK:           scoring.DefaultTopK,
		PCAComponents:  16,
		PrimaryModel:   embed.DefaultPrimaryModel,
		SecondaryModel: embed.DefaultSecondaryModel,
		HashingDim:     embed.DefaultHashingDim,
		EmbedTimeoutMS: 30_000,
		Schema:         feature.DefaultSchema(),
	}
}
