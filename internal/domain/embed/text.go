// Package embed maps records into the unified lead-vector space: text blobs
// through a sentence-embedding model (with a hashed degraded fallback),
// tabular features through a fitted standardize-and-project step, fused into
// one unit-normalized vector per record.
package embed

import (
	"context"
	"errors"
	"time"
)

// Default model configuration, mirroring the reference deployment.
const (
	DefaultPrimaryModel   = "intfloat/e5-small-v2"
	DefaultSecondaryModel = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultHashingDim     = 384
	defaultProbeTimeout   = 30 * time.Second
)

// Sentinel error kinds for this package.
var (
	ErrEmbedFailed = errors.New("embedding failed")
	ErrEmptyFit    = errors.New("fit on empty matrix")
	ErrNotFitted   = errors.New("tabular embedder not fitted")
	ErrDimMismatch = errors.New("dimension mismatch")
)

// Variant identifies which text-encoding path was selected at construction.
// The choice is made once and never changes for the lifetime of the encoder;
// a silent switch between build time and serve time would corrupt the index.
type Variant int

const (
	// VariantPrimary is the preferred pretrained sentence-embedding model.
	VariantPrimary Variant = iota
	// VariantSecondary is the fallback pretrained model.
	VariantSecondary
	// VariantHashed is the degraded hashed bag-of-words path used when no
	// pretrained model is reachable.
	VariantHashed
)

// String implements fmt.Stringer for logs and metadata.
func (v Variant) String() string {
	switch v {
	case VariantPrimary:
		return "primary"
	case VariantSecondary:
		return "secondary"
	case VariantHashed:
		return "hashed"
	default:
		return "unknown"
	}
}

// TextEncoder maps a batch of text blobs to unit-normalized vectors, one row
// per input in input order. Dim is constant for the encoder's lifetime.
type TextEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Dim() int
	Variant() Variant
	ModelName() string
}

// TextConfig controls text-encoder construction.
type TextConfig struct {
	// BaseURL of the embedding server. Empty selects the hashed fallback
	// directly.
	BaseURL string
	// PrimaryModel and SecondaryModel name the pretrained models to probe,
	// in order. Empty fields take the package defaults.
	PrimaryModel   string
	SecondaryModel string
	// HashingDim is the dimensionality of the hashed fallback.
	HashingDim int
	// Timeout bounds each embedding-server call.
	Timeout time.Duration
}

// NewTextEncoder selects the encoding path: the primary pretrained model if
// the embedding server answers for it, else the secondary model, else the
// hashed bag-of-words fallback. The decision is fixed at construction and
// exposed via Variant so callers can assert which path is active.
func NewTextEncoder(ctx context.Context, cfg TextConfig) TextEncoder {
	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = DefaultPrimaryModel
	}
	if cfg.SecondaryModel == "" {
		cfg.SecondaryModel = DefaultSecondaryModel
	}
	if cfg.HashingDim <= 0 {
		cfg.HashingDim = DefaultHashingDim
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProbeTimeout
	}

	if cfg.BaseURL != "" {
		if enc, err := newRemoteEncoder(ctx, cfg.BaseURL, cfg.PrimaryModel, VariantPrimary, cfg.Timeout); err == nil {
			return enc
		}
		if enc, err := newRemoteEncoder(ctx, cfg.BaseURL, cfg.SecondaryModel, VariantSecondary, cfg.Timeout); err == nil {
			return enc
		}
	}
	return newHashedEncoder(cfg.HashingDim)
}
