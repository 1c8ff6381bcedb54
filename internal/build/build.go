// Package build runs the offline batch that turns a reference lead
// population into the published artifact bundle: fit encoders, embed, fuse,
// index, persist.
package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/leadrank/internal/adapters/artifacts"
	"github.com/okian/leadrank/internal/adapters/dataset"
	"github.com/okian/leadrank/internal/domain/embed"
	"github.com/okian/leadrank/internal/domain/feature"
	"github.com/okian/leadrank/internal/domain/normalize"
	"github.com/okian/leadrank/pkg/logger"
	"github.com/okian/leadrank/pkg/metrics"
)

// Sentinel error kinds for this package.
var (
	ErrEmptyDataset = errors.New("dataset has no records")
)

// Builder executes the batch pipeline. The pipeline is deliberately
// single-threaded: each step consumes the whole output of the previous one
// and the bundle is published in a single rename.
type Builder struct {
	log        logger.Logger
	store      *artifacts.Store
	schema     feature.Schema
	textCfg    embed.TextConfig
	encoder    embed.TextEncoder
	components int
	topK       int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithSchema overrides the default column schema.
func WithSchema(s feature.Schema) Option {
	return func(b *Builder) { b.schema = s }
}

// WithTextConfig sets the text-encoder construction parameters.
func WithTextConfig(cfg embed.TextConfig) Option {
	return func(b *Builder) { b.textCfg = cfg }
}

// WithTextEncoder injects a pre-built text encoder, bypassing construction.
func WithTextEncoder(enc embed.TextEncoder) Option {
	return func(b *Builder) { b.encoder = enc }
}

// WithComponents sets the requested tabular projection dimensionality.
func WithComponents(n int) Option {
	return func(b *Builder) { b.components = n }
}

// WithTopK sets the neighbor count recorded in the bundle metadata.
func WithTopK(k int) Option {
	return func(b *Builder) { b.topK = k }
}

// NewBuilder creates a Builder publishing to store.
func NewBuilder(store *artifacts.Store, opts ...Option) *Builder {
	b := &Builder{
		store:      store,
		schema:     feature.DefaultSchema(),
		components: 16,
		topK:       20,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get().Named("build")
	}
	return b
}

// Run executes the full pipeline over the dataset at dataPath and publishes
// the resulting bundle. The returned bundle is the one written to disk.
func (b *Builder) Run(ctx context.Context, dataPath string) (*artifacts.Bundle, error) {
	start := time.Now()

	records, err := dataset.Load(ctx, dataPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	b.log.Info(ctx, "dataset loaded", logger.Int("records", len(records)), logger.String("path", dataPath))

	// Known-email set, normalized and deduplicated. Records without an email
	// contribute nothing.
	seen := make(map[string]struct{})
	var emails []string
	for _, rec := range records {
		e := normalize.Email(rec.Email)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		emails = append(emails, e)
	}

	fb := feature.NewBuilder(b.schema)
	matrix := fb.FitTransform(records)
	blobs := fb.TextBlobs(records)

	enc := b.encoder
	if enc == nil {
		enc = embed.NewTextEncoder(ctx, b.textCfg)
	}
	b.log.Info(ctx, "text encoder selected",
		logger.String("variant", enc.Variant().String()),
		logger.String("model", enc.ModelName()),
		logger.Int("dim", enc.Dim()))

	textVecs, err := enc.Encode(ctx, blobs)
	if err != nil {
		return nil, fmt.Errorf("encode text blobs: %w", err)
	}

	tab := embed.NewTabularEmbedder(b.components)
	if err := tab.Fit(matrix); err != nil {
		return nil, fmt.Errorf("fit tabular embedder: %w", err)
	}
	tabVecs, err := tab.Transform(matrix)
	if err != nil {
		return nil, fmt.Errorf("transform tabular features: %w", err)
	}

	fused, err := embed.Fuse(textVecs, tabVecs)
	if err != nil {
		return nil, fmt.Errorf("fuse embeddings: %w", err)
	}
	dim := enc.Dim() + tab.Components()

	allIDs := make([]string, len(records))
	allVecs := make([][]float32, len(records))
	var highIDs []string
	var highVecs [][]float32
	for i, rec := range records {
		allIDs[i] = rec.CustomerID
		allVecs[i] = fused[i]
		if rec.IsHighValue {
			highIDs = append(highIDs, rec.CustomerID)
			highVecs = append(highVecs, fused[i])
		}
	}

	bundle := &artifacts.Bundle{
		Meta: artifacts.Meta{
			EmbeddingDim:      dim,
			TextDim:           enc.Dim(),
			TabularDim:        tab.Components(),
			TopK:              b.topK,
			HasEmail:          len(emails) > 0,
			TextVariant:       enc.Variant().String(),
			ModelName:         enc.ModelName(),
			Schema:            b.schema,
			CategoricalValues: fb.CategoricalValues(),
			BuiltAtUnix:       time.Now().Unix(),
			RecordCount:       len(records),
		},
		Encoders: fb.Encoders(),
		Tabular:  tab.Params(),
		All:      artifacts.IndexSnapshot{IDs: allIDs, Vectors: allVecs},
		High:     artifacts.IndexSnapshot{IDs: highIDs, Vectors: highVecs},
		Emails:   emails,
	}

	if err := b.store.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("publish bundle: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RecordBuildDuration(elapsed.Seconds())
	b.log.Info(ctx, "bundle published",
		logger.String("path", b.store.BundlePath()),
		logger.Int("all", len(allIDs)),
		logger.Int("high", len(highIDs)),
		logger.Int("emails", len(emails)),
		logger.Int("dim", dim),
		logger.Duration("elapsed", elapsed))
	return bundle, nil
}
