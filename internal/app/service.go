// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/leadrank/internal/adapters/artifacts"
	"github.com/okian/leadrank/internal/domain/dedupe"
	"github.com/okian/leadrank/internal/domain/embed"
	"github.com/okian/leadrank/internal/domain/feature"
	"github.com/okian/leadrank/internal/domain/index"
	"github.com/okian/leadrank/internal/domain/model"
	"github.com/okian/leadrank/internal/domain/scoring"
	"github.com/okian/leadrank/pkg/logger"
	"github.com/okian/leadrank/pkg/metrics"
)

// Service serves scoring requests against a frozen artifact set. Everything
// it holds is built once in Start and never mutated afterwards, so the
// request path reads without locks.
type Service struct {
	mu sync.RWMutex

	// Core components, built at Start
	features *feature.Builder
	encoder  embed.TextEncoder
	tabular  *embed.TabularEmbedder
	scorer   *scoring.Scorer
	gate     dedupe.Gate
	meta     artifacts.Meta

	indexAll  int
	indexHigh int

	// Configuration
	artifactsDir string
	topK         int
	textCfg      embed.TextConfig

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithArtifactsDir sets the directory the bundle is loaded from.
func WithArtifactsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.artifactsDir = dir
		}
	}
}

// WithTopK overrides the neighbor count recorded in the bundle.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithTextConfig sets the text-encoder construction parameters.
func WithTextConfig(cfg embed.TextConfig) Option {
	return func(s *Service) {
		s.textCfg = cfg
	}
}

// WithTextEncoder injects a pre-built text encoder, bypassing construction.
func WithTextEncoder(enc embed.TextEncoder) Option {
	return func(s *Service) {
		s.encoder = enc
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		artifactsDir: "./artifacts",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the artifact bundle and builds the serving components. It is
// the startup barrier: the text encoder constructed here must match the
// bundle's recorded dimensions, and any mismatch is fatal rather than
// degraded, because scoring against an index built in a different space
// produces plausible-looking nonsense.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring service...")

	if s.encoder == nil {
		s.encoder = embed.NewTextEncoder(ctx, s.textCfg)
	}
	s.logger.Info(ctx, "text encoder selected",
		logger.String("variant", s.encoder.Variant().String()),
		logger.String("model", s.encoder.ModelName()),
		logger.Int("dim", s.encoder.Dim()),
	)

	store := artifacts.NewStore(s.artifactsDir)
	bundle, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load artifact bundle: %w", err)
	}

	if s.encoder.Dim() != bundle.Meta.TextDim {
		return fmt.Errorf("%w: encoder dim %d vs bundle text dim %d",
			ErrArtifactMismatch, s.encoder.Dim(), bundle.Meta.TextDim)
	}
	if s.encoder.Variant().String() != bundle.Meta.TextVariant {
		return fmt.Errorf("%w: encoder variant %s vs bundle variant %s",
			ErrArtifactMismatch, s.encoder.Variant(), bundle.Meta.TextVariant)
	}
	tabular := embed.RestoreTabularEmbedder(bundle.Tabular)
	if tabular.Components() != bundle.Meta.TabularDim {
		return fmt.Errorf("%w: tabular components %d vs bundle tabular dim %d",
			ErrArtifactMismatch, tabular.Components(), bundle.Meta.TabularDim)
	}

	dual := index.NewDual(bundle.Meta.EmbeddingDim)
	if err := dual.All.Add(bundle.All.IDs, bundle.All.Vectors); err != nil {
		return fmt.Errorf("restore all index: %w", err)
	}
	if err := dual.High.Add(bundle.High.IDs, bundle.High.Vectors); err != nil {
		return fmt.Errorf("restore high-value index: %w", err)
	}

	topK := s.topK
	if topK <= 0 {
		topK = bundle.Meta.TopK
	}

	s.features = feature.NewFittedBuilder(bundle.Meta.Schema, bundle.Encoders)
	s.tabular = tabular
	s.scorer = scoring.NewScorer(dual, scoring.WithTopK(topK))
	s.gate = dedupe.NewEmailGate(bundle.Emails)
	s.meta = bundle.Meta
	s.topK = topK
	s.indexAll = dual.All.Count()
	s.indexHigh = dual.High.Count()

	metrics.UpdateIndexSizes(dual.All.Count(), dual.High.Count())
	metrics.UpdateKnownEmails(s.gate.Size())
	metrics.UpdateEmbeddingDim(bundle.Meta.EmbeddingDim)
	metrics.MarkArtifactLoaded(time.Now())

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("all", dual.All.Count()),
		logger.Int("high", dual.High.Count()),
		logger.Int("emails", int(s.gate.Size())),
		logger.Int("topK", topK),
		logger.Int("dim", bundle.Meta.EmbeddingDim),
	)

	return nil
}

// Stop shuts down the service. The artifact set is read-only, so there is
// nothing to flush; this only flips the started flag.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// ScoreLead evaluates one candidate lead. When the lead's email matches a
// known customer the gate short-circuits: duplicate is true and the result
// is the zero value, with no embedding or search performed.
func (s *Service) ScoreLead(ctx context.Context, rec model.Record) (result model.ScoreResult, duplicate bool, err error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.ScoreResult{}, false, ErrNotStarted
	}

	if s.gate.IsDuplicate(ctx, rec.Email) {
		metrics.RecordDuplicateDetected()
		return model.ScoreResult{}, true, nil
	}

	start := time.Now()

	records := []model.Record{rec}
	blob := s.features.TextBlobs(records)

	embedStart := time.Now()
	textVecs, err := s.encoder.Encode(ctx, blob)
	if err != nil {
		metrics.RecordScoringError()
		return model.ScoreResult{}, false, fmt.Errorf("encode text: %w", err)
	}
	metrics.RecordTextEmbedLatency(float64(time.Since(embedStart).Milliseconds()))

	matrix, err := s.features.Transform(records)
	if err != nil {
		metrics.RecordScoringError()
		return model.ScoreResult{}, false, fmt.Errorf("transform features: %w", err)
	}
	tabVecs, err := s.tabular.Transform(matrix)
	if err != nil {
		metrics.RecordScoringError()
		return model.ScoreResult{}, false, fmt.Errorf("transform tabular: %w", err)
	}
	fused, err := embed.Fuse(textVecs, tabVecs)
	if err != nil {
		metrics.RecordScoringError()
		return model.ScoreResult{}, false, fmt.Errorf("fuse embeddings: %w", err)
	}

	searchStart := time.Now()
	result, err = s.scorer.Score(fused[0])
	if err != nil {
		metrics.RecordScoringError()
		return model.ScoreResult{}, false, fmt.Errorf("score: %w", err)
	}
	metrics.RecordIndexSearchLatency(float64(time.Since(searchStart).Milliseconds()))

	metrics.RecordLeadScored()
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordContrast(result.Contrast)

	s.logger.Debug(ctx, "lead scored",
		logger.String("customerID", rec.CustomerID),
		logger.Float64("sLook", result.SLook),
		logger.Float64("sNovel", result.SNovel),
		logger.Float64("contrast", result.Contrast),
	)
	return result, false, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		stats["textVariant"] = s.meta.TextVariant
		stats["modelName"] = s.meta.ModelName
		stats["embeddingDim"] = s.meta.EmbeddingDim
		stats["textDim"] = s.meta.TextDim
		stats["tabularDim"] = s.meta.TabularDim
		stats["indexAll"] = s.indexAll
		stats["indexHigh"] = s.indexHigh
		stats["topK"] = s.topK
		stats["knownEmails"] = s.gate.Size()
		stats["recordCount"] = s.meta.RecordCount
		stats["builtAtUnix"] = s.meta.BuiltAtUnix
	}
	return stats
}
