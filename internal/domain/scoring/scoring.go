// Package scoring combines dual-index nearest-neighbor statistics into the
// lookalike, novelty, and contrast signals used to rank leads.
package scoring

import (
	"github.com/okian/leadrank/internal/domain/index"
	"github.com/okian/leadrank/internal/domain/model"
)

// DefaultTopK is the neighbor count used when none is configured.
const DefaultTopK = 20

// Scorer evaluates query vectors against a fixed index pair. It holds no
// mutable state; Score is a deterministic function of the query, the index
// contents, and k.
type Scorer struct {
	dual *index.Dual
	topK int
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTopK sets the neighbor count per search.
func WithTopK(k int) Option {
	return func(s *Scorer) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewScorer creates a Scorer over the given index pair.
func NewScorer(dual *index.Dual, opts ...Option) *Scorer {
	s := &Scorer{dual: dual, topK: DefaultTopK}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TopK returns the configured neighbor count.
func (s *Scorer) TopK() int { return s.topK }

// Score runs top-k search against both indices and derives:
//
//   - SLook: mean similarity to the high-value neighbors, 0 when that index
//     is empty.
//   - SNovel: one minus the mean similarity to the full-population neighbors,
//     1 when that index is empty (an empty population is maximal novelty).
//   - Contrast: SLook - (1 - SNovel), which reduces to SLook minus the mean
//     all-population similarity.
func (s *Scorer) Score(query []float32) (model.ScoreResult, error) {
	all, err := s.dual.All.Search(query, s.topK)
	if err != nil {
		return model.ScoreResult{}, err
	}
	high, err := s.dual.High.Search(query, s.topK)
	if err != nil {
		return model.ScoreResult{}, err
	}

	sLook := 0.0
	if len(high) > 0 {
		sLook = meanScore(high)
	}
	sNovel := 1.0
	if len(all) > 0 {
		sNovel = 1.0 - meanScore(all)
	}

	return model.ScoreResult{
		SLook:     sLook,
		SNovel:    sNovel,
		Contrast:  sLook - (1.0 - sNovel),
		NNAllIDs:  ids(all),
		NNHighIDs: ids(high),
	}, nil
}

func meanScore(results []index.Result) float64 {
	var sum float64
	for _, r := range results {
		sum += float64(r.Score)
	}
	return sum / float64(len(results))
}

func ids(results []index.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
