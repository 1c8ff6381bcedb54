package embed

import (
	"fmt"
)

// TabularParams is the frozen state of a fitted TabularEmbedder, in the shape
// persisted to the artifact bundle.
type TabularParams struct {
	Mean       []float64   `msgpack:"mean"`
	Std        []float64   `msgpack:"std"`
	Components [][]float64 `msgpack:"components"` // one eigenvector per row
	Requested  int         `msgpack:"requested"`
}

// TabularEmbedder standardizes the tabular feature matrix column-wise and
// projects it onto the top principal components of the fitting population.
// Statistics are learned once by Fit and never recomputed from query data.
type TabularEmbedder struct {
	requested  int
	mean       []float64
	std        []float64
	components [][]float64
}

// NewTabularEmbedder creates an unfitted embedder targeting at most
// nComponents output dimensions. The effective count is capped at the input
// feature dimensionality when Fit runs.
func NewTabularEmbedder(nComponents int) *TabularEmbedder {
	return &TabularEmbedder{requested: nComponents}
}

// RestoreTabularEmbedder rebuilds a fitted embedder from persisted params.
func RestoreTabularEmbedder(p TabularParams) *TabularEmbedder {
	return &TabularEmbedder{
		requested:  p.Requested,
		mean:       p.Mean,
		std:        p.Std,
		components: p.Components,
	}
}

// Params exposes the frozen state for persistence.
func (t *TabularEmbedder) Params() TabularParams {
	return TabularParams{
		Mean:       t.mean,
		Std:        t.std,
		Components: t.components,
		Requested:  t.requested,
	}
}

// Fitted reports whether Fit has run (or state was restored).
func (t *TabularEmbedder) Fitted() bool { return t.components != nil }

// Components returns the effective output dimensionality, decided at fit
// time as min(requested, feature count) and frozen thereafter.
func (t *TabularEmbedder) Components() int { return len(t.components) }

// Fit learns per-column mean/std and the principal-component projection from
// the reference matrix. Requesting more components than available features is
// not an error; the count is reduced to match.
func (t *TabularEmbedder) Fit(matrix [][]float64) error {
	n := len(matrix)
	if n == 0 || len(matrix[0]) == 0 {
		return ErrEmptyFit
	}
	d := len(matrix[0])

	t.mean = make([]float64, d)
	t.std = make([]float64, d)
	for _, row := range matrix {
		if len(row) != d {
			return fmt.Errorf("%w: ragged fit matrix", ErrDimMismatch)
		}
		for j, v := range row {
			t.mean[j] += v
		}
	}
	for j := range t.mean {
		t.mean[j] /= float64(n)
	}
	for _, row := range matrix {
		for j, v := range row {
			dev := v - t.mean[j]
			t.std[j] += dev * dev
		}
	}
	for j := range t.std {
		t.std[j] = sqrt(t.std[j] / float64(n))
		// Constant columns standardize to zero rather than dividing by zero.
		if t.std[j] == 0 {
			t.std[j] = 1
		}
	}

	standardized := make([][]float64, n)
	for i, row := range matrix {
		z := make([]float64, d)
		for j, v := range row {
			z[j] = (v - t.mean[j]) / t.std[j]
		}
		standardized[i] = z
	}

	nComp := t.requested
	if nComp > d {
		nComp = d
	}
	if nComp <= 0 {
		nComp = d
	}
	t.components = principalComponents(standardized, nComp)
	return nil
}

// Transform applies the frozen standardization and projection. The input must
// have the fit-time feature dimensionality.
func (t *TabularEmbedder) Transform(matrix [][]float64) ([][]float32, error) {
	if !t.Fitted() {
		return nil, ErrNotFitted
	}
	d := len(t.mean)
	out := make([][]float32, len(matrix))
	for i, row := range matrix {
		if len(row) != d {
			return nil, fmt.Errorf("%w: row %d has %d features, fitted on %d", ErrDimMismatch, i, len(row), d)
		}
		z := make([]float64, d)
		for j, v := range row {
			z[j] = (v - t.mean[j]) / t.std[j]
		}
		e := make([]float32, len(t.components))
		for c, comp := range t.components {
			var dot float64
			for j, w := range comp {
				dot += z[j] * w
			}
			e[c] = float32(dot)
		}
		out[i] = e
	}
	return out, nil
}
