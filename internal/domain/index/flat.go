// Package index provides exact inner-product top-k search over
// unit-normalized vectors. Contents are built once in the offline batch step
// and are read-only on the serving path.
package index

import (
	"errors"
	"sort"
	"sync"
)

// Sentinel error kinds for this package.
var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Result is one search hit.
type Result struct {
	ID    string  // identifier supplied at Add time
	Score float32 // inner product with the query
}

// Flat is a brute-force inner-product index. Vectors are stored in insertion
// order; ties in score resolve to the earlier insertion, which keeps results
// reproducible without implying any further meaning.
//
// All vectors are expected to be unit-normalized by the caller, making the
// inner product equivalent to cosine similarity.
type Flat struct {
	dim int

	mu      sync.RWMutex
	ids     []string
	vectors [][]float32
}

// NewFlat creates an empty index for vectors of the given dimensionality.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

// Add appends vectors under the matching ids. Every vector must have the
// index dimensionality.
func (f *Flat) Add(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.New("ids and vectors length mismatch")
	}
	for _, vec := range vectors {
		if len(vec) != f.dim {
			return ErrDimensionMismatch
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, vec := range vectors {
		// Copy to protect against caller mutation.
		cp := make([]float32, len(vec))
		copy(cp, vec)
		f.ids = append(f.ids, ids[i])
		f.vectors = append(f.vectors, cp)
	}
	return nil
}

// Search returns the k highest inner-product matches for query, sorted by
// descending score. An empty index yields empty results, not an error; the
// caller treats zero rows as "no signal".
func (f *Flat) Search(query []float32, k int) ([]Result, error) {
	if len(query) != f.dim {
		return nil, ErrDimensionMismatch
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	if k <= 0 || len(f.vectors) == 0 {
		return []Result{}, nil
	}

	results := make([]Result, len(f.vectors))
	for i, vec := range f.vectors {
		var dot float32
		for j, v := range vec {
			dot += v * query[j]
		}
		results[i] = Result{ID: f.ids[i], Score: dot}
	}
	// Stable keeps insertion order among equal scores.
	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of indexed vectors.
func (f *Flat) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

// Dim returns the index dimensionality.
func (f *Flat) Dim() int { return f.dim }

// Snapshot copies out the index contents for persistence.
func (f *Flat) Snapshot() (ids []string, vectors [][]float32) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids = make([]string, len(f.ids))
	copy(ids, f.ids)
	vectors = make([][]float32, len(f.vectors))
	for i, vec := range f.vectors {
		cp := make([]float32, len(vec))
		copy(cp, vec)
		vectors[i] = cp
	}
	return ids, vectors
}
