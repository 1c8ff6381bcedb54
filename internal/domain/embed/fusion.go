package embed

import (
	"fmt"
	"math"
)

// normEpsilon floors the L2 denominator so zero vectors normalize to zero
// instead of NaN.
const normEpsilon = 1e-12

// Fuse concatenates the text and tabular embeddings per record, text columns
// first, and L2-normalizes each fused row. The text-then-tabular order is a
// load-bearing contract shared with the index build.
func Fuse(text, tabular [][]float32) ([][]float32, error) {
	if len(text) != len(tabular) {
		return nil, fmt.Errorf("%w: %d text rows vs %d tabular rows", ErrDimMismatch, len(text), len(tabular))
	}
	fused := make([][]float32, len(text))
	for i := range text {
		row := make([]float32, 0, len(text[i])+len(tabular[i]))
		row = append(row, text[i]...)
		row = append(row, tabular[i]...)
		l2Normalize(row)
		fused[i] = row
	}
	return fused, nil
}

// l2Normalize scales row to unit L2 norm in place, substituting normEpsilon
// for norms at or below it.
func l2Normalize(row []float32) {
	var sum float64
	for _, v := range row {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm <= normEpsilon {
		norm = normEpsilon
	}
	inv := float32(1 / norm)
	for i := range row {
		row[i] *= inv
	}
}
