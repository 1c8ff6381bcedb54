package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// hashedEncoder is the degraded text path: a hashed bag-of-words into a fixed
// dimensionality, L2-normalized per row. It carries no learned state, so it
// is always constructible, which keeps service startup possible when no
// pretrained model is reachable.
type hashedEncoder struct {
	dim int
}

func newHashedEncoder(dim int) *hashedEncoder {
	return &hashedEncoder{dim: dim}
}

func (e *hashedEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	rows := make([][]float32, len(texts))
	for i, text := range texts {
		row := make([]float32, e.dim)
		for _, token := range tokenize(text) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(token))
			row[h.Sum32()%uint32(e.dim)]++
		}
		// Zero-norm rows stay zero vectors instead of dividing by zero.
		l2Normalize(row)
		rows[i] = row
	}
	return rows, nil
}

func (e *hashedEncoder) Dim() int          { return e.dim }
func (e *hashedEncoder) Variant() Variant  { return VariantHashed }
func (e *hashedEncoder) ModelName() string { return "hashed-bow" }

// tokenize lowercases and splits on any non-letter, non-digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
