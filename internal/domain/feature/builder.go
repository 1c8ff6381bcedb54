package feature

import (
	"errors"
	"sort"
	"strings"

	"github.com/okian/leadrank/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrNotFitted = errors.New("feature builder not fitted")
)

// FrequencyTable maps a categorical value to its relative frequency within
// the population the table was fitted on. Unseen values encode to 0.
type FrequencyTable map[string]float64

// Builder produces text blobs and the tabular feature matrix for a record
// set. Frequency encoders are fitted once on the reference population and
// frozen; query-time transforms reuse the frozen tables.
type Builder struct {
	schema   Schema
	encoders map[string]FrequencyTable
}

// NewBuilder creates an unfitted Builder for the given schema.
func NewBuilder(schema Schema) *Builder {
	return &Builder{schema: schema}
}

// NewFittedBuilder restores a Builder from previously fitted encoder tables,
// as loaded from the artifact bundle.
func NewFittedBuilder(schema Schema, encoders map[string]FrequencyTable) *Builder {
	if encoders == nil {
		encoders = make(map[string]FrequencyTable)
	}
	return &Builder{schema: schema, encoders: encoders}
}

// Schema returns the ordered column-role configuration.
func (b *Builder) Schema() Schema { return b.schema }

// Fit builds one frequency table per configured categorical column. Absent
// columns are treated as an all-empty-string column, so they fit to {"" : 1}.
func (b *Builder) Fit(records []model.Record) {
	b.encoders = make(map[string]FrequencyTable, len(b.schema.Categorical))
	for _, col := range b.schema.Categorical {
		counts := make(map[string]int)
		for _, r := range records {
			counts[r.Categorical(col)]++
		}
		total := len(records)
		if total == 0 {
			total = 1
		}
		table := make(FrequencyTable, len(counts))
		for v, c := range counts {
			table[v] = float64(c) / float64(total)
		}
		b.encoders[col] = table
	}
}

// Fitted reports whether encoder tables are available.
func (b *Builder) Fitted() bool { return b.encoders != nil }

// Encoders exposes the frozen frequency tables for persistence.
func (b *Builder) Encoders() map[string]FrequencyTable { return b.encoders }

// CategoricalValues lists the distinct values seen per column at fit time,
// sorted for deterministic metadata.
func (b *Builder) CategoricalValues() map[string][]string {
	out := make(map[string][]string, len(b.encoders))
	for col, table := range b.encoders {
		values := make([]string, 0, len(table))
		for v := range table {
			values = append(values, v)
		}
		sort.Strings(values)
		out[col] = values
	}
	return out
}

// TextBlobs joins the configured text columns into one blob per record.
// The canonical (job_title, bio) pair uses the dedicated "title. bio" join;
// any other configuration joins non-empty parts with ". ".
func (b *Builder) TextBlobs(records []model.Record) []string {
	blobs := make([]string, len(records))
	canonical := b.schema.hasCanonicalTextPair()
	for i, r := range records {
		if canonical {
			blobs[i] = strings.TrimSpace(r.Text(model.ColJobTitle) + ". " + r.Text(model.ColBio))
			continue
		}
		parts := make([]string, 0, len(b.schema.Text))
		for _, col := range b.schema.Text {
			if v := strings.TrimSpace(r.Text(col)); v != "" {
				parts = append(parts, v)
			}
		}
		blobs[i] = strings.Join(parts, ". ")
	}
	return blobs
}

// Transform produces the feature matrix for records using the frozen
// encoders: categorical encodings in schema order, then numeric columns in
// schema order. Unseen categorical values encode to 0.
func (b *Builder) Transform(records []model.Record) ([][]float64, error) {
	if !b.Fitted() {
		return nil, ErrNotFitted
	}
	dim := b.schema.FeatureDim()
	matrix := make([][]float64, len(records))
	for i, r := range records {
		row := make([]float64, 0, dim)
		for _, col := range b.schema.Categorical {
			row = append(row, b.encoders[col][r.Categorical(col)])
		}
		for _, col := range b.schema.Numeric {
			row = append(row, r.Numeric(col))
		}
		matrix[i] = row
	}
	return matrix, nil
}

// FitTransform fits the encoders on records and returns their matrix.
func (b *Builder) FitTransform(records []model.Record) [][]float64 {
	b.Fit(records)
	matrix, _ := b.Transform(records)
	return matrix
}
