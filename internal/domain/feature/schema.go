// Package feature turns record sets into the numeric matrix and text blobs
// consumed by the embedding layer.
package feature

import "github.com/okian/leadrank/internal/domain/model"

// Schema is the ordered column-role configuration. Column order is load
// bearing: the fitted standardizer and projection depend on it, so the same
// schema value must be used at fit and transform time.
type Schema struct {
	Text        []string `koanf:"text"`
	Categorical []string `koanf:"categorical"`
	Numeric     []string `koanf:"numeric"`
}

// DefaultSchema mirrors the canonical reference-population layout.
func DefaultSchema() Schema {
	return Schema{
		Text:        []string{model.ColJobTitle, model.ColBio},
		Categorical: []string{model.ColIndustry, model.ColCountry},
		Numeric:     []string{model.ColCompanySize, model.ColWebActivityScore, model.ColEmailEngagementScore},
	}
}

// FeatureDim is the width of the tabular feature matrix: one encoded scalar
// per categorical column followed by the raw numeric columns.
func (s Schema) FeatureDim() int {
	return len(s.Categorical) + len(s.Numeric)
}

// hasCanonicalTextPair reports whether the text columns are exactly the
// canonical (job_title, bio) pair, which uses the dedicated blob join.
func (s Schema) hasCanonicalTextPair() bool {
	return len(s.Text) == 2 && s.Text[0] == model.ColJobTitle && s.Text[1] == model.ColBio
}
