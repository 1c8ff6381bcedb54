// Package model contains domain models passed between layers.
package model

// Canonical column names for the reference dataset. The feature schema is
// expressed in terms of these names; a schema may reference a subset or, for
// forward compatibility, names this record type does not carry.
const (
	ColJobTitle             = "job_title"
	ColBio                  = "bio"
	ColIndustry             = "industry"
	ColCountry              = "country"
	ColCompanySize          = "company_size"
	ColWebActivityScore     = "web_activity_score"
	ColEmailEngagementScore = "email_engagement_score"
)

// Record is one lead or reference customer. Optional fields default to the
// zero value; numeric computation never sees nulls.
type Record struct {
	CustomerID string // stable identifier within the reference population
	Name       string // optional
	Email      string // optional, raw (normalization happens at the edges)

	Industry string
	Country  string

	JobTitle string
	Bio      string

	CompanySize          float64
	WebActivityScore     float64
	EmailEngagementScore float64

	// IsHighValue is meaningful for reference-population records only.
	IsHighValue bool
}

// Text returns the named free-text column, or "" for unknown columns.
func (r Record) Text(col string) string {
	switch col {
	case ColJobTitle:
		return r.JobTitle
	case ColBio:
		return r.Bio
	default:
		return ""
	}
}

// Categorical returns the named categorical column, or "" for unknown columns.
func (r Record) Categorical(col string) string {
	switch col {
	case ColIndustry:
		return r.Industry
	case ColCountry:
		return r.Country
	default:
		return ""
	}
}

// Numeric returns the named numeric column, or 0 for unknown columns.
func (r Record) Numeric(col string) float64 {
	switch col {
	case ColCompanySize:
		return r.CompanySize
	case ColWebActivityScore:
		return r.WebActivityScore
	case ColEmailEngagementScore:
		return r.EmailEngagementScore
	default:
		return 0
	}
}

// ScoreResult is the per-query scoring output. It is computed per request and
// never persisted.
type ScoreResult struct {
	SLook    float64 // mean top-k similarity against the high-value index
	SNovel   float64 // 1 - mean top-k similarity against the full index
	Contrast float64 // SLook - (1 - SNovel)

	// Neighbor ids from both searches, for explainability.
	NNAllIDs  []string
	NNHighIDs []string
}
