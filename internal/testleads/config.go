package testleads

import "time"

// Config holds configuration for the lead-scoring smoke test.
type Config struct {
	BaseURL        string        // Base URL of the scoring service
	NumLeads       int           // Number of synthetic leads to submit
	DuplicateRatio float64       // Fraction of leads reusing a known email
	KnownEmails    []string      // Emails expected to trip the duplicate gate
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	LogFile        string        // Log file for test output
	Verbose        bool          // Enable verbose logging
}

// Lead mirrors the POST /score request schema.
type Lead struct {
	CustomerID           string  `json:"customer_id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Industry             string  `json:"industry"`
	Country              string  `json:"country"`
	JobTitle             string  `json:"job_title"`
	Bio                  string  `json:"bio"`
	CompanySize          float64 `json:"company_size"`
	WebActivityScore     float64 `json:"web_activity_score"`
	EmailEngagementScore float64 `json:"email_engagement_score"`
}

// ScoreResponse mirrors the POST /score response for both outcomes.
type ScoreResponse struct {
	IsDuplicate bool     `json:"is_duplicate"`
	Reason      string   `json:"reason"`
	SLook       float64  `json:"S_look"`
	SNovel      float64  `json:"S_novel"`
	Contrast    float64  `json:"contrast"`
	NNAllIDs    []string `json:"nn_all_ids"`
	NNHighIDs   []string `json:"nn_high_ids"`
}

// Stats holds test statistics.
type Stats struct {
	LeadsGenerated     int
	LeadsSubmitted     int
	LeadsScored        int
	DuplicatesReported int
	Failed             int
	ContrastMin        float64
	ContrastMax        float64
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
