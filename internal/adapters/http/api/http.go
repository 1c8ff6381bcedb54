// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/okian/leadrank/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ScoreLead evaluates one candidate lead. duplicate is true when the
	// email gate matched, in which case the result is the zero value.
	ScoreLead(ctx context.Context, rec model.Record) (result model.ScoreResult, duplicate bool, err error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	scoreHandler  *ScoreHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		scoreHandler:  NewScoreHandler(deps),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScoreLead, "score"))
}

// leadRequest mirrors the OpenAPI schema for POST /score. Required fields
// are pointers so an absent key is distinguishable from a zero value.
type leadRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`

	Industry             *string  `json:"industry"`
	Country              *string  `json:"country"`
	JobTitle             *string  `json:"job_title"`
	Bio                  *string  `json:"bio"`
	CompanySize          *float64 `json:"company_size"`
	WebActivityScore     *float64 `json:"web_activity_score"`
	EmailEngagementScore *float64 `json:"email_engagement_score"`
}

func (l leadRequest) validate() error {
	present := map[string]bool{
		"industry":               l.Industry != nil,
		"country":                l.Country != nil,
		"job_title":              l.JobTitle != nil,
		"bio":                    l.Bio != nil,
		"company_size":           l.CompanySize != nil,
		"web_activity_score":     l.WebActivityScore != nil,
		"email_engagement_score": l.EmailEngagementScore != nil,
	}
	var missing []string
	for field, ok := range present {
		if !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// record converts a validated request into the domain record.
func (l leadRequest) record() model.Record {
	return model.Record{
		CustomerID:           l.CustomerID,
		Name:                 l.Name,
		Email:                l.Email,
		Industry:             *l.Industry,
		Country:              *l.Country,
		JobTitle:             *l.JobTitle,
		Bio:                  *l.Bio,
		CompanySize:          *l.CompanySize,
		WebActivityScore:     *l.WebActivityScore,
		EmailEngagementScore: *l.EmailEngagementScore,
	}
}

// duplicateResponse is returned when the email gate short-circuits.
type duplicateResponse struct {
	IsDuplicate bool   `json:"is_duplicate"`
	Reason      string `json:"reason"`
}

// scoreResponse carries the three signals plus neighbor ids.
type scoreResponse struct {
	IsDuplicate bool     `json:"is_duplicate"`
	SLook       float64  `json:"S_look"`
	SNovel      float64  `json:"S_novel"`
	Contrast    float64  `json:"contrast"`
	NNAllIDs    []string `json:"nn_all_ids"`
	NNHighIDs   []string `json:"nn_high_ids"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// NewKind annotates a sentinel error with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind annotates a sentinel error with the operation and the cause.
func WrapKind(op string, kind error, cause error) error {
	if cause == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}
