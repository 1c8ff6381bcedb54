// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// duplicateReason is the reason string returned for gated leads. Exact
// email match is the only duplicate rule.
const duplicateReason = "email_exact_match"

// ScoreHandler handles lead-scoring requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScoreLead handles POST /score requests.
func (h *ScoreHandler) HandleScoreLead(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_lead"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, duplicate, err := h.deps.ScoreLead(r.Context(), req.record())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scoring_failed", WrapKind(op, ErrScore, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, duplicateResponse{IsDuplicate: true, Reason: duplicateReason})
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		IsDuplicate: false,
		SLook:       result.SLook,
		SNovel:      result.SNovel,
		Contrast:    result.Contrast,
		NNAllIDs:    result.NNAllIDs,
		NNHighIDs:   result.NNHighIDs,
	})
}
