// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/okian/readyrank/internal/domain/model"
)

// ScoreHandler handles synchronous score recomputation requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreResponse is the POST /students/{id}/score response body.
type scoreResponse struct {
	StudentID         string             `json:"student_id"`
	Components        map[string]int     `json:"components"`
	Weights           map[string]float64 `json:"weights"`
	Total             float64            `json:"total"`
	ProfileCompletion int                `json:"profile_completion"`
	Label             string             `json:"label"`
	Classification    string             `json:"classification"`
	CalculatedAt      time.Time          `json:"calculated_at"`
}

// HandlePostScore handles POST /students/{id}/score requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id := studentIDFromPath(r.URL.Path, "score")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	bd, err := h.deps.RecalculateScore(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponse(bd, h.deps))
}

func toScoreResponse(bd model.ScoreBreakdown, deps Dependencies) scoreResponse {
	components := make(map[string]int, len(bd.Components))
	for c, v := range bd.Components {
		components[string(c)] = v
	}
	weights := make(map[string]float64, len(bd.Weights))
	for c, v := range bd.Weights {
		weights[string(c)] = v
	}
	return scoreResponse{
		StudentID:         bd.StudentID,
		Components:        components,
		Weights:           weights,
		Total:             bd.Total,
		ProfileCompletion: bd.ProfileCompletion,
		Label:             deps.ScoreLabel(bd.Total),
		Classification:    deps.ReadinessClassification(bd.Total),
		CalculatedAt:      bd.CalculatedAt,
	}
}
