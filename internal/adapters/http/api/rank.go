// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RankHandler handles global rank lookups.
type RankHandler struct {
	deps Dependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps Dependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// rankResponse is the GET /students/{id}/rank response body. Rank and
// percentile are null for unranked students.
type rankResponse struct {
	StudentID     string  `json:"student_id"`
	Rank          *int    `json:"rank"`
	Score         float64 `json:"score"`
	TotalEligible int     `json:"total_eligible"`
	Percentile    *int    `json:"percentile"`
}

// HandleGetRank handles GET /students/{id}/rank requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := studentIDFromPath(r.URL.Path, "rank")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	gr, err := h.deps.GetStudentGlobalRank(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{
		StudentID:     id,
		Rank:          gr.Rank,
		Score:         gr.Score,
		TotalEligible: gr.TotalEligible,
		Percentile:    gr.Percentile,
	})
}
