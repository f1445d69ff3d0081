// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// RankingsHandler handles synchronous ranking rebuild requests.
type RankingsHandler struct {
	deps Dependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandlePostGlobal handles POST /rankings/global requests.
func (h *RankingsHandler) HandlePostGlobal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	ranked := h.deps.RecalculateGlobalRankings(r.Context())
	writeJSON(w, http.StatusOK, countResponse{Ranked: ranked})
}

// HandlePostJob handles POST /jobs/{id}/rankings requests. An unknown job
// yields an empty rebuild rather than an error.
func (h *RankingsHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id := strings.TrimSuffix(rest, "/rankings")
	if id == rest || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	ranked, err := h.deps.RecalculateJobRankings(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Ranked: ranked})
}
