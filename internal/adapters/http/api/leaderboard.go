// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/readyrank/internal/adapters/repository"
	"github.com/okian/readyrank/internal/domain/model"
)

// Default number of rows when the limit query parameter is omitted.
const defaultLeaderboardLimit = 10

// LeaderboardHandler handles global leaderboard reads.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	if maxLimit <= 0 {
		maxLimit = defaultLeaderboardLimit
	}
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

// leaderboardRow is one global leaderboard entry.
type leaderboardRow struct {
	StudentID    string    `json:"student_id"`
	Rank         int       `json:"rank"`
	Score        float64   `json:"score"`
	CalculatedAt time.Time `json:"calculated_at"`
}

type leaderboardResponse struct {
	Entries []leaderboardRow `json:"entries"`
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	entries, err := h.deps.TopN(r.Context(), limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardResponse(entries))
}

func toLeaderboardResponse(entries []model.RankingEntry) leaderboardResponse {
	rows := make([]leaderboardRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, leaderboardRow{
			StudentID:    e.StudentID,
			Rank:         e.Rank,
			Score:        e.Score,
			CalculatedAt: e.CalculatedAt,
		})
	}
	return leaderboardResponse{Entries: rows}
}
