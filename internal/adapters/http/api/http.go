// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/readyrank/internal/adapters/repository"
	"github.com/okian/readyrank/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	// Trigger coalescing and submission.
	SeenAndRecord(ctx context.Context, key string) bool
	Unrecord(ctx context.Context, key string)
	Enqueue(ctx context.Context, t model.Trigger) bool

	// Synchronous engine operations.
	RecalculateScore(ctx context.Context, studentID string) (model.ScoreBreakdown, error)
	RecalculateGlobalRankings(ctx context.Context) int
	RecalculateJobRankings(ctx context.Context, jobID string) (int, error)
	GetStudentGlobalRank(ctx context.Context, studentID string) (model.GlobalRank, error)
	ScoreLabel(score float64) string
	ReadinessClassification(score float64) string

	// Read operations.
	TopN(ctx context.Context, n int) ([]model.RankingEntry, error)
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	triggersHandler    *TriggersHandler
	scoreHandler       *ScoreHandler
	rankHandler        *RankHandler
	leaderboardHandler *LeaderboardHandler
	rankingsHandler    *RankingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		triggersHandler:    NewTriggersHandler(deps),
		scoreHandler:       NewScoreHandler(deps),
		rankHandler:        NewRankHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankingsHandler:    NewRankingsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/triggers", MetricsMiddleware(s.triggersHandler.HandlePostTrigger, "triggers"))
	mux.HandleFunc("/students/", MetricsMiddleware(s.handleStudent, "students"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rankings/global", MetricsMiddleware(s.rankingsHandler.HandlePostGlobal, "rankings_global"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.rankingsHandler.HandlePostJob, "rankings_job"))
}

// handleStudent dispatches /students/{id}/score and /students/{id}/rank.
func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/students/")
	switch {
	case strings.HasSuffix(rest, "/score"):
		s.scoreHandler.HandlePostScore(w, r)
	case strings.HasSuffix(rest, "/rank"):
		s.rankHandler.HandleGetRank(w, r)
	default:
		http.NotFound(w, r)
	}
}

// studentIDFromPath extracts the {id} segment from /students/{id}/{action}.
func studentIDFromPath(path, action string) string {
	rest := strings.TrimPrefix(path, "/students/")
	id := strings.TrimSuffix(rest, "/"+action)
	if id == rest || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// triggerRequest mirrors the POST /triggers payload.
type triggerRequest struct {
	TriggerID string `json:"trigger_id"`
	Kind      string `json:"kind"`
	StudentID string `json:"student_id"`
	JobID     string `json:"job_id"`
	TS        string `json:"ts"`
}

func (t triggerRequest) validate() error {
	switch model.TriggerKind(t.Kind) {
	case model.TriggerScore:
		if strings.TrimSpace(t.StudentID) == "" {
			return errors.New("missing student_id")
		}
	case model.TriggerJob:
		if strings.TrimSpace(t.JobID) == "" {
			return errors.New("missing job_id")
		}
	case model.TriggerGlobal:
		// no payload beyond the kind
	default:
		return errors.New("invalid kind; must be score, global, or job")
	}
	if t.TS != "" {
		if _, err := time.Parse(time.RFC3339, t.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type countResponse struct {
	Ranked int `json:"ranked"`
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

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
