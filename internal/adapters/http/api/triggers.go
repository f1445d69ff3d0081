// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/readyrank/internal/domain/model"
)

// TriggersHandler handles recalculation trigger submissions.
type TriggersHandler struct {
	deps Dependencies
}

// NewTriggersHandler creates a new triggers handler.
func NewTriggersHandler(deps Dependencies) *TriggersHandler {
	return &TriggersHandler{deps: deps}
}

// HandlePostTrigger handles POST /triggers requests.
func (h *TriggersHandler) HandlePostTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	t := req.toTrigger()

	// Coalesce: if a trigger with the same effect is already pending,
	// acknowledge without enqueueing another copy.
	if h.deps.SeenAndRecord(r.Context(), t.CoalesceKey()) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), t); !ok {
		// Rollback the pending mark since enqueue failed.
		h.deps.Unrecord(r.Context(), t.CoalesceKey())
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}

// toTrigger builds a domain trigger, filling in an ID and timestamp when
// the caller omits them. validate has already run.
func (t triggerRequest) toTrigger() model.Trigger {
	id := t.TriggerID
	if id == "" {
		id = uuid.NewString()
	}
	ts := time.Now().UTC()
	if t.TS != "" {
		if parsed, err := time.Parse(time.RFC3339, t.TS); err == nil {
			ts = parsed
		}
	}
	return model.Trigger{
		ID:        id,
		Kind:      model.TriggerKind(t.Kind),
		StudentID: t.StudentID,
		JobID:     t.JobID,
		TS:        ts,
	}
}
