package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/events"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/store"
	"github.com/aristath/bourseiq/internal/workflow"
)

type threadHandlers struct {
	graph       *workflow.Graph
	checkpoints *store.Checkpointer
	events      *events.Manager
	log         zerolog.Logger
}

type analyzeRequest struct {
	Message string `json:"message"`
}

type threadResponse struct {
	ThreadID  string         `json:"thread_id"`
	Completed []string       `json:"completed"`
	Interrupt *interruptView `json:"interrupt,omitempty"`
	State     map[string]any `json:"state,omitempty"`
}

type interruptView struct {
	NodeID  string `json:"node_id"`
	Payload any    `json:"payload"`
}

// handleAnalyze starts a new analysis thread from a free-text user message,
// runs the graph to completion or to its first interrupt, and persists a
// checkpoint so a paused thread can be resumed later.
func (h *threadHandlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	threadID := uuid.New().String()
	h.events.Emit(events.DocumentRefreshStarted, "server", map[string]interface{}{"thread_id": threadID})

	result, err := workflow.Execute(r.Context(), h.graph, map[string]any{
		nodes.KeyUserMessage: req.Message,
	})
	if err != nil {
		h.events.EmitError("server", err, map[string]interface{}{"thread_id": threadID})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondResult(w, threadID, result)
}

// handleState returns the persisted checkpoint for a paused or completed
// thread.
func (h *threadHandlers) handleState(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	snap, ok, err := h.checkpoints.Load(r.Context(), threadID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "thread not found", http.StatusNotFound)
		return
	}

	resp := threadResponse{ThreadID: threadID, Completed: snap.Completed, State: snap.State}
	if snap.Interrupt != nil {
		resp.Interrupt = &interruptView{NodeID: snap.Interrupt.NodeID, Payload: snap.Interrupt.Payload}
	}
	writeJSON(w, http.StatusOK, resp)
}

type resumeRequest struct {
	Message string `json:"message"`
}

// handleResume re-enters a paused thread: the checkpoint is loaded, the
// human's reply is merged into state under KeyUserMessage, and the graph
// resumes from the interrupted node.
func (h *threadHandlers) handleResume(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, ok, err := h.checkpoints.Load(r.Context(), threadID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "thread not found", http.StatusNotFound)
		return
	}
	if snap.Interrupt == nil {
		http.Error(w, "thread is not paused", http.StatusConflict)
		return
	}
	snap.ThreadID = threadID

	result, err := workflow.Resume(r.Context(), h.graph, snap, workflow.Fragment{nodes.KeyUserMessage: req.Message})
	if err != nil {
		h.events.EmitError("server", err, map[string]interface{}{"thread_id": threadID})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondResult(w, threadID, result)
}

// respondResult checkpoints result (whether the run paused or completed)
// and writes the HTTP response, emitting the matching lifecycle event.
func (h *threadHandlers) respondResult(w http.ResponseWriter, threadID string, result *workflow.Result) {
	snap := workflow.Snapshot{ThreadID: threadID, Completed: result.Completed, State: result.State.Snapshot(), Interrupt: result.Interrupt}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.checkpoints.Save(ctx, snap); err != nil {
		h.log.Error().Err(err).Str("thread_id", threadID).Msg("failed to save checkpoint")
	}

	resp := threadResponse{ThreadID: threadID, Completed: result.Completed}
	if result.Interrupt != nil {
		resp.Interrupt = &interruptView{NodeID: result.Interrupt.NodeID, Payload: result.Interrupt.Payload}
		h.events.Emit(events.NodeInterrupt, "server", map[string]interface{}{"thread_id": threadID, "node_id": result.Interrupt.NodeID})
	} else {
		resp.State = snap.State
		h.events.Emit(events.DocumentRefreshCompleted, "server", map[string]interface{}{"thread_id": threadID})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
