package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
	"github.com/helios-ai/arbiter/pkg/race"
	"github.com/helios-ai/arbiter/pkg/routing"
)

// askRequest is the POST /v1/ask body.
type askRequest struct {
	TaskKind  string `json:"task_kind"`
	Prompt    string `json:"prompt"`
	Preferred string `json:"preferred_provider"`
	Online    bool   `json:"online_hint"`
}

// askResponse is the success body.
type askResponse struct {
	Content       string `json:"content"`
	TokensIn      int    `json:"tokens_in"`
	TokensOut     int    `json:"tokens_out"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	DurationMS    int64  `json:"duration_ms"`
	RoutingReason string `json:"routing_reason"`
	TaskKind      string `json:"task_kind"`
}

// errorResponse is the failure body. Attempts carries one entry per
// candidate so callers can tell "all providers down" from "one
// misconfigured override".
type errorResponse struct {
	Error         string             `json:"error"`
	Kind          string             `json:"error_kind,omitempty"`
	RoutingReason string             `json:"routing_reason,omitempty"`
	Attempts      []race.ErrorRecord `json:"attempts,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid request body",
			Kind:  string(providers.KindValidation),
		})
		return
	}

	taskReq := routing.TaskRequest{
		TaskKind:  routing.ParseTaskKind(req.TaskKind),
		Prompt:    req.Prompt,
		Preferred: req.Preferred,
		Online:    req.Online,
	}

	outcome, err := s.orch.Ask(r.Context(), taskReq)
	if err != nil {
		var validationErr *providers.ValidationError
		var unknownErr *routing.UnknownProviderError
		switch {
		case errors.As(err, &validationErr), errors.As(err, &unknownErr):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: err.Error(),
				Kind:  string(providers.KindValidation),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: err.Error(),
			})
		}
		return
	}

	if !outcome.Succeeded() {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:         "no provider produced a result",
			RoutingReason: outcome.RoutingReason,
			Attempts:      outcome.Errors,
		})
		return
	}

	result := outcome.Result
	writeJSON(w, http.StatusOK, askResponse{
		Content:       result.Content,
		TokensIn:      result.TokensIn,
		TokensOut:     result.TokensOut,
		Provider:      result.Provider.Name,
		Model:         result.Provider.Model,
		DurationMS:    outcome.Duration.Milliseconds(),
		RoutingReason: outcome.RoutingReason,
		TaskKind:      string(taskReq.TaskKind),
	})
}

// healthEntry is one provider's row in the health response.
type healthEntry struct {
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
	Model     string    `json:"model,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	snap := s.orch.Health(r.Context(), refresh)

	entries := make(map[string]healthEntry, len(snap.Records))
	for name, rec := range snap.Records {
		entries[name] = healthEntry{
			Status:    string(rec.Status),
			LatencyMS: rec.Latency.Milliseconds(),
			CheckedAt: rec.CheckedAt,
			Model:     rec.Model,
			LastError: rec.LastError,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"providers": entries,
		"taken_at":  snap.TakenAt,
	})
}

func (s *Server) handleRoutingRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rules": s.orch.RoutingRules(),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run history is disabled"})
		return
	}

	runs, err := s.store.Recent(r.Context(), 50)
	if err != nil {
		s.logger.Error("failed to load runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load runs"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
