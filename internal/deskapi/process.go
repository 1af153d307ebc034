package deskapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rupak-Mallick/Smart-Triage-Agent-with-ADK/internal/triage"
)

type processRequest struct {
	Message string `json:"message"`
	APIKey  string `json:"api_key"`
}

type processResponse struct {
	Result  *triage.Result  `json:"result"`
	Tickets []triage.Ticket `json:"tickets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if req.APIKey == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing API Key"})
		return
	}

	result, err := a.svc.Dispatch(r.Context(), req.Message, req.APIKey)
	if err != nil {
		if errors.Is(err, triage.ErrMissingCredential) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing API Key"})
			return
		}
		// exhausted candidates and friends: the error string is the envelope
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("triage.tool", result.ToolUsed),
		attribute.String("triage.model", result.ModelUsed),
	)

	writeJSON(w, http.StatusOK, processResponse{
		Result:  result,
		Tickets: reverseTickets(a.svc.Tickets()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
