package deskapi

import (
	"net/http"

	"github.com/Rupak-Mallick/Smart-Triage-Agent-with-ADK/internal/triage"
)

type dashboardData struct {
	Tickets []triage.Ticket
}

// handleDashboard renders the ticket registry newest-first. No side effects.
func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{
		Tickets: reverseTickets(a.svc.Tickets()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.index.Execute(w, data); err != nil {
		a.logger.Error(r.Context(), err, "render dashboard")
	}
}
