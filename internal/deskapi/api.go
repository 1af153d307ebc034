// Package deskapi exposes the triage agent over HTTP: a ticket dashboard
// and the message-processing endpoint.
package deskapi

import (
	"context"
	"embed"
	"html/template"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/Rupak-Mallick/Smart-Triage-Agent-with-ADK/internal/triage"
)

//go:embed templates/index.html
var templateFS embed.FS

// DispatchService defines the business operations deskapi needs.
type DispatchService interface {
	Dispatch(ctx context.Context, message, apiKey string) (*triage.Result, error)
	Tickets() []triage.Ticket
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    DispatchService
	index  *template.Template
}

// New creates a new API handler.
func New(logger log.Logger, svc DispatchService) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("dispatch service is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
		index:  template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/", a.handleDashboard)
	r.Post("/process", a.handleProcess)
}

// reverseTickets returns the registry newest-first for responses.
func reverseTickets(tickets []triage.Ticket) []triage.Ticket {
	out := make([]triage.Ticket, len(tickets))
	for i, t := range tickets {
		out[len(tickets)-1-i] = t
	}
	return out
}
