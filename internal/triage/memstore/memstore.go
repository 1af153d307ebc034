// Package memstore provides the in-memory implementation of triage.Store.
package memstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/Rupak-Mallick/Smart-Triage-Agent-with-ADK/internal/triage"
)

// ID suffixes count up from these bases as the registries grow.
const (
	ticketIDBase  = 101
	invoiceIDBase = 1001
)

// Store holds tickets, invoices and the calendar in memory. State lives for
// the process lifetime; the mutex keeps length-derived IDs unique under
// concurrent requests.
type Store struct {
	mu       sync.RWMutex
	tickets  []triage.Ticket
	invoices []triage.Invoice
	calendar []triage.CalendarEvent

	now func() time.Time
}

// New initializes a Store with the seeded calendar entries.
func New() *Store {
	return &Store{
		calendar: []triage.CalendarEvent{
			{Time: "2023-10-27 10:00", Event: "Team Standup"},
			{Time: "2023-10-27 14:00", Event: "Client Call"},
		},
		now: time.Now,
	}
}

// CreateTicket appends a new ticket and returns a copy of it.
func (s *Store) CreateTicket(summary, priority string) triage.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := triage.Ticket{
		ID:        fmt.Sprintf("TICK-%d", len(s.tickets)+ticketIDBase),
		Summary:   summary,
		Priority:  priority,
		Status:    "Open",
		CreatedAt: s.now().Format(triage.TimeFormat),
	}
	s.tickets = append(s.tickets, t)
	return t
}

// CreateInvoice appends a new invoice and returns a copy of it.
func (s *Store) CreateInvoice(client string, amount float64) triage.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := triage.Invoice{
		ID:        fmt.Sprintf("INV-%d", len(s.invoices)+invoiceIDBase),
		Client:    client,
		Amount:    amount,
		Status:    "Sent",
		CreatedAt: s.now().Format(triage.TimeFormat),
	}
	s.invoices = append(s.invoices, inv)
	return inv
}

// Tickets returns a copy of the ticket registry in insertion order.
func (s *Store) Tickets() []triage.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]triage.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Invoices returns a copy of the invoice registry in insertion order.
func (s *Store) Invoices() []triage.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]triage.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// CalendarEvents returns a copy of the seeded calendar.
func (s *Store) CalendarEvents() []triage.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]triage.CalendarEvent, len(s.calendar))
	copy(out, s.calendar)
	return out
}
