package triage

// Store holds the registry state the action tools operate on. Tickets and
// invoices are append-only with IDs derived from registry length; the
// calendar is seeded at construction and never written.
type Store interface {
	CreateTicket(summary, priority string) Ticket
	CreateInvoice(client string, amount float64) Invoice
	Tickets() []Ticket
	CalendarEvents() []CalendarEvent
}
