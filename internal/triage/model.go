package triage

// Priority levels accepted for tickets.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// TimeFormat is the layout for created_at strings on tickets and invoices.
const TimeFormat = "2006-01-02 15:04"

// Ticket is a support ticket created by the create_ticket action.
// Tickets are append-only: once created they are never mutated or deleted.
type Ticket struct {
	ID        string `json:"id"`
	Summary   string `json:"summary"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Invoice is a billing record created by the generate_invoice action.
type Invoice struct {
	ID        string  `json:"id"`
	Client    string  `json:"client"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// CalendarEvent is one entry in the read-only calendar registry.
type CalendarEvent struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// Result is the outcome of a successful dispatch: the model's reasoning,
// which tool it selected, what the tool produced, and which candidate model
// answered. Total failures surface as errors, not Results.
type Result struct {
	Thought    *string `json:"thought"`
	ToolUsed   string  `json:"tool_used"`
	ToolOutput string  `json:"tool_output"`
	ModelUsed  string  `json:"model_used"`
}
