package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tool is the closed set of actions the model may select. Keeping this an
// enum with exhaustive switches means a new tool that is not wired into
// execution fails to compile rather than silently falling through.
type Tool int

const (
	ToolCreateTicket Tool = iota
	ToolCheckCalendar
	ToolGenerateInvoice
	ToolSendReply
)

// Wire names as the model emits them.
const (
	nameCreateTicket    = "create_ticket"
	nameCheckCalendar   = "check_calendar"
	nameGenerateInvoice = "generate_invoice"
	nameSendReply       = "send_reply"
)

// ErrInvalidArguments marks a tool invocation whose required arguments are
// missing. It degrades to a descriptive tool output, never an HTTP error.
var ErrInvalidArguments = errors.New("invalid arguments")

// ParseTool maps a wire name to a Tool. The second return is false for
// names the dispatcher does not recognize.
func ParseTool(name string) (Tool, bool) {
	switch name {
	case nameCreateTicket:
		return ToolCreateTicket, true
	case nameCheckCalendar:
		return ToolCheckCalendar, true
	case nameGenerateInvoice:
		return ToolGenerateInvoice, true
	case nameSendReply:
		return ToolSendReply, true
	default:
		return 0, false
	}
}

// String returns the wire name of the tool.
func (t Tool) String() string {
	switch t {
	case ToolCreateTicket:
		return nameCreateTicket
	case ToolCheckCalendar:
		return nameCheckCalendar
	case ToolGenerateInvoice:
		return nameGenerateInvoice
	case ToolSendReply:
		return nameSendReply
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// Args carries the union of arguments across all four tools. The model
// sends them as a JSON object; absent fields stay zero.
type Args struct {
	Summary    string   `json:"summary"`
	Priority   string   `json:"priority"`
	ClientName string   `json:"client_name"`
	Amount     *float64 `json:"amount"`
	DateStr    string   `json:"date_str"`
	Message    string   `json:"message"`
}

// Execute runs the selected tool against the store and returns its
// human-readable confirmation string.
func Execute(tool Tool, args Args, store Store) (string, error) {
	switch tool {
	case ToolCreateTicket:
		return createTicket(args, store)
	case ToolCheckCalendar:
		return checkCalendar(args, store)
	case ToolGenerateInvoice:
		return generateInvoice(args, store)
	case ToolSendReply:
		return sendReply(args)
	default:
		return "", fmt.Errorf("unhandled tool %v", tool)
	}
}

func createTicket(args Args, store Store) (string, error) {
	if args.Summary == "" {
		return "", fmt.Errorf("%w: summary is required", ErrInvalidArguments)
	}
	priority, err := normalizePriority(args.Priority)
	if err != nil {
		return "", err
	}
	t := store.CreateTicket(args.Summary, priority)
	return fmt.Sprintf("Ticket created successfully. ID: %s", t.ID), nil
}

func generateInvoice(args Args, store Store) (string, error) {
	if args.ClientName == "" {
		return "", fmt.Errorf("%w: client_name is required", ErrInvalidArguments)
	}
	if args.Amount == nil {
		return "", fmt.Errorf("%w: amount is required", ErrInvalidArguments)
	}
	inv := store.CreateInvoice(args.ClientName, *args.Amount)
	return fmt.Sprintf("Invoice generated for %s for $%s. ID: %s",
		inv.Client, formatAmount(inv.Amount), inv.ID), nil
}

// checkCalendar is read-only. The date_str argument is accepted but not
// used for filtering; filtering semantics are unspecified.
func checkCalendar(_ Args, store Store) (string, error) {
	events := store.CalendarEvents()
	if len(events) == 0 {
		return "Calendar is completely free.", nil
	}
	b, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("marshal calendar: %w", err)
	}
	return fmt.Sprintf("Existing events: %s", b), nil
}

func sendReply(args Args) (string, error) {
	if args.Message == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidArguments)
	}
	return fmt.Sprintf("Reply sent: '%s'", args.Message), nil
}

// normalizePriority defaults to Medium and folds case so "high" and "High"
// both land on the enum value.
func normalizePriority(p string) (string, error) {
	switch strings.ToLower(p) {
	case "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: priority %q (want Low, Medium or High)", ErrInvalidArguments, p)
	}
}

// formatAmount renders an amount the shortest way that round-trips, so
// whole-dollar amounts print without a decimal point.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
