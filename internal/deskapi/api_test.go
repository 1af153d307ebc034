package deskapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"

	"github.com/Rupak-Mallick/Smart-Triage-Agent-with-ADK/internal/triage"
)

// fakeService scripts Dispatch results for handler tests.
type fakeService struct {
	result  *triage.Result
	err     error
	tickets []triage.Ticket

	gotMessage string
	gotKey     string
}

func (f *fakeService) Dispatch(_ context.Context, message, apiKey string) (*triage.Result, error) {
	f.gotMessage = message
	f.gotKey = apiKey
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeService) Tickets() []triage.Ticket { return f.tickets }

func newTestRouter(t *testing.T, svc *fakeService) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	New(log.Nop(), svc).RegisterRoutes(r)
	return r
}

func strptr(s string) *string { return &s }

func TestNew_NilService_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New(nil, nil) did not panic; expected panic for nil service")
		}
	}()
	New(nil, nil)
}

func TestProcess_MissingAPIKey(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(`{"message":"book a demo"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Missing API Key"}` {
		t.Errorf("body = %q, want %q", got, `{"error":"Missing API Key"}`)
	}
}

func TestProcess_InvalidPayload(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(`{bad`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcess_Success(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		result: &triage.Result{
			Thought:    strptr("needs a ticket"),
			ToolUsed:   "create_ticket",
			ToolOutput: "Ticket created successfully. ID: TICK-101",
			ModelUsed:  "gemini-2.5-flash",
		},
		tickets: []triage.Ticket{
			{ID: "TICK-101", Summary: "older", Priority: "Medium", Status: "Open"},
			{ID: "TICK-102", Summary: "newer", Priority: "High", Status: "Open"},
		},
	}
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/process",
		strings.NewReader(`{"message":"my login is broken","api_key":"key-123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if svc.gotMessage != "my login is broken" || svc.gotKey != "key-123" {
		t.Errorf("service got (%q, %q)", svc.gotMessage, svc.gotKey)
	}

	var resp struct {
		Result struct {
			Thought    *string `json:"thought"`
			ToolUsed   string  `json:"tool_used"`
			ToolOutput string  `json:"tool_output"`
			ModelUsed  string  `json:"model_used"`
		} `json:"result"`
		Tickets []triage.Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Result.ToolUsed != "create_ticket" {
		t.Errorf("tool_used = %q", resp.Result.ToolUsed)
	}
	if resp.Result.ModelUsed != "gemini-2.5-flash" {
		t.Errorf("model_used = %q", resp.Result.ModelUsed)
	}
	if len(resp.Tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(resp.Tickets))
	}
	// newest first
	if resp.Tickets[0].ID != "TICK-102" || resp.Tickets[1].ID != "TICK-101" {
		t.Errorf("ticket order = [%s, %s], want [TICK-102, TICK-101]", resp.Tickets[0].ID, resp.Tickets[1].ID)
	}
}

func TestProcess_SuccessWithNullThought(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		result: &triage.Result{
			ToolUsed:   "send_reply",
			ToolOutput: "Reply sent: 'hi'",
			ModelUsed:  "gemini-2.0-flash",
		},
	}
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/process",
		strings.NewReader(`{"message":"hi","api_key":"key-123"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"thought":null`) {
		t.Errorf("body = %s, want explicit null thought", rec.Body.String())
	}
}

func TestProcess_DispatchExhausted(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		err: &triage.ExhaustedError{LastErr: errors.New("boom")},
	}
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/process",
		strings.NewReader(`{"message":"hi","api_key":"key-123"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != "All models failed. Last error: boom" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestProcess_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &fakeService{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/process", http.NoBody)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /process = %d, want 405", method, rec.Code)
		}
	}
}

func TestDashboard_RendersTicketsNewestFirst(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		tickets: []triage.Ticket{
			{ID: "TICK-101", Summary: "first issue", Priority: "Medium", Status: "Open", CreatedAt: "2024-03-01 09:00"},
			{ID: "TICK-102", Summary: "second issue", Priority: "High", Status: "Open", CreatedAt: "2024-03-01 10:00"},
		},
	}
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "TICK-101") || !strings.Contains(body, "TICK-102") {
		t.Fatalf("dashboard missing tickets: %s", body)
	}
	if strings.Index(body, "TICK-102") > strings.Index(body, "TICK-101") {
		t.Error("dashboard lists tickets oldest-first, want newest-first")
	}
}

func TestDashboard_Empty(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No tickets yet.") {
		t.Error("empty dashboard missing placeholder row")
	}
}
