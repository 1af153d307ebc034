package triage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// blockingNotifier records results and signals when Send has run.
type blockingNotifier struct {
	mu      sync.Mutex
	results []*Result
	err     error
	done    chan struct{}
}

func (n *blockingNotifier) Send(_ context.Context, r *Result) error {
	n.mu.Lock()
	n.results = append(n.results, r)
	n.mu.Unlock()
	close(n.done)
	return n.err
}

func TestService_DispatchSuccess(t *testing.T) {
	t.Parallel()

	store := seededStore()
	provider := &mockProvider{
		replies: []string{`{"tool":"create_ticket","args":{"summary":"broken"}}`},
	}
	engine := NewEngine(provider, testModels, store, log.Nop(), EngineHooks{})
	svc := NewService(store, engine, log.Nop(), nil)

	res, err := svc.Dispatch(context.Background(), "it is broken", "key-123")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.ToolUsed != "create_ticket" {
		t.Errorf("tool_used = %q, want create_ticket", res.ToolUsed)
	}
	if got := svc.Tickets(); len(got) != 1 {
		t.Errorf("tickets = %d, want 1", len(got))
	}
}

func TestService_DispatchError(t *testing.T) {
	t.Parallel()

	store := seededStore()
	engine := NewEngine(&mockProvider{}, testModels, store, log.Nop(), EngineHooks{})
	svc := NewService(store, engine, log.Nop(), nil)

	_, err := svc.Dispatch(context.Background(), "msg", "")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}
}

func TestService_NotifierReceivesResult(t *testing.T) {
	t.Parallel()

	store := seededStore()
	provider := &mockProvider{
		replies: []string{`{"tool":"send_reply","args":{"message":"pong"}}`},
	}
	engine := NewEngine(provider, testModels, store, log.Nop(), EngineHooks{})
	notifier := &blockingNotifier{done: make(chan struct{})}
	svc := NewService(store, engine, log.Nop(), notifier)

	if _, err := svc.Dispatch(context.Background(), "ping", "key-123"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not invoked")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.results) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.results))
	}
	if notifier.results[0].ToolOutput != "Reply sent: 'pong'" {
		t.Errorf("notified output = %q", notifier.results[0].ToolOutput)
	}
}

func TestService_NotifierNotCalledOnFailure(t *testing.T) {
	t.Parallel()

	store := seededStore()
	provider := &mockProvider{
		errs: []error{
			errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d"),
		},
		listErr: errors.New("down"),
	}
	engine := NewEngine(provider, testModels, store, log.Nop(), EngineHooks{})
	notifier := &blockingNotifier{done: make(chan struct{})}
	svc := NewService(store, engine, log.Nop(), notifier)

	if _, err := svc.Dispatch(context.Background(), "msg", "key-123"); err == nil {
		t.Fatal("expected dispatch error")
	}

	select {
	case <-notifier.done:
		t.Fatal("notifier invoked for a failed dispatch")
	case <-time.After(100 * time.Millisecond):
	}
}
