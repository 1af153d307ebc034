package triage

import (
	"context"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

// Notifier receives completed dispatch results, e.g. for posting to a chat
// webhook. Implementations must tolerate being called concurrently.
type Notifier interface {
	Send(ctx context.Context, result *Result) error
}

// Service is the business boundary for dispatch operations.
type Service struct {
	store    Store
	engine   *Engine
	logger   log.Logger
	notifier Notifier
}

// NewService creates a new dispatch service. notifier may be nil.
func NewService(store Store, engine *Engine, logger log.Logger, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		engine:   engine,
		logger:   logger,
		notifier: notifier,
	}
}

// Dispatch runs the engine for one message, correlating all logs for the
// request under a fresh dispatch ID.
func (s *Service) Dispatch(ctx context.Context, message, apiKey string) (*Result, error) {
	id := ulid.Make().String()
	L := s.logger.With("dispatch_id", id)
	ctx = log.WithContext(ctx, L)

	result, err := s.engine.Dispatch(ctx, message, apiKey)
	if err != nil {
		L.Warn(ctx, "dispatch failed", "error", err)
		return nil, err
	}

	if s.notifier != nil {
		// fire-and-forget: notification failures never affect the response
		go func() {
			nctx := context.WithoutCancel(ctx)
			if err := s.notifier.Send(nctx, result); err != nil {
				L.Error(nctx, err, "dispatch notification failed")
			}
		}()
	}

	return result, nil
}

// Tickets returns the ticket registry in insertion order.
func (s *Service) Tickets() []Ticket {
	return s.store.Tickets()
}
