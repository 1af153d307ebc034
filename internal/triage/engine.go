package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// Output used when the model selects a tool name the dispatcher does not
// recognize. This is not a failure: the envelope still succeeds.
const unknownToolOutput = "Error: Unknown tool selected."

// maxDiagnosticModels caps how many available-model identifiers are embedded
// in the exhausted-candidates error.
const maxDiagnosticModels = 5

// ErrMissingCredential is returned before any model call when the request
// carries no API key.
var ErrMissingCredential = errors.New("missing API key")

// Provider is the interface over the hosted model API. Generate requests a
// completion whose body is itself valid JSON; ListModels is the best-effort
// diagnostic used when every candidate fails.
type Provider interface {
	Generate(ctx context.Context, model, apiKey, prompt string) (string, error)
	ListModels(ctx context.Context, apiKey string) ([]string, error)
}

// ExhaustedError reports that every candidate model failed. Available holds
// up to five model identifiers from the diagnostic call, when it succeeded.
type ExhaustedError struct {
	LastErr   error
	Available []string
}

func (e *ExhaustedError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("All models failed. Last error: %v", e.LastErr)
	}
	return fmt.Sprintf("All models failed. Last error: %v. Available: [%s]",
		e.LastErr, strings.Join(e.Available, ", "))
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// EngineHooks receives dispatch instrumentation callbacks. Nil fields are
// skipped, so tests can pass a zero value.
type EngineHooks struct {
	OnModelCall func(model string, duration float64, failed bool)
	OnToolCall  func(tool string, failed bool)
	OnDispatch  func(outcome string, duration float64)
}

// Engine turns a user message into a tool invocation by trying candidate
// models in order until one returns a parseable structured response.
type Engine struct {
	provider Provider
	models   []string
	store    Store
	logger   log.Logger
	hooks    EngineHooks
}

// NewEngine creates an engine over the given provider, ordered candidate
// model list and store.
func NewEngine(provider Provider, models []string, store Store, logger log.Logger, hooks EngineHooks) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		provider: provider,
		models:   models,
		store:    store,
		logger:   logger,
		hooks:    hooks,
	}
}

// decision is the structured reply requested from the model.
type decision struct {
	Thought *string         `json:"thought"`
	Tool    string          `json:"tool"`
	Args    json.RawMessage `json:"args"`
}

// Dispatch classifies the message, executes the selected tool and returns
// the result envelope. Each candidate model is tried exactly once, with no
// delay between attempts; iteration stops at the first parseable response
// even when the tool name turns out to be unknown.
func (e *Engine) Dispatch(ctx context.Context, message, apiKey string) (*Result, error) {
	start := time.Now()

	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if len(e.models) == 0 {
		return nil, errors.New("no candidate models configured")
	}

	prompt := buildPrompt(message)

	var lastErr error
	for _, model := range e.models {
		callStart := time.Now()
		text, err := e.provider.Generate(ctx, model, apiKey, prompt)
		callDur := time.Since(callStart).Seconds()

		if err != nil {
			if e.hooks.OnModelCall != nil {
				e.hooks.OnModelCall(model, callDur, true)
			}
			e.logger.Warn(ctx, "model candidate failed", "model", model, "error", err)
			lastErr = err
			continue
		}

		var d decision
		if err := json.Unmarshal([]byte(text), &d); err != nil {
			if e.hooks.OnModelCall != nil {
				e.hooks.OnModelCall(model, callDur, true)
			}
			e.logger.Warn(ctx, "model reply not parseable", "model", model, "error", err)
			lastErr = fmt.Errorf("parse model reply: %w", err)
			continue
		}

		var args Args
		if len(d.Args) > 0 {
			if err := json.Unmarshal(d.Args, &args); err != nil {
				if e.hooks.OnModelCall != nil {
					e.hooks.OnModelCall(model, callDur, true)
				}
				e.logger.Warn(ctx, "model args not parseable", "model", model, "error", err)
				lastErr = fmt.Errorf("parse tool args: %w", err)
				continue
			}
		}

		if e.hooks.OnModelCall != nil {
			e.hooks.OnModelCall(model, callDur, false)
		}

		result := &Result{
			Thought:    d.Thought,
			ToolUsed:   d.Tool,
			ToolOutput: e.executeTool(ctx, d.Tool, args),
			ModelUsed:  model,
		}

		if e.hooks.OnDispatch != nil {
			e.hooks.OnDispatch("success", time.Since(start).Seconds())
		}
		e.logger.Info(ctx, "dispatch complete",
			"model", model,
			"tool", d.Tool,
			"duration", time.Since(start).Seconds(),
		)
		return result, nil
	}

	// Every candidate failed. Best-effort diagnostic: list what models the
	// credential can actually reach.
	var available []string
	if models, err := e.provider.ListModels(ctx, apiKey); err == nil {
		if len(models) > maxDiagnosticModels {
			models = models[:maxDiagnosticModels]
		}
		available = models
	} else {
		e.logger.Warn(ctx, "model list diagnostic failed", "error", err)
	}

	if e.hooks.OnDispatch != nil {
		e.hooks.OnDispatch("exhausted", time.Since(start).Seconds())
	}
	return nil, &ExhaustedError{LastErr: lastErr, Available: available}
}

// executeTool maps the wire name onto the tool enum and runs it. Unknown
// names and invalid arguments degrade to descriptive output strings.
func (e *Engine) executeTool(ctx context.Context, name string, args Args) string {
	tool, ok := ParseTool(name)
	if !ok {
		if e.hooks.OnToolCall != nil {
			e.hooks.OnToolCall("unknown", true)
		}
		return unknownToolOutput
	}

	out, err := Execute(tool, args, e.store)
	if err != nil {
		if e.hooks.OnToolCall != nil {
			e.hooks.OnToolCall(tool.String(), true)
		}
		e.logger.Warn(ctx, "tool execution failed", "tool", tool.String(), "error", err)
		return fmt.Sprintf("Error: %v", err)
	}

	if e.hooks.OnToolCall != nil {
		e.hooks.OnToolCall(tool.String(), false)
	}
	return out
}

// buildPrompt constructs the fixed instruction block plus the user message.
// The model is asked to reply with a single JSON object so the body can be
// parsed directly.
func buildPrompt(message string) string {
	return `You are an Enterprise Triage Agent. Your job is to analyze incoming messages and decide what to do.

AVAILABLE TOOLS:
1. create_ticket(summary, priority): Use for bug reports, IT issues, or feature requests.
2. check_calendar(date_str): Use for scheduling requests.
3. generate_invoice(client_name, amount): Use when the user asks to create or send an invoice.
4. send_reply(message): Use to reply to the user.

INSTRUCTIONS:
- Analyze the user's message.
- Return a JSON object with the following structure:
{
    "thought": "Your reasoning here",
    "tool": "The name of the tool to use",
    "args": { "arg_name": "arg_value" }
}

USER MESSAGE: ` + message
}
