// Package skill defines the intent handler contract and the dispatcher that
// routes matched intents to handlers, arbitrates the LLM fallback, and
// renders the final reply.
//
// Handlers are registered explicitly at startup, keyed by intent name.
package skill

import (
	"context"
	"time"

	"github.com/xhyrom/jim/internal/config"
	"github.com/xhyrom/jim/internal/echo"
)

// Request carries everything a handler needs to compute its data context.
type Request struct {
	// Entities maps entity names to their extracted matches.
	Entities map[string][]echo.Match

	// Text is the original user utterance.
	Text string

	// UserID and DeviceID identify the asking user and device.
	UserID   string
	DeviceID string

	// Config is the core configuration, passed explicitly rather than read
	// from any global.
	Config *config.Config
}

// Result is a handler's output.
type Result struct {
	// Data becomes the template rendering context.
	Data map[string]any

	// Action optionally names a client-side action to perform.
	Action string
}

// Handler computes the data context for one intent. Handlers may perform
// outbound I/O and must respect ctx.
type Handler func(ctx context.Context, req Request) (Result, error)

// Registry maps intent names to handlers. Populated at startup and read-only
// afterwards.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds intent to handler, replacing any prior binding.
func (r *Registry) Register(intent string, handler Handler) {
	r.handlers[intent] = handler
}

// Handler returns the handler for intent, or nil.
func (r *Registry) Handler(intent string) Handler {
	return r.handlers[intent]
}

// Greeting handles the greeting intent: it has no data to fetch beyond the
// current hour, which drives the time-of-day template selection.
func Greeting(ctx context.Context, req Request) (Result, error) {
	return Result{Data: map[string]any{
		"hour": time.Now().Hour(),
		"text": req.Text,
	}}, nil
}
