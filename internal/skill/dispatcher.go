package skill

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"github.com/xhyrom/jim/internal/config"
	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/llm"
)

// LLMFallbackIntent is the synthetic intent reported when the LLM answered.
const LLMFallbackIntent = "llm_fallback"

// Canned user-facing replies; failures never surface error details.
const (
	replyNoHandler  = "I understand, but I don't have a handler for that yet."
	replyTrouble    = "I had trouble processing that request."
	replyLLMTrouble = "I'm sorry, but I'm having trouble processing your request right now."
)

// Reply is the dispatcher's final answer for one request.
type Reply struct {
	// Intent is the handled intent, echo.FallbackIntent, or
	// LLMFallbackIntent.
	Intent string

	// Confidence is the matcher confidence, or 1.0 for LLM replies.
	Confidence float64

	// Response is the spoken reply text.
	Response string

	// Action optionally names a client-side action.
	Action string
}

// Dispatcher routes a processed utterance to its handler and renders the
// reply. Safe for concurrent use.
type Dispatcher struct {
	engine   *echo.Engine
	registry *Registry
	llm      *llm.Client
	cfg      *config.Config
}

// NewDispatcher wires the dispatcher. llmClient may be nil when the fallback
// path is disabled entirely.
func NewDispatcher(engine *echo.Engine, registry *Registry, llmClient *llm.Client, cfg *config.Config) *Dispatcher {
	return &Dispatcher{engine: engine, registry: registry, llm: llmClient, cfg: cfg}
}

// Dispatch turns a match result into a reply.
//
// The LLM fallback runs when it is enabled and either the matcher fell back
// or confidence is strictly below the configured threshold; a confidence
// exactly at the threshold stays on the handler path.
func (d *Dispatcher) Dispatch(ctx context.Context, result echo.Result, userID, deviceID string) Reply {
	intent := result.Intent
	confidence := result.Confidence

	if d.llmEnabled() && (intent == echo.FallbackIntent || confidence < d.cfg.LLM.FallbackThreshold) {
		return d.dispatchLLM(ctx, result, userID)
	}

	if intent == echo.FallbackIntent {
		return Reply{
			Intent:     intent,
			Confidence: 0.0,
			Response:   d.engine.Respond(echo.FallbackIntent, map[string]any{"text": result.Text}),
		}
	}

	handler := d.registry.Handler(intent)
	if handler == nil {
		return Reply{Intent: intent, Confidence: confidence, Response: replyNoHandler}
	}

	handlerResult, err := handler(ctx, Request{
		Entities: result.Entities,
		Text:     result.Text,
		UserID:   userID,
		DeviceID: deviceID,
		Config:   d.cfg,
	})
	if err != nil {
		slog.Error("intent handler failed", "intent", intent, "err", err)
		return Reply{Intent: intent, Confidence: confidence, Response: replyTrouble}
	}

	renderContext := map[string]any{"text": result.Text}
	maps.Copy(renderContext, handlerResult.Data)

	return Reply{
		Intent:     intent,
		Confidence: confidence,
		Response:   d.engine.Respond(intent, renderContext),
		Action:     handlerResult.Action,
	}
}

// dispatchLLM runs the fallback arbiter. Provider failures still produce a
// successful reply with a canned apology; the cause is only logged.
func (d *Dispatcher) dispatchLLM(ctx context.Context, result echo.Result, userID string) Reply {
	response, err := d.llm.Fallback(ctx, result.Text, userID, result.Intent, result.Confidence)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			slog.Error("llm fallback failed", "intent", result.Intent, "err", err)
		}
		response = replyLLMTrouble
	}
	return Reply{
		Intent:     LLMFallbackIntent,
		Confidence: 1.0,
		Response:   response,
	}
}

func (d *Dispatcher) llmEnabled() bool {
	return d.llm != nil && d.cfg.LLM.Enabled
}
