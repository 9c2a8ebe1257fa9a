// Package echo is the intent engine: it matches user text to intents,
// extracts typed entities from the matched pattern's placeholders, and
// renders response templates selected by per-intent context mappings.
//
// The engine is configured from a YAML data tree with three directories:
// entities/ (typed entity definitions with capture-group patterns),
// sentences/ (intent patterns with {entity} placeholders), and responses/
// (templates keyed by intent and context).
//
// All engine state is immutable after construction, so one Engine is shared
// freely across concurrent requests.
package echo

// Engine bundles the registry, matcher, selector, and renderer behind the
// two operations the core needs: Process and Respond.
type Engine struct {
	registry *Registry
	matcher  *Matcher
	selector *Selector
	renderer *Renderer
}

// Result is the outcome of processing one utterance.
type Result struct {
	// Text is the original input.
	Text string

	// Intent is the matched intent name, or FallbackIntent.
	Intent string

	// Confidence is the match confidence in [0, 1]; 0.0 iff fallback.
	Confidence float64

	// Entities maps entity names to their extracted matches. Populated
	// only for confident non-fallback matches.
	Entities map[string][]Match
}

// New creates an Engine from a loaded Registry.
func New(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		matcher:  NewMatcher(registry),
		selector: NewSelector(),
		renderer: NewRenderer(registry),
	}
}

// Load builds an Engine from the YAML data tree rooted at dir.
func Load(dir string) (*Engine, error) {
	registry, err := LoadRegistry(dir)
	if err != nil {
		return nil, err
	}
	return New(registry), nil
}

// Registry exposes the engine's registry for handler-side lookups.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Matcher exposes the engine's matcher, whose Threshold is tunable.
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}

// Selector exposes the engine's selector for registering custom mappings.
func (e *Engine) Selector() *Selector {
	return e.selector
}

// Process matches text to an intent and, when the match is confident,
// extracts the entities its pattern references.
func (e *Engine) Process(text string) Result {
	match := e.matcher.Match(text, nil)

	result := Result{
		Text:       text,
		Intent:     match.Intent,
		Confidence: match.Confidence,
	}
	if match.Intent != FallbackIntent && match.Confidence > 0.5 && match.Pattern != "" {
		result.Entities = ExtractForPattern(e.registry, text, match.Pattern)
	}
	return result
}

// Respond selects and renders the response for intent given the handler's
// data context.
func (e *Engine) Respond(intent string, context map[string]any) string {
	key := e.selector.Select(intent, context)
	return e.renderer.Render(key, context)
}
