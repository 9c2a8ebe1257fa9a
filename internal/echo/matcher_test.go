package echo

import "testing"

// testRegistry builds a small registry covering time and weather intents.
func testRegistry(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry()

	location, err := NewEntity("location", EntityDefinition{
		Type:     "location",
		Patterns: []string{`in (?P<location>[A-Z][a-zA-Z]+)`},
	})
	if err != nil {
		t.Fatalf("NewEntity(location): %v", err)
	}
	r.RegisterEntity(location)

	date, err := NewEntity("date", EntityDefinition{
		Type:     "date",
		Patterns: []string{`(?P<date>today|tomorrow|yesterday)`},
	})
	if err != nil {
		t.Fatalf("NewEntity(date): %v", err)
	}
	r.RegisterEntity(date)

	r.RegisterIntent("get_time", IntentDefinition{
		Patterns: []string{
			"what time is it",
			"what's the time",
		},
	})
	r.RegisterIntent("get_weather", IntentDefinition{
		Patterns: []string{
			`what's the weather like in {location} {date}`,
			`what's the weather like in {location}`,
			"what's the weather like",
		},
	})

	r.RegisterResponses("get_time", ResponseSet{Default: "It is {formatted_time}."})
	r.RegisterResponses("get_weather", ResponseSet{
		Default: "The weather is {condition}.",
		Contexts: map[string][]string{
			"with_location_date": {"The weather {location} {date} will be {condition}."},
		},
	})
	return r
}

func TestMatcher_ExactMatch(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testRegistry(t))
	res := m.Match("What time is it?", nil)

	if res.Intent != "get_time" {
		t.Fatalf("intent: expected get_time, got %q", res.Intent)
	}
	if res.Confidence != 0.95 {
		t.Errorf("confidence: expected 0.95, got %v", res.Confidence)
	}
	if res.Pattern == "" {
		t.Error("expected the matched pattern to be reported")
	}
}

func TestMatcher_PlaceholderWildcard(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testRegistry(t))
	res := m.Match("what's the weather like in Seattle", nil)

	if res.Intent != "get_weather" {
		t.Fatalf("intent: expected get_weather, got %q", res.Intent)
	}
	if res.Confidence != 0.95 {
		t.Errorf("confidence: expected 0.95, got %v", res.Confidence)
	}
}

func TestMatcher_PlaceholderWithExtractedEntities(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	m := NewMatcher(r)

	text := "what's the weather like in Seattle tomorrow"
	entities := map[string][]Match{
		"location": r.Entity("location").Extract(text),
		"date":     r.Entity("date").Extract(text),
	}
	res := m.Match(text, entities)

	if res.Intent != "get_weather" {
		t.Fatalf("intent: expected get_weather, got %q", res.Intent)
	}
	if res.Pattern != `what's the weather like in {location} {date}` {
		t.Errorf("pattern: expected the two-entity variant, got %q", res.Pattern)
	}
}

func TestMatcher_FuzzyMatch(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testRegistry(t))
	// Close to "what time is it" but not an exact regex hit.
	res := m.Match("whats time is it", nil)

	if res.Intent != "get_time" {
		t.Fatalf("intent: expected get_time, got %q", res.Intent)
	}
	if res.Confidence < DefaultFuzzyThreshold || res.Confidence > 1 {
		t.Errorf("confidence: expected fuzzy ratio in [%v, 1], got %v", DefaultFuzzyThreshold, res.Confidence)
	}
}

func TestMatcher_Fallback(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testRegistry(t))
	res := m.Match("asdf qwerty 1234", nil)

	if res.Intent != FallbackIntent {
		t.Fatalf("intent: expected fallback, got %q", res.Intent)
	}
	if res.Confidence != 0.0 {
		t.Errorf("confidence: expected 0.0 for fallback, got %v", res.Confidence)
	}
	if res.Pattern != "" {
		t.Errorf("pattern: expected empty for fallback, got %q", res.Pattern)
	}
}

func TestMatcher_ConfidenceBounds(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testRegistry(t))
	inputs := []string{
		"what time is it",
		"whats time is it",
		"what's the weather like in Paris",
		"asdf qwerty 1234",
		"",
	}
	for _, in := range inputs {
		res := m.Match(in, nil)
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("Match(%q): confidence %v out of [0, 1]", in, res.Confidence)
		}
		if (res.Confidence == 0) != (res.Intent == FallbackIntent) {
			t.Errorf("Match(%q): confidence %v inconsistent with intent %q", in, res.Confidence, res.Intent)
		}
	}
}

func TestMatcher_TieBreakByRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterIntent("first", IntentDefinition{Patterns: []string{"do the thing"}})
	r.RegisterIntent("second", IntentDefinition{Patterns: []string{"do the thing"}})
	m := NewMatcher(r)

	res := m.Match("do the thing", nil)
	if res.Intent != "first" {
		t.Errorf("tie-break: expected first-registered intent, got %q", res.Intent)
	}
}

func TestExtractForPattern(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	text := "what's the weather like in Seattle tomorrow"

	entities := ExtractForPattern(r, text, `what's the weather like in {location} {date}`)
	if len(entities["location"]) != 1 {
		t.Fatalf("expected one location match, got %v", entities["location"])
	}
	if entities["location"][0].Value["name"] != "Seattle" {
		t.Errorf("location name: expected Seattle, got %v", entities["location"][0].Value)
	}
	if len(entities["date"]) != 1 {
		t.Fatalf("expected one date match, got %v", entities["date"])
	}
	if entities["date"][0].Value["relative"] != "tomorrow" {
		t.Errorf("date relative: expected tomorrow, got %v", entities["date"][0].Value)
	}
}

func TestExtractForPattern_NoPlaceholders(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	if got := ExtractForPattern(r, "what time is it", "what time is it"); got != nil {
		t.Errorf("expected nil for placeholder-free pattern, got %v", got)
	}
}

func TestEntityExtraction_Idempotent(t *testing.T) {
	t.Parallel()

	r := testRegistry(t)
	text := "what's the weather like in Seattle tomorrow"
	pattern := `what's the weather like in {location} {date}`

	first := ExtractForPattern(r, text, pattern)
	again := ExtractForPattern(r, "in "+RawValues(first), pattern)

	// Re-extracting over the joined raw values must find the same entities.
	if len(again["date"]) == 0 {
		t.Error("expected date to survive re-extraction")
	}
	if len(again["location"]) == 0 {
		t.Error("expected location to survive re-extraction")
	}
}
