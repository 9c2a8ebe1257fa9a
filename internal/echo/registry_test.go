package echo

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const entitiesYAML = `
entities:
  location:
    type: location
    description: "A place name"
    examples: ["Seattle", "Paris"]
    patterns:
      - 'in (?P<location>[A-Z][a-zA-Z]+)'
  date:
    type: date
    patterns:
      - '(?P<date>today|tomorrow|yesterday)'
  broken:
    type: location
    patterns:
      - 'in (\w+)'
`

const sentencesYAML = `
intents:
  get_time:
    patterns:
      - "what time is it"
  get_weather:
    patterns:
      - "what's the weather like in {location} {date}"
      - "what's the weather like"
    requires:
      - location
`

const responsesYAML = `
responses:
  intents:
    get_time:
      default: "It is {formatted_time}."
    get_weather:
      default: "The weather is {condition}."
      contexts:
        with_location_date:
          - "The weather {location} {date} will be {condition}."
`

// writeDataTree lays out a temporary intents data directory.
func writeDataTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"entities/standard.yaml":  entitiesYAML,
		"sentences/datetime.yaml": sentencesYAML,
		"responses/datetime.yaml": responsesYAML,
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	r, err := LoadRegistry(writeDataTree(t))
	if err != nil {
		t.Fatalf("LoadRegistry: unexpected error: %v", err)
	}

	if r.Entity("location") == nil {
		t.Error("expected location entity to load")
	}
	if r.Entity("date") == nil {
		t.Error("expected date entity to load")
	}
	// The pattern without a named capture group must be rejected, not loaded.
	if r.Entity("broken") != nil {
		t.Error("expected broken entity to be rejected at load")
	}

	def, ok := r.Intent("get_weather")
	if !ok {
		t.Fatal("expected get_weather intent to load")
	}
	if !reflect.DeepEqual(def.Requires, []string{"location"}) {
		t.Errorf("requires: expected [location], got %v", def.Requires)
	}

	if got := r.IntentNames(); len(got) != 2 || got[0] != "get_time" || got[1] != "get_weather" {
		t.Errorf("intent order: expected [get_time get_weather], got %v", got)
	}

	set, ok := r.ResponseSetFor("get_weather")
	if !ok {
		t.Fatal("expected get_weather responses to load")
	}
	if len(set.Contexts["with_location_date"]) != 1 {
		t.Errorf("expected one with_location_date template, got %v", set.Contexts)
	}
}

func TestLoadRegistry_MissingDirectory(t *testing.T) {
	t.Parallel()

	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing data tree, got nil")
	}
}

func TestEngine_ProcessAndRespond(t *testing.T) {
	t.Parallel()

	engine, err := Load(writeDataTree(t))
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	res := engine.Process("what's the weather like in Seattle tomorrow")
	if res.Intent != "get_weather" {
		t.Fatalf("intent: expected get_weather, got %q", res.Intent)
	}
	if res.Confidence < 0.6 {
		t.Errorf("confidence: expected >= 0.6, got %v", res.Confidence)
	}
	if res.Entities["location"][0].Value["name"] != "Seattle" {
		t.Errorf("location: expected Seattle, got %v", res.Entities["location"])
	}
	if res.Entities["date"][0].Value["relative"] != "tomorrow" {
		t.Errorf("date: expected tomorrow relative, got %v", res.Entities["date"])
	}

	reply := engine.Respond("get_weather", map[string]any{
		"location":  "in Seattle",
		"date":      "tomorrow",
		"condition": "clear",
	})
	if reply != "The weather in Seattle tomorrow will be clear." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestEngine_ProcessFallbackExtractsNothing(t *testing.T) {
	t.Parallel()

	engine, err := Load(writeDataTree(t))
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	res := engine.Process("asdf qwerty 1234")
	if res.Intent != FallbackIntent {
		t.Fatalf("intent: expected fallback, got %q", res.Intent)
	}
	if res.Confidence != 0 {
		t.Errorf("confidence: expected 0, got %v", res.Confidence)
	}
	if res.Entities != nil {
		t.Errorf("entities: expected none, got %v", res.Entities)
	}
}
