package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xhyrom/jim/internal/config"
	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/llm"
	"github.com/xhyrom/jim/internal/server"
	"github.com/xhyrom/jim/internal/skill"
	"github.com/xhyrom/jim/internal/skill/timeskill"
	"github.com/xhyrom/jim/internal/skill/weatherskill"
	"github.com/xhyrom/jim/pkg/provider/geocode"
	geomock "github.com/xhyrom/jim/pkg/provider/geocode/mock"
	llmmock "github.com/xhyrom/jim/pkg/provider/llm/mock"
	"github.com/xhyrom/jim/pkg/provider/weather"
	weathermock "github.com/xhyrom/jim/pkg/provider/weather/mock"
)

const entitiesYAML = `
entities:
  location:
    type: location
    patterns:
      - 'in (?P<location>[A-Z][a-zA-Z]+)'
  date:
    type: date
    patterns:
      - '(?P<date>today|tomorrow|yesterday)'
`

const sentencesYAML = `
intents:
  get_time:
    patterns:
      - "what time is it"
      - "what's the time"
  get_weather:
    patterns:
      - "what's the weather like in {location} {date}"
      - "what's the weather like in {location}"
      - "what's the weather like"
`

const responsesYAML = `
responses:
  intents:
    get_time:
      default: "It's {formatted_time}."
    get_weather:
      default: "Right now it's {condition} with a temperature of {temperature} degrees {temp_unit}."
      contexts:
        with_location:
          - "In {location} it's {condition} with {temperature} degrees {temp_unit}."
        with_location_date:
          - "The weather in {location} {date} will be {condition}."
    fallback:
      default: "I'm not sure I understand. Could you rephrase that?"
`

// testServer assembles a full pipeline over temp YAML data and mock
// backends.
func testServer(t *testing.T, llmEnabled bool) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"entities/standard.yaml": entitiesYAML,
		"sentences/core.yaml":    sentencesYAML,
		"responses/core.yaml":    responsesYAML,
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	engine, err := echo.Load(dir)
	if err != nil {
		t.Fatalf("echo.Load: %v", err)
	}

	cfg := config.Default()
	cfg.LLM.Enabled = llmEnabled
	cfg.IntentsDir = dir

	registry := skill.NewRegistry()
	timeskill.Register(registry)
	weatherSkill := weatherskill.New(
		&weathermock.Service{Observation: &weather.Observation{
			Temperature: 18.0,
			Description: "clear sky",
			Units:       weather.UnitsMetric,
		}},
		&geomock.Geocoder{
			GeocodeResult: &geocode.Location{Name: "Seattle, United States", City: "Seattle", Lat: 47.6, Lon: -122.3},
			LocateResult:  &geocode.Location{Name: "Testville", City: "Testville"},
		},
		weather.UnitsMetric,
	)
	weatherSkill.Register(registry)

	client := llm.NewWithProvider(&llmmock.Provider{}, cfg.LLM)
	dispatcher := skill.NewDispatcher(engine, registry, client, cfg)

	srv := httptest.NewServer(server.New(engine, dispatcher, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func ask(t *testing.T, srv *httptest.Server, body string) map[string]any {
	t.Helper()

	resp, err := http.Post(srv.URL+"/v0/ask", "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST /v0/ask: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestRoot(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "ok" || out["message"] != "welcome" {
		t.Errorf("unexpected body: %v", out)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "healthy" {
		t.Errorf("status: expected healthy, got %q", out["status"])
	}
	if _, err := time.Parse(time.RFC3339, out["timestamp"]); err != nil {
		t.Errorf("timestamp: expected RFC3339, got %q", out["timestamp"])
	}
}

func TestAsk_GetTime(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	out := ask(t, srv, `{"text":"what time is it"}`)

	if out["intent"] != "get_time" {
		t.Fatalf("intent: expected get_time, got %v", out["intent"])
	}
	if conf := out["confidence"].(float64); conf < 0.6 {
		t.Errorf("confidence: expected >= 0.6, got %v", conf)
	}

	// The reply must carry the current hour in 12-hour form.
	hour12 := time.Now().Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	response := out["response"].(string)
	if !strings.Contains(response, strconv.Itoa(hour12)+":") {
		t.Errorf("response %q does not contain the current 12-hour value %d", response, hour12)
	}
}

func TestAsk_GetWeatherWithLocationAndDate(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	out := ask(t, srv, `{"text":"what's the weather like in Seattle tomorrow"}`)

	if out["intent"] != "get_weather" {
		t.Fatalf("intent: expected get_weather, got %v", out["intent"])
	}
	response := out["response"].(string)
	if response != "The weather in Seattle tomorrow will be clear sky." {
		t.Errorf("expected the with_location_date variant, got %q", response)
	}
}

func TestAsk_FallbackWithLLMDisabled(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	out := ask(t, srv, `{"text":"asdf qwerty 1234"}`)

	if out["intent"] != "fallback" {
		t.Fatalf("intent: expected fallback, got %v", out["intent"])
	}
	if out["confidence"].(float64) != 0.0 {
		t.Errorf("confidence: expected 0.0, got %v", out["confidence"])
	}
	if !strings.Contains(out["response"].(string), "rephrase") {
		t.Errorf("expected the canned fallback reply, got %q", out["response"])
	}
}

func TestAsk_FallbackWithLLMEnabled(t *testing.T) {
	t.Parallel()

	srv := testServer(t, true)
	out := ask(t, srv, `{"text":"asdf qwerty 1234"}`)

	if out["intent"] != "llm_fallback" {
		t.Fatalf("intent: expected llm_fallback, got %v", out["intent"])
	}
	if out["confidence"].(float64) != 1.0 {
		t.Errorf("confidence: expected 1.0, got %v", out["confidence"])
	}
	response := out["response"].(string)
	if len(response) > 300 {
		t.Errorf("response exceeds 300 characters: %d", len(response))
	}
	if strings.Contains(response, "**") || strings.Contains(response, "```") {
		t.Errorf("response still contains markdown: %q", response)
	}
}

func TestAsk_DefaultsAppliedForOptionalFields(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	out := ask(t, srv, `{"text":"what time is it"}`)
	if out["status"] != "ok" {
		t.Errorf("status: expected ok, got %v", out["status"])
	}
}

func TestAsk_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	resp, err := http.Post(srv.URL+"/v0/ask", "application/json", bytes.NewReader([]byte("{nope")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: expected 400, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := testServer(t, false)
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: expected 200, got %d", resp.StatusCode)
	}
}
