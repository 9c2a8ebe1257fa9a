package echo

import (
	"strings"
	"testing"
)

func rendererFixture(t *testing.T) *Renderer {
	t.Helper()

	r := NewRegistry()
	r.RegisterResponses("get_time", ResponseSet{
		Default: "It is {formatted_time}.",
		Contexts: map[string][]string{
			"morning": {
				"Good morning! It's {formatted_time}.",
				"It's {formatted_time}, bright and early.",
			},
		},
	})
	r.RegisterResponses("fallback", ResponseSet{
		Default: "I'm not sure I understand. Could you rephrase that?",
	})

	renderer := NewRenderer(r)
	renderer.pick = func(n int) int { return 0 }
	return renderer
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		context map[string]any
		want    string
	}{
		{
			name:    "default template",
			key:     "get_time.default",
			context: map[string]any{"formatted_time": "2:30 PM"},
			want:    "It is 2:30 PM.",
		},
		{
			name:    "context template",
			key:     "get_time.morning",
			context: map[string]any{"formatted_time": "8:05 AM"},
			want:    "Good morning! It's 8:05 AM.",
		},
		{
			name:    "unknown context falls back to default",
			key:     "get_time.weekend",
			context: map[string]any{"formatted_time": "2:30 PM"},
			want:    "It is 2:30 PM.",
		},
		{
			name:    "nil value renders placeholder text",
			key:     "get_time.default",
			context: map[string]any{"formatted_time": nil},
			want:    "It is (not specified).",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := rendererFixture(t).Render(tc.key, tc.context); got != tc.want {
				t.Errorf("Render(%q): expected %q, got %q", tc.key, tc.want, got)
			}
		})
	}
}

func TestRenderer_ErrorsAreStringsNotPanics(t *testing.T) {
	t.Parallel()

	renderer := rendererFixture(t)

	tests := []struct {
		name     string
		key      string
		context  map[string]any
		contains string
	}{
		{
			name:     "bad key format",
			key:      "nodot",
			contains: "Invalid response key",
		},
		{
			name:     "unknown intent",
			key:      "get_jokes.default",
			contains: "No responses found",
		},
		{
			name:     "missing context variable",
			key:      "get_time.default",
			context:  map[string]any{},
			contains: "Missing context variable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := renderer.Render(tc.key, tc.context)
			if !strings.Contains(got, tc.contains) {
				t.Errorf("Render(%q): expected error string containing %q, got %q", tc.key, tc.contains, got)
			}
		})
	}
}

func TestRenderer_SubstitutesEveryKnownPlaceholder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterResponses("report", ResponseSet{Default: "{a} and {b} and {a}"})
	renderer := NewRenderer(r)

	got := renderer.Render("report.default", map[string]any{"a": 1, "b": "two"})
	if got != "1 and two and 1" {
		t.Errorf("expected full substitution, got %q", got)
	}
}
