package echo

import (
	"math"
	"testing"
)

func TestSequenceRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one empty", a: "abc", b: "", want: 0},
		{name: "identical", a: "what time is it", b: "what time is it", want: 1},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		// difflib.SequenceMatcher(None, "abcd", "bcde").ratio() == 0.75
		{name: "overlapping", a: "abcd", b: "bcde", want: 0.75},
		// 2*M/T with M=5 ("hello" common), T=13
		{name: "prefix overlap", a: "hello w", b: "hello!", want: 2.0 * 5 / 13},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := sequenceRatio(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("sequenceRatio(%q, %q): expected %v, got %v", tc.a, tc.b, tc.want, got)
			}
		})
	}
}

func TestSequenceRatio_Symmetryish(t *testing.T) {
	t.Parallel()

	// Ratcliff–Obershelp totals are order-independent for these inputs.
	a, b := "whats the weather like in", "whats the weather in seattle"
	if r1, r2 := sequenceRatio(a, b), sequenceRatio(b, a); math.Abs(r1-r2) > 1e-9 {
		t.Errorf("expected symmetric ratio, got %v and %v", r1, r2)
	}
}

func TestSequenceRatio_CasualPhrasingAboveThreshold(t *testing.T) {
	t.Parallel()

	// The fuzzy pass must tolerate casual phrasings of authored patterns.
	ratio := sequenceRatio("what time is it", "whats time is it")
	if ratio < DefaultFuzzyThreshold {
		t.Errorf("expected ratio >= %v for near-identical phrasing, got %v", DefaultFuzzyThreshold, ratio)
	}
}
