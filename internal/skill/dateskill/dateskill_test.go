package dateskill_test

import (
	"context"
	"testing"
	"time"

	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/skill"
	"github.com/xhyrom/jim/internal/skill/dateskill"
)

func TestOrdinalSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day  int
		want string
	}{
		{1, "st"}, {2, "nd"}, {3, "rd"}, {4, "th"},
		{11, "th"}, {12, "th"}, {13, "th"},
		{21, "st"}, {22, "nd"}, {23, "rd"}, {30, "th"}, {31, "st"},
	}
	for _, tc := range tests {
		if got := dateskill.OrdinalSuffix(tc.day); got != tc.want {
			t.Errorf("OrdinalSuffix(%d): expected %q, got %q", tc.day, tc.want, got)
		}
	}
}

func TestFormatDateForSpeech(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local)
	if got := dateskill.FormatDateForSpeech(d); got != "June 5th, 2025" {
		t.Errorf("expected %q, got %q", "June 5th, 2025", got)
	}
}

func TestParseDateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-06-05", want: "2025-06-05"},
		{in: "06/05/2025", want: "2025-06-05"},
		{in: "June 5, 2025", want: "2025-06-05"},
		{in: "5 June 2025", want: "2025-06-05"},
		{in: "Jun 5 2025", want: "2025-06-05"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, ok := dateskill.ParseDateString(tc.in)
			if !ok {
				t.Fatalf("ParseDateString(%q): expected success", tc.in)
			}
			if got.Format("2006-01-02") != tc.want {
				t.Errorf("ParseDateString(%q): expected %s, got %s", tc.in, tc.want, got.Format("2006-01-02"))
			}
		})
	}

	if _, ok := dateskill.ParseDateString("the fifth of sometime"); ok {
		t.Error("expected failure for unparsable date")
	}
}

func TestGetDate_Today(t *testing.T) {
	t.Parallel()

	res, err := dateskill.GetDate(context.Background(), skill.Request{Text: "what's the date"})
	if err != nil {
		t.Fatalf("GetDate: unexpected error: %v", err)
	}

	data := res.Data
	if data["is_today"] != true {
		t.Error("expected is_today for a bare query")
	}
	if data["relative_description"] != "today" {
		t.Errorf("relative: expected today, got %v", data["relative_description"])
	}
	if data["date"] != time.Now().Format("2006-01-02") {
		t.Errorf("date: expected today's ISO date, got %v", data["date"])
	}
	if data["day_of_week"] != time.Now().Format("Monday") {
		t.Errorf("day_of_week: expected %s, got %v", time.Now().Format("Monday"), data["day_of_week"])
	}
}

func TestGetDate_TomorrowEntity(t *testing.T) {
	t.Parallel()

	req := skill.Request{
		Text: "what's the date tomorrow",
		Entities: map[string][]echo.Match{
			"date": {{
				Entity:   "date",
				RawValue: "tomorrow",
				Value:    echo.Value{"type": "relative", "relative": "tomorrow"},
			}},
		},
	}
	res, err := dateskill.GetDate(context.Background(), req)
	if err != nil {
		t.Fatalf("GetDate: unexpected error: %v", err)
	}

	want := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if res.Data["date"] != want {
		t.Errorf("date: expected %s, got %v", want, res.Data["date"])
	}
	if res.Data["relative_description"] != "tomorrow" {
		t.Errorf("relative: expected tomorrow, got %v", res.Data["relative_description"])
	}
	if res.Data["is_future"] != true {
		t.Error("expected is_future for tomorrow")
	}
}

func TestGetDate_YesterdayEntity(t *testing.T) {
	t.Parallel()

	req := skill.Request{
		Entities: map[string][]echo.Match{
			"date": {{
				Entity:   "date",
				RawValue: "yesterday",
				Value:    echo.Value{"type": "relative", "relative": "yesterday"},
			}},
		},
	}
	res, err := dateskill.GetDate(context.Background(), req)
	if err != nil {
		t.Fatalf("GetDate: unexpected error: %v", err)
	}

	want := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	if res.Data["date"] != want {
		t.Errorf("date: expected %s, got %v", want, res.Data["date"])
	}
	if res.Data["is_past"] != true {
		t.Error("expected is_past for yesterday")
	}
}

func TestGetDate_LiteralDateInText(t *testing.T) {
	t.Parallel()

	res, err := dateskill.GetDate(context.Background(), skill.Request{Text: "what day is 2030-01-15"})
	if err != nil {
		t.Fatalf("GetDate: unexpected error: %v", err)
	}
	if res.Data["date"] != "2030-01-15" {
		t.Errorf("date: expected 2030-01-15, got %v", res.Data["date"])
	}
	if res.Data["is_specific_date"] != true {
		t.Error("expected is_specific_date")
	}
	if res.Data["day_of_week"] != "Tuesday" {
		t.Errorf("day_of_week: expected Tuesday, got %v", res.Data["day_of_week"])
	}
}
