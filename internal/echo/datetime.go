package echo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	weekdayRefRe = regexp.MustCompile(`^(next|last|this)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)
	slashDateRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	clockTimeRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)?`)
	durationRe   = regexp.MustCompile(`^(\d+)\s+(second|minute|hour|day|week|month|year)s?`)
	indefiniteRe = regexp.MustCompile(`^(a|an|one)\s+(second|minute|hour|day|week|month|year)`)
)

// namedTimes maps spoken day periods to canonical clock times.
var namedTimes = map[string]struct {
	clock  string
	period string
}{
	"morning":   {"09:00", "morning"},
	"noon":      {"12:00", "noon"},
	"afternoon": {"15:00", "afternoon"},
	"evening":   {"19:00", "evening"},
	"night":     {"22:00", "night"},
	"midnight":  {"00:00", "midnight"},
}

// processDate normalises date surface forms: today/tomorrow/yesterday
// relatives, "(next|last|this) weekday" references, and M/D/YY(YY) literals.
// Anything else comes back with type "unknown".
func processDate(raw string) Value {
	lower := strings.ToLower(raw)
	today := time.Now()

	switch lower {
	case "today":
		return Value{"date": today.Format(time.DateOnly), "type": "relative", "relative": "today"}
	case "tomorrow":
		return Value{"date": today.AddDate(0, 0, 1).Format(time.DateOnly), "type": "relative", "relative": "tomorrow"}
	case "yesterday":
		return Value{"date": today.AddDate(0, 0, -1).Format(time.DateOnly), "type": "relative", "relative": "yesterday"}
	}

	if m := weekdayRefRe.FindStringSubmatch(lower); m != nil {
		return Value{"date": lower, "type": "day_reference", "relative": m[1], "day": m[2]}
	}

	if m := slashDateRe.FindStringSubmatch(lower); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if d, ok := validDate(year, month, day); ok {
			return Value{
				"date":  d.Format(time.DateOnly),
				"type":  "specific",
				"month": month,
				"day":   day,
				"year":  year,
			}
		}
	}

	return Value{"date": raw, "type": "unknown"}
}

// validDate reports whether year/month/day name a real calendar date.
func validDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}

// processTime canonicalises HH:MM (AM|PM)? to 24-hour form and maps named
// day periods to their canonical hour.
func processTime(raw string) Value {
	lower := strings.ToLower(raw)

	if m := clockTimeRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		return Value{
			"time":   fmt.Sprintf("%02d:%02d", hour, minute),
			"type":   "specific",
			"hour":   hour,
			"minute": minute,
		}
	}

	if nt, ok := namedTimes[lower]; ok {
		return Value{"time": nt.clock, "type": "period", "period": nt.period}
	}

	return Value{"time": raw, "type": "unknown"}
}

// processDuration normalises "<n> <unit>s" and "a/an/one <unit>" spans.
func processDuration(raw string) Value {
	lower := strings.ToLower(raw)

	if m := durationRe.FindStringSubmatch(lower); m != nil {
		amount, _ := strconv.Atoi(m[1])
		return Value{"duration": raw, "type": "specific", "amount": amount, "unit": m[2]}
	}
	if m := indefiniteRe.FindStringSubmatch(lower); m != nil {
		return Value{"duration": raw, "type": "indefinite", "amount": 1, "unit": m[2]}
	}

	return Value{"duration": raw, "type": "unknown"}
}
