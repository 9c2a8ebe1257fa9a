// Package timeskill answers time inquiries: the current time by default, or
// a specific time mentioned in the utterance, formatted several ways for
// speech output.
package timeskill

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xhyrom/jim/internal/skill"
)

// Intent is the intent name this package handles.
const Intent = "get_time"

// Register binds the handler into the registry.
func Register(r *skill.Registry) {
	r.Register(Intent, GetTime)
}

// layouts are the strict time formats tried before the natural-language
// patterns.
var layouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"3 PM",
}

var (
	rawTimeRe  = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?)\b`)
	oclockRe   = regexp.MustCompile(`(\d{1,2})\s*(?:o['’]?clock|o\s*clock)`)
	pastRe     = regexp.MustCompile(`(?:quarter|(\d{1,2}))\s*past\s*(\d{1,2})`)
	toRe       = regexp.MustCompile(`(?:quarter|(\d{1,2}))\s*to\s*(\d{1,2})`)
	halfPastRe = regexp.MustCompile(`half\s*past\s*(\d{1,2})`)
)

// GetTime handles the get_time intent.
func GetTime(ctx context.Context, req skill.Request) (skill.Result, error) {
	now := time.Now()
	target := now
	isSpecific := false
	var originalStr string

	// A time entity wins over raw text scanning.
	if matches := req.Entities["time"]; len(matches) > 0 {
		if clock, ok := matches[0].Value["time"].(string); ok {
			if parsed, ok := ParseTimeString(clock); ok {
				originalStr = clock
				target = withClock(now, parsed)
				isSpecific = true
			}
		}
	} else if m := rawTimeRe.FindString(req.Text); m != "" {
		if parsed, ok := ParseTimeString(m); ok {
			originalStr = strings.TrimSpace(m)
			target = withClock(now, parsed)
			isSpecific = true
		}
	}

	hour12 := target.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	period := "AM"
	if target.Hour() >= 12 {
		period = "PM"
	}

	minuteDiff := (target.Hour()-now.Hour())*60 + (target.Minute() - now.Minute())
	relative := ""
	switch {
	case !isSpecific:
		relative = "now"
	case minuteDiff >= -5 && minuteDiff < 0:
		relative = fmt.Sprintf("%d minutes ago", -minuteDiff)
	case minuteDiff > 0 && minuteDiff <= 5:
		relative = fmt.Sprintf("in %d minutes", minuteDiff)
	}

	return skill.Result{Data: map[string]any{
		"time":                 target.Format("15:04"),
		"formatted_time":       strings.TrimPrefix(target.Format("03:04 PM"), "0"),
		"digital_time":         target.Format("15:04"),
		"speech_time":          FormatTimeForSpeech(target),
		"natural_time":         FormatTimeWords(target),
		"hour":                 target.Hour(),
		"minute":               target.Minute(),
		"second":               target.Second(),
		"hour_12":              hour12,
		"period":               period,
		"time_of_day":          TimePeriod(target.Hour()),
		"is_specific_time":     isSpecific,
		"original_time_str":    originalStr,
		"is_current_time":      !isSpecific,
		"relative_description": relative,
		"timezone":             "local",
	}}, nil
}

// FormatTimeForSpeech renders a time the way it is naturally read aloud:
// "2 PM", "2 oh 5 PM", "2 30 PM".
func FormatTimeForSpeech(t time.Time) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	period := "AM"
	if t.Hour() >= 12 {
		period = "PM"
	}

	switch minute := t.Minute(); {
	case minute == 0:
		return fmt.Sprintf("%d %s", hour12, period)
	case minute < 10:
		return fmt.Sprintf("%d oh %d %s", hour12, minute, period)
	default:
		return fmt.Sprintf("%d %d %s", hour12, minute, period)
	}
}

// FormatTimeWords renders a time in words: "quarter past 2 in the
// afternoon", "10 minutes to 6 in the evening".
func FormatTimeWords(t time.Time) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	nextHour := hour12%12 + 1

	var period string
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		period = "in the morning"
	case h >= 12 && h < 17:
		period = "in the afternoon"
	case h >= 17 && h < 21:
		period = "in the evening"
	default:
		period = "at night"
	}

	switch minute := t.Minute(); {
	case minute == 0:
		return fmt.Sprintf("%d o'clock %s", hour12, period)
	case minute == 15:
		return fmt.Sprintf("quarter past %d %s", hour12, period)
	case minute == 30:
		return fmt.Sprintf("half past %d %s", hour12, period)
	case minute == 45:
		return fmt.Sprintf("quarter to %d %s", nextHour, period)
	case minute < 30:
		return fmt.Sprintf("%d minutes past %d %s", minute, hour12, period)
	default:
		return fmt.Sprintf("%d minutes to %d %s", 60-minute, nextHour, period)
	}
}

// TimePeriod names the part of day for an hour.
func TimePeriod(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// ParseTimeString parses a spoken or written time in the formats the
// assistant hears: "14:30", "2:30 PM", "3 o'clock", "quarter past 3",
// "10 to 4", "half past 3".
func ParseTimeString(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, strings.ToUpper(trimmed)); err == nil {
			return t, true
		}
	}

	lower := strings.ToLower(trimmed)
	pmShift := 0
	if strings.Contains(lower, "pm") {
		pmShift = 12
	}

	if m := oclockRe.FindStringSubmatch(lower); m != nil {
		hour := atoi(m[1])%12 + pmShift
		return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC), true
	}
	if m := halfPastRe.FindStringSubmatch(lower); m != nil {
		hour := atoi(m[1])%12 + pmShift
		return time.Date(0, 1, 1, hour, 30, 0, 0, time.UTC), true
	}
	if m := pastRe.FindStringSubmatch(lower); m != nil {
		minute := 15
		if m[1] != "" {
			minute = atoi(m[1])
		}
		hour := atoi(m[2])%12 + pmShift
		if minute < 60 {
			return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC), true
		}
	}
	if m := toRe.FindStringSubmatch(lower); m != nil {
		minute := 45
		if m[1] != "" {
			minute = 60 - atoi(m[1])
		}
		hour := (atoi(m[2])-1)%12 + pmShift
		if minute >= 0 && minute < 60 {
			return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// withClock keeps now's date but replaces the clock time.
func withClock(now, parsed time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, now.Location())
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
