// Package dateskill answers date inquiries: today's date by default, or a
// date referenced in the utterance, with speech-friendly formatting and
// relative descriptions.
package dateskill

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/xhyrom/jim/internal/skill"
)

// Intent is the intent name this package handles.
const Intent = "get_date"

// Register binds the handler into the registry.
func Register(r *skill.Registry) {
	r.Register(Intent, GetDate)
}

// layouts are the date formats tried when parsing a specific date string.
var layouts = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"Jan 2 2006",
}

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
)

// GetDate handles the get_date intent.
func GetDate(ctx context.Context, req skill.Request) (skill.Result, error) {
	now := time.Now()
	today := truncateToDay(now)
	target := today
	isSpecific := false
	var originalStr string

	if matches := req.Entities["date"]; len(matches) > 0 {
		value := matches[0].Value
		switch value["type"] {
		case "relative":
			switch value["relative"] {
			case "tomorrow":
				target = today.AddDate(0, 0, 1)
			case "yesterday":
				target = today.AddDate(0, 0, -1)
			}
		default:
			if dateStr, ok := value["date"].(string); ok {
				if parsed, ok := ParseDateString(dateStr); ok {
					originalStr = dateStr
					target = parsed
					isSpecific = true
				}
			}
		}
	} else {
		// No entity; scan the raw text for a literal date.
		for _, re := range []*regexp.Regexp{isoDateRe, slashDateRe} {
			if m := re.FindString(req.Text); m != "" {
				if parsed, ok := ParseDateString(m); ok {
					originalStr = m
					target = parsed
					isSpecific = true
					break
				}
			}
		}
	}

	daysDiff := int(target.Sub(today).Hours() / 24)
	relative := ""
	switch {
	case daysDiff == 0:
		relative = "today"
	case daysDiff == 1:
		relative = "tomorrow"
	case daysDiff == -1:
		relative = "yesterday"
	case daysDiff > 1 && daysDiff <= 7:
		relative = fmt.Sprintf("%d days from now", daysDiff)
	case daysDiff >= -7 && daysDiff < -1:
		relative = fmt.Sprintf("%d days ago", -daysDiff)
	}

	return skill.Result{Data: map[string]any{
		"date":                 target.Format("2006-01-02"),
		"formatted_date":       FormatDateForSpeech(target),
		"day_of_week":          target.Format("Monday"),
		"is_specific_date":     isSpecific,
		"original_date_str":    originalStr,
		"is_today":             daysDiff == 0,
		"is_future":            daysDiff > 0,
		"is_past":              daysDiff < 0,
		"days_from_today":      daysDiff,
		"relative_description": relative,
		"timezone":             "local",
	}}, nil
}

// FormatDateForSpeech renders a date the way it is read aloud:
// "June 5th, 2025".
func FormatDateForSpeech(d time.Time) string {
	return fmt.Sprintf("%s %d%s, %d",
		d.Format("January"), d.Day(), OrdinalSuffix(d.Day()), d.Year())
}

// OrdinalSuffix returns the English ordinal suffix for a day number.
func OrdinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// ParseDateString parses a date in any of the supported formats.
func ParseDateString(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
