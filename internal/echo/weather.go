package echo

import (
	"regexp"
	"strconv"
	"strings"
)

// conditionMap folds surface weather words into canonical condition tags.
var conditionMap = map[string]string{
	"sunny":         "clear",
	"clear":         "clear",
	"cloudy":        "cloudy",
	"overcast":      "cloudy",
	"rainy":         "rain",
	"raining":       "rain",
	"rain":          "rain",
	"showers":       "rain",
	"snowy":         "snow",
	"snowing":       "snow",
	"snow":          "snow",
	"stormy":        "storm",
	"thunderstorms": "storm",
	"thunderstorm":  "storm",
	"windy":         "windy",
	"foggy":         "fog",
	"misty":         "fog",
	"hailing":       "hail",
	"hail":          "hail",
	"sleeting":      "sleet",
	"sleet":         "sleet",
}

var (
	tempRe        = regexp.MustCompile(`^(\d+)\s*(?:degrees|°)\s*(c|f|celsius|fahrenheit)?`)
	precipChance  = regexp.MustCompile(`^(\d+)%\s+chance of (rain|snow|sleet|hail|showers|thunderstorms)`)
	precipIntense = regexp.MustCompile(`^(light|moderate|heavy)\s+(rain|snow|sleet|hail|showers|drizzle|downpour)`)
	windSpeedRe   = regexp.MustCompile(`^(\d+)\s+(mph|kmh|knots)\s+(north|south|east|west|northeast|northwest|southeast|southwest)?\s*wind`)
	windDescRe    = regexp.MustCompile(`^(light|moderate|strong|high|gale force)\s+(winds?|breeze)`)
)

// tempDescriptions maps descriptive temperature words to rough estimates.
var tempDescriptions = map[string]struct {
	rangeName string
	estimate  int
}{
	"freezing": {"below_freezing", 32},
	"cold":     {"cold", 40},
	"cool":     {"cool", 55},
	"mild":     {"mild", 65},
	"warm":     {"warm", 75},
	"hot":      {"hot", 85},
	"boiling":  {"very_hot", 95},
}

// windSpeedEstimates maps wind intensity words to mph estimates.
var windSpeedEstimates = map[string]int{
	"light":      5,
	"moderate":   15,
	"strong":     25,
	"high":       35,
	"gale force": 45,
}

// processWeatherCondition folds a surface word into one of the canonical
// condition tags; unrecognised words come back as "unknown".
func processWeatherCondition(raw string) Value {
	lower := strings.ToLower(raw)
	if condition, ok := conditionMap[lower]; ok {
		return Value{"condition": condition, "description": raw}
	}
	return Value{"condition": "unknown", "description": raw}
}

// processTemperature parses "<n> degrees <unit>?" literals and descriptive
// words like "freezing" or "warm".
func processTemperature(raw string) Value {
	lower := strings.ToLower(raw)

	if m := tempRe.FindStringSubmatch(lower); m != nil {
		value, _ := strconv.Atoi(m[1])
		unit := "F"
		if m[2] == "c" || m[2] == "celsius" {
			unit = "C"
		}
		return Value{"value": value, "unit": unit, "description": raw}
	}

	if d, ok := tempDescriptions[lower]; ok {
		return Value{"range": d.rangeName, "estimate": d.estimate, "unit": "F", "description": raw}
	}

	return Value{"description": raw, "value": nil}
}

// processPrecipitation parses "<n>% chance of <type>" and
// "<intensity> <type>" forms.
func processPrecipitation(raw string) Value {
	lower := strings.ToLower(raw)

	if m := precipChance.FindStringSubmatch(lower); m != nil {
		chance, _ := strconv.Atoi(m[1])
		return Value{"type": m[2], "chance": chance, "intensity": "unknown", "description": raw}
	}
	if m := precipIntense.FindStringSubmatch(lower); m != nil {
		return Value{"type": m[2], "intensity": m[1], "chance": 100, "description": raw}
	}

	return Value{"description": raw}
}

// processWind parses "<n> <unit> <direction>? wind" and descriptive wind
// intensities.
func processWind(raw string) Value {
	lower := strings.ToLower(raw)

	if m := windSpeedRe.FindStringSubmatch(lower); m != nil {
		speed, _ := strconv.Atoi(m[1])
		direction := m[3]
		if direction == "" {
			direction = "unknown"
		}
		return Value{"speed": speed, "unit": m[2], "direction": direction, "description": raw}
	}
	if m := windDescRe.FindStringSubmatch(lower); m != nil {
		return Value{
			"intensity":   m[1],
			"type":        m[2],
			"speed":       windSpeedEstimates[m[1]],
			"unit":        "mph",
			"description": raw,
		}
	}

	return Value{"description": raw}
}
