package echo

import (
	"strconv"
	"strings"
)

// wordNumbers is the spoken-number vocabulary the number entity recognises.
var wordNumbers = map[string]int{
	"one":      1,
	"two":      2,
	"three":    3,
	"four":     4,
	"five":     5,
	"six":      6,
	"seven":    7,
	"eight":    8,
	"nine":     9,
	"ten":      10,
	"twenty":   20,
	"thirty":   30,
	"forty":    40,
	"fifty":    50,
	"hundred":  100,
	"thousand": 1000,
}

// processNumber maps number words and parses numeric literals, choosing int
// or float based on the presence of a decimal point.
func processNumber(raw string) Value {
	lower := strings.ToLower(raw)

	if n, ok := wordNumbers[lower]; ok {
		return Value{"value": n, "type": "integer", "raw": raw}
	}

	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Value{"value": f, "type": "float", "raw": raw}
		}
	} else if n, err := strconv.Atoi(raw); err == nil {
		return Value{"value": n, "type": "integer", "raw": raw}
	}

	return Value{"value": raw, "type": "unknown", "raw": raw}
}

// processLocation wraps the surface form; resolution to coordinates happens
// in the weather skill via the geocoder.
func processLocation(raw string) Value {
	return Value{"name": raw, "type": "location"}
}
