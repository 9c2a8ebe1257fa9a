package echo

import (
	"strings"
	"time"
)

// SelectorFunc maps a handler's data context to a response key of the form
// "<intent>.<context>".
type SelectorFunc func(context map[string]any) string

// Selector resolves the response key for an intent. Intents without a
// registered selector use "<intent>.default".
//
// Safe for concurrent use after construction.
type Selector struct {
	selectors map[string]SelectorFunc
}

// NewSelector creates a Selector preloaded with the built-in intent
// mappings. Additional selectors may be registered before first use.
func NewSelector() *Selector {
	s := &Selector{selectors: make(map[string]SelectorFunc)}
	s.Register("get_time", selectTime)
	s.Register("get_date", selectDate)
	s.Register("greeting", selectGreeting)
	s.Register("get_weather", selectWeather)
	s.Register("get_temperature", selectTemperature)
	s.Register("get_precipitation", selectPrecipitation)
	s.Register("get_wind", selectWind)
	return s
}

// Register binds intent to fn, replacing any prior binding.
func (s *Selector) Register(intent string, fn SelectorFunc) {
	s.selectors[intent] = fn
}

// Select returns the response key for intent given the handler's context.
func (s *Selector) Select(intent string, context map[string]any) string {
	if fn, ok := s.selectors[intent]; ok {
		return fn(context)
	}
	return intent + ".default"
}

// contextHour pulls an hour from context["hour"], defaulting to the current
// clock when absent.
func contextHour(context map[string]any) int {
	if h, ok := context["hour"].(int); ok {
		return h
	}
	return time.Now().Hour()
}

func hasValue(context map[string]any, key string) bool {
	v, ok := context[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

func boolValue(context map[string]any, key string) bool {
	b, _ := context[key].(bool)
	return b
}

func stringValue(context map[string]any, key string) string {
	s, _ := context[key].(string)
	return s
}

// hasNonTodayDate reports whether the context carries a date other than
// "today"; the date template variants only apply when the user asked about
// another day.
func hasNonTodayDate(context map[string]any) bool {
	return hasValue(context, "date") && stringValue(context, "date") != "today"
}

func selectTime(context map[string]any) string {
	if boolValue(context, "formal_mode") {
		return "get_time.formal"
	}
	hour := contextHour(context)
	switch {
	case hour < 12:
		return "get_time.morning"
	case hour >= 18:
		return "get_time.evening"
	default:
		return "get_time.casual"
	}
}

func selectDate(context map[string]any) string {
	if include, ok := context["include_day_of_week"].(bool); ok && !include {
		return "get_date.standard"
	}
	return "get_date.with_day"
}

func selectGreeting(context map[string]any) string {
	if boolValue(context, "formal_mode") {
		return "greeting.default"
	}
	hour := contextHour(context)
	switch {
	case hour >= 5 && hour < 12:
		return "greeting.morning"
	case hour >= 12 && hour < 18:
		return "greeting.afternoon"
	default:
		return "greeting.evening"
	}
}

func selectWeather(context map[string]any) string {
	hasLocation := hasValue(context, "location")
	hasDate := hasNonTodayDate(context)

	if boolValue(context, "has_precipitation") {
		if hasLocation {
			return "get_weather.with_precipitation_location"
		}
		return "get_weather.with_precipitation"
	}
	if strings.Contains(stringValue(context, "wind"), "strong") {
		if hasLocation {
			return "get_weather.with_strong_wind_location"
		}
		return "get_weather.with_strong_wind"
	}

	switch {
	case hasLocation && hasDate:
		return "get_weather.with_location_date"
	case hasLocation:
		return "get_weather.with_location"
	case hasDate:
		return "get_weather.with_date"
	default:
		return "get_weather.default"
	}
}

func selectTemperature(context map[string]any) string {
	hasLocation := hasValue(context, "location")
	hasDate := hasNonTodayDate(context)

	if hasValue(context, "feels_like") {
		if hasLocation {
			return "get_temperature.with_feels_like_location"
		}
		return "get_temperature.with_feels_like"
	}
	switch {
	case hasLocation && hasDate:
		return "get_temperature.with_location_date"
	case hasLocation:
		return "get_temperature.with_location"
	case hasDate:
		return "get_temperature.with_date"
	default:
		return "get_temperature.default"
	}
}

func selectPrecipitation(context map[string]any) string {
	hasLocation := hasValue(context, "location")
	hasDate := hasNonTodayDate(context)

	if !boolValue(context, "has_precipitation") {
		if hasLocation {
			return "get_precipitation.no_rain_location"
		}
		return "get_precipitation.no_rain"
	}
	if strings.Contains(strings.ToLower(stringValue(context, "text")), "umbrella") {
		return "get_precipitation.with_umbrella"
	}

	switch {
	case hasLocation && hasDate:
		return "get_precipitation.with_location_date"
	case hasLocation:
		return "get_precipitation.with_location"
	case hasDate:
		return "get_precipitation.with_date"
	default:
		return "get_precipitation.default"
	}
}

func selectWind(context map[string]any) string {
	hasLocation := hasValue(context, "location")
	hasDate := hasNonTodayDate(context)

	switch {
	case hasLocation && hasDate:
		return "get_wind.with_location_date"
	case hasLocation:
		return "get_wind.with_location"
	case hasDate:
		return "get_wind.with_date"
	default:
		return "get_wind.default"
	}
}
