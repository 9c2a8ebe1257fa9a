// Package weatherskill answers weather, temperature, precipitation, and wind
// inquiries by resolving the spoken location to coordinates and querying the
// configured weather service.
package weatherskill

import (
	"context"
	"fmt"
	"strings"

	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/skill"
	"github.com/xhyrom/jim/pkg/provider/geocode"
	"github.com/xhyrom/jim/pkg/provider/weather"
)

// Intents handled by this package.
const (
	WeatherIntent       = "get_weather"
	TemperatureIntent   = "get_temperature"
	PrecipitationIntent = "get_precipitation"
	WindIntent          = "get_wind"
)

// herePhrases are location surface forms meaning "where the device is".
var herePhrases = map[string]bool{
	"here":                  true,
	"current location":      true,
	"this place":            true,
	"your current location": true,
}

// strongWindThreshold is the wind speed (m/s or mph per configured units)
// at or above which the wind is described as strong.
const strongWindThreshold = 10.0

// Skill bundles the weather handlers and their backends.
type Skill struct {
	Service  weather.Service
	Geocoder geocode.Geocoder
	Units    weather.Units
}

// New creates a Skill over the given backends.
func New(service weather.Service, geocoder geocode.Geocoder, units weather.Units) *Skill {
	if units == "" {
		units = weather.UnitsMetric
	}
	return &Skill{Service: service, Geocoder: geocoder, Units: units}
}

// Register binds all four handlers into the registry.
func (s *Skill) Register(r *skill.Registry) {
	r.Register(WeatherIntent, s.GetWeather)
	r.Register(TemperatureIntent, s.GetTemperature)
	r.Register(PrecipitationIntent, s.GetPrecipitation)
	r.Register(WindIntent, s.GetWind)
}

// observation resolves the location and fetches current conditions, giving
// every handler the same base context.
func (s *Skill) observation(ctx context.Context, req skill.Request) (*weather.Observation, *geocode.Location, string, error) {
	loc, err := s.resolveLocation(ctx, req.Entities)
	if err != nil {
		return nil, nil, "", err
	}

	obs, err := s.Service.CurrentWeather(ctx, loc.Lat, loc.Lon, s.Units)
	if err != nil {
		return nil, nil, "", fmt.Errorf("weatherskill: current weather: %w", err)
	}

	return obs, loc, dateContext(req.Entities), nil
}

// resolveLocation turns the location entity (or its absence) into
// coordinates. "Here"-style phrases and missing locations geolocate the
// device by IP.
func (s *Skill) resolveLocation(ctx context.Context, entities map[string][]echo.Match) (*geocode.Location, error) {
	name := locationName(entities)

	if name == "" || herePhrases[strings.ToLower(name)] {
		loc, err := s.Geocoder.Locate(ctx)
		if err != nil {
			return nil, fmt.Errorf("weatherskill: locate device: %w", err)
		}
		if loc == nil {
			return nil, fmt.Errorf("weatherskill: could not determine current location")
		}
		return loc, nil
	}

	loc, err := s.Geocoder.Geocode(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("weatherskill: geocode %q: %w", name, err)
	}
	if loc == nil {
		return nil, fmt.Errorf("weatherskill: unknown location %q", name)
	}
	return loc, nil
}

// locationName pulls the spoken location out of the entity matches.
func locationName(entities map[string][]echo.Match) string {
	matches := entities["location"]
	if len(matches) == 0 {
		return ""
	}
	if name, ok := matches[0].Value["name"].(string); ok {
		return name
	}
	return matches[0].RawValue
}

// dateContext reduces the date entity to the selector's vocabulary: "today",
// a relative word, or the raw reference.
func dateContext(entities map[string][]echo.Match) string {
	matches := entities["date"]
	if len(matches) == 0 {
		return "today"
	}
	value := matches[0].Value
	if rel, ok := value["relative"].(string); ok {
		return rel
	}
	if d, ok := value["date"].(string); ok {
		return d
	}
	return "today"
}

// spokenPlace prefers the city over the full display name.
func spokenPlace(loc *geocode.Location) string {
	if loc.City != "" {
		return loc.City
	}
	return loc.Name
}

// windPhrase describes the wind for the selector and templates.
func windPhrase(speed float64) string {
	switch {
	case speed >= strongWindThreshold:
		return "strong winds"
	case speed >= strongWindThreshold/2:
		return "moderate winds"
	default:
		return "light winds"
	}
}

// baseContext is the rendering context shared by all four handlers.
func (s *Skill) baseContext(obs *weather.Observation, loc *geocode.Location, date, text string) map[string]any {
	return map[string]any{
		"location":          spokenPlace(loc),
		"date":              date,
		"text":              text,
		"condition":         obs.Description,
		"temperature":       fmt.Sprintf("%.1f", obs.Temperature),
		"feels_like":        fmt.Sprintf("%.1f", obs.FeelsLike),
		"temp_unit":         s.Units.TempUnit(),
		"humidity":          fmt.Sprintf("%d%%", obs.Humidity),
		"wind_speed":        fmt.Sprintf("%.1f", obs.WindSpeed),
		"wind_unit":         s.Units.WindUnit(),
		"wind":              windPhrase(obs.WindSpeed),
		"has_precipitation": obs.Rain > 0 || obs.Snow > 0,
	}
}

// GetWeather handles the get_weather intent.
func (s *Skill) GetWeather(ctx context.Context, req skill.Request) (skill.Result, error) {
	obs, loc, date, err := s.observation(ctx, req)
	if err != nil {
		return skill.Result{}, err
	}
	return skill.Result{Data: s.baseContext(obs, loc, date, req.Text)}, nil
}

// GetTemperature handles the get_temperature intent.
func (s *Skill) GetTemperature(ctx context.Context, req skill.Request) (skill.Result, error) {
	obs, loc, date, err := s.observation(ctx, req)
	if err != nil {
		return skill.Result{}, err
	}

	data := s.baseContext(obs, loc, date, req.Text)
	// Only surface feels-like when it differs noticeably; the selector
	// prefers the feels-like template whenever the key holds a non-empty value.
	if diff := obs.FeelsLike - obs.Temperature; diff < -1 || diff > 1 {
		data["feels_like"] = fmt.Sprintf("%.1f", obs.FeelsLike)
	} else {
		data["feels_like"] = ""
	}
	return skill.Result{Data: data}, nil
}

// GetPrecipitation handles the get_precipitation intent, adding the
// forecast's precipitation probability for the asked day.
func (s *Skill) GetPrecipitation(ctx context.Context, req skill.Request) (skill.Result, error) {
	obs, loc, date, err := s.observation(ctx, req)
	if err != nil {
		return skill.Result{}, err
	}

	data := s.baseContext(obs, loc, date, req.Text)
	data["precipitation_chance"] = "0%"

	fc, err := s.Service.ForecastWeather(ctx, loc.Lat, loc.Lon, s.Units)
	if err == nil && len(fc.Daily) > 0 {
		day := fc.Daily[0]
		if date == "tomorrow" && len(fc.Daily) > 1 {
			day = fc.Daily[1]
		}
		data["precipitation_chance"] = fmt.Sprintf("%.0f%%", day.Precipitation*100)
		if day.Precipitation > 0 {
			data["has_precipitation"] = true
		}
	}
	return skill.Result{Data: data}, nil
}

// GetWind handles the get_wind intent.
func (s *Skill) GetWind(ctx context.Context, req skill.Request) (skill.Result, error) {
	obs, loc, date, err := s.observation(ctx, req)
	if err != nil {
		return skill.Result{}, err
	}

	data := s.baseContext(obs, loc, date, req.Text)
	data["wind_direction"] = compassDirection(obs.WindDirection)
	return skill.Result{Data: data}, nil
}

// compassDirection names a bearing in degrees.
func compassDirection(deg int) string {
	names := []string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}
	idx := ((deg + 22) / 45) % 8
	if idx < 0 {
		idx += 8
	}
	return names[idx]
}
