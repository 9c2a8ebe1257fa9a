package weatherskill_test

import (
	"context"
	"testing"

	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/skill"
	"github.com/xhyrom/jim/internal/skill/weatherskill"
	"github.com/xhyrom/jim/pkg/provider/geocode"
	geomock "github.com/xhyrom/jim/pkg/provider/geocode/mock"
	"github.com/xhyrom/jim/pkg/provider/weather"
	weathermock "github.com/xhyrom/jim/pkg/provider/weather/mock"
)

func seattle() *geocode.Location {
	return &geocode.Location{Name: "Seattle, United States", City: "Seattle", Lat: 47.6, Lon: -122.3}
}

func locationEntity(name string) map[string][]echo.Match {
	return map[string][]echo.Match{
		"location": {{
			Entity:   "location",
			RawValue: name,
			Value:    echo.Value{"name": name, "type": "location"},
		}},
	}
}

func TestGetWeather_WithLocation(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{GeocodeResult: seattle()}
	svc := &weathermock.Service{Observation: &weather.Observation{
		Temperature: 18.3,
		FeelsLike:   17.9,
		Humidity:    60,
		Description: "light rain",
		WindSpeed:   4.2,
		Rain:        0.4,
		Units:       weather.UnitsMetric,
	}}
	s := weatherskill.New(svc, geo, weather.UnitsMetric)

	res, err := s.GetWeather(context.Background(), skill.Request{
		Text:     "what's the weather like in Seattle",
		Entities: locationEntity("Seattle"),
	})
	if err != nil {
		t.Fatalf("GetWeather: unexpected error: %v", err)
	}

	data := res.Data
	if data["location"] != "Seattle" {
		t.Errorf("location: expected Seattle, got %v", data["location"])
	}
	if data["condition"] != "light rain" {
		t.Errorf("condition: expected light rain, got %v", data["condition"])
	}
	if data["has_precipitation"] != true {
		t.Error("expected has_precipitation with rain in the observation")
	}
	if data["temp_unit"] != "celsius" {
		t.Errorf("temp_unit: expected celsius, got %v", data["temp_unit"])
	}
	if geo.GeocodedPlaces[0] != "Seattle" {
		t.Errorf("expected the location to be geocoded, got %v", geo.GeocodedPlaces)
	}
}

func TestGetWeather_HereUsesIPLocation(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{LocateResult: seattle()}
	s := weatherskill.New(&weathermock.Service{}, geo, weather.UnitsMetric)

	res, err := s.GetWeather(context.Background(), skill.Request{
		Text:     "what's the weather like here",
		Entities: locationEntity("here"),
	})
	if err != nil {
		t.Fatalf("GetWeather: unexpected error: %v", err)
	}
	if res.Data["location"] != "Seattle" {
		t.Errorf("location: expected the located city, got %v", res.Data["location"])
	}
	if len(geo.GeocodedPlaces) != 0 {
		t.Errorf("expected no geocoding for 'here', got %v", geo.GeocodedPlaces)
	}
}

func TestGetWeather_NoLocationEntityLocates(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{LocateResult: seattle()}
	s := weatherskill.New(&weathermock.Service{}, geo, weather.UnitsMetric)

	if _, err := s.GetWeather(context.Background(), skill.Request{Text: "what's the weather like"}); err != nil {
		t.Fatalf("GetWeather: unexpected error: %v", err)
	}
}

func TestGetWeather_UnknownLocationErrors(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{} // Geocode returns nil: not found
	s := weatherskill.New(&weathermock.Service{}, geo, weather.UnitsMetric)

	if _, err := s.GetWeather(context.Background(), skill.Request{
		Entities: locationEntity("Atlantis"),
	}); err == nil {
		t.Fatal("expected error for unknown location, got nil")
	}
}

func TestGetWeather_DateContext(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{GeocodeResult: seattle()}
	s := weatherskill.New(&weathermock.Service{}, geo, weather.UnitsMetric)

	entities := locationEntity("Seattle")
	entities["date"] = []echo.Match{{
		Entity:   "date",
		RawValue: "tomorrow",
		Value:    echo.Value{"type": "relative", "relative": "tomorrow"},
	}}

	res, err := s.GetWeather(context.Background(), skill.Request{
		Text:     "what's the weather like in Seattle tomorrow",
		Entities: entities,
	})
	if err != nil {
		t.Fatalf("GetWeather: unexpected error: %v", err)
	}
	if res.Data["date"] != "tomorrow" {
		t.Errorf("date: expected tomorrow, got %v", res.Data["date"])
	}
}

func TestGetTemperature_FeelsLike(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{GeocodeResult: seattle()}
	svc := &weathermock.Service{Observation: &weather.Observation{
		Temperature: 20.0,
		FeelsLike:   16.5,
		Units:       weather.UnitsMetric,
	}}
	s := weatherskill.New(svc, geo, weather.UnitsMetric)

	res, err := s.GetTemperature(context.Background(), skill.Request{Entities: locationEntity("Seattle")})
	if err != nil {
		t.Fatalf("GetTemperature: unexpected error: %v", err)
	}
	if res.Data["feels_like"] != "16.5" {
		t.Errorf("feels_like: expected 16.5, got %v", res.Data["feels_like"])
	}
}

func TestGetTemperature_FeelsLikeSuppressedWhenClose(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{GeocodeResult: seattle()}
	svc := &weathermock.Service{Observation: &weather.Observation{
		Temperature: 20.0,
		FeelsLike:   20.4,
		Units:       weather.UnitsMetric,
	}}
	s := weatherskill.New(svc, geo, weather.UnitsMetric)

	res, err := s.GetTemperature(context.Background(), skill.Request{Entities: locationEntity("Seattle")})
	if err != nil {
		t.Fatalf("GetTemperature: unexpected error: %v", err)
	}
	if res.Data["feels_like"] != "" {
		t.Errorf("feels_like: expected suppression, got %v", res.Data["feels_like"])
	}
}

func TestGetPrecipitation_ForecastChance(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{GeocodeResult: seattle()}
	svc := &weathermock.Service{
		Forecast: &weather.Forecast{
			Daily: []weather.ForecastDay{
				{Precipitation: 0.1},
				{Precipitation: 0.8},
			},
		},
	}
	s := weatherskill.New(svc, geo, weather.UnitsMetric)

	entities := locationEntity("Seattle")
	entities["date"] = []echo.Match{{
		Entity: "date",
		Value:  echo.Value{"type": "relative", "relative": "tomorrow"},
	}}
	res, err := s.GetPrecipitation(context.Background(), skill.Request{Entities: entities})
	if err != nil {
		t.Fatalf("GetPrecipitation: unexpected error: %v", err)
	}
	if res.Data["precipitation_chance"] != "80%" {
		t.Errorf("chance: expected 80%%, got %v", res.Data["precipitation_chance"])
	}
	if res.Data["has_precipitation"] != true {
		t.Error("expected has_precipitation from the forecast")
	}
}

func TestGetWind(t *testing.T) {
	t.Parallel()

	geo := &geomock.Geocoder{GeocodeResult: seattle()}
	svc := &weathermock.Service{Observation: &weather.Observation{
		WindSpeed:     12.5,
		WindDirection: 270,
		Units:         weather.UnitsMetric,
	}}
	s := weatherskill.New(svc, geo, weather.UnitsMetric)

	res, err := s.GetWind(context.Background(), skill.Request{Entities: locationEntity("Seattle")})
	if err != nil {
		t.Fatalf("GetWind: unexpected error: %v", err)
	}
	if res.Data["wind"] != "strong winds" {
		t.Errorf("wind: expected strong winds, got %v", res.Data["wind"])
	}
	if res.Data["wind_direction"] != "west" {
		t.Errorf("direction: expected west, got %v", res.Data["wind_direction"])
	}
}
