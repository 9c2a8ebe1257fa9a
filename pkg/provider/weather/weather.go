// Package weather defines the Service interface for weather data backends.
//
// Implementations must be safe for concurrent use and must share one
// long-lived HTTP client per instance rather than creating one per call.
package weather

import "context"

// Units selects the measurement system for weather values.
type Units string

const (
	// UnitsMetric reports Celsius and metres per second.
	UnitsMetric Units = "metric"

	// UnitsImperial reports Fahrenheit and miles per hour.
	UnitsImperial Units = "imperial"
)

// TempUnit returns the spoken temperature unit for u.
func (u Units) TempUnit() string {
	if u == UnitsImperial {
		return "fahrenheit"
	}
	return "celsius"
}

// WindUnit returns the spoken wind-speed unit for u.
func (u Units) WindUnit() string {
	if u == UnitsImperial {
		return "miles per hour"
	}
	return "meters per second"
}

// Observation is a current-weather reading for one location.
type Observation struct {
	// Temperature is the air temperature in the requested units.
	Temperature float64

	// FeelsLike is the apparent temperature.
	FeelsLike float64

	// Pressure is the sea-level pressure in hPa.
	Pressure int

	// Humidity is the relative humidity percentage.
	Humidity int

	// Condition is the coarse condition group (e.g. "Clear", "Rain").
	Condition string

	// Description is the human-readable condition (e.g. "light rain").
	Description string

	// WindSpeed is in the requested units' wind unit.
	WindSpeed float64

	// WindDirection is in degrees from north.
	WindDirection int

	// Clouds is the cloud-cover percentage.
	Clouds int

	// Rain is the last-hour rainfall in mm, zero when dry.
	Rain float64

	// Snow is the last-hour snowfall in mm, zero when dry.
	Snow float64

	// Timestamp is the observation time as a Unix timestamp.
	Timestamp int64

	// Units records which measurement system the values use.
	Units Units
}

// ForecastHour is one hourly forecast slot.
type ForecastHour struct {
	Timestamp     int64
	Temperature   float64
	FeelsLike     float64
	Condition     string
	Description   string
	Precipitation float64 // probability in [0, 1]
}

// ForecastDay is one daily forecast slot.
type ForecastDay struct {
	Timestamp     int64
	TempMin       float64
	TempMax       float64
	Condition     string
	Description   string
	Precipitation float64 // probability in [0, 1]
}

// Forecast bundles hourly and daily outlooks.
type Forecast struct {
	Hourly []ForecastHour
	Daily  []ForecastDay
	Units  Units
}

// Service is the abstraction over any weather data backend.
type Service interface {
	// CurrentWeather returns the current conditions at the coordinates.
	CurrentWeather(ctx context.Context, lat, lon float64, units Units) (*Observation, error)

	// ForecastWeather returns the hourly and daily outlook at the
	// coordinates.
	ForecastWeather(ctx context.Context, lat, lon float64, units Units) (*Forecast, error)
}
