// Package mock provides a weather.Service test double. It also backs the
// "mock" weather implementation in production configuration so the weather
// skill works without an API key.
package mock

import (
	"context"
	"sync"

	"github.com/xhyrom/jim/pkg/provider/weather"
)

// Service is a canned weather.Service. Zero value returns a mild clear day.
// Safe for concurrent use.
type Service struct {
	mu sync.Mutex

	// Observation overrides the default canned observation when non-nil.
	Observation *weather.Observation

	// Forecast overrides the default canned forecast when non-nil.
	Forecast *weather.Forecast

	// Err, if non-nil, is returned by both methods.
	Err error

	// Calls counts method invocations.
	Calls int
}

// CurrentWeather implements weather.Service.
func (s *Service) CurrentWeather(ctx context.Context, lat, lon float64, units weather.Units) (*weather.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Observation != nil {
		obs := *s.Observation
		return &obs, nil
	}

	obs := weather.Observation{
		Temperature: 21.5,
		FeelsLike:   21.0,
		Pressure:    1014,
		Humidity:    45,
		Condition:   "Clear",
		Description: "clear sky",
		WindSpeed:   3.2,
		Clouds:      5,
		Units:       units,
	}
	if units == weather.UnitsImperial {
		obs.Temperature = 70.7
		obs.FeelsLike = 69.8
		obs.WindSpeed = 7.2
	}
	return &obs, nil
}

// ForecastWeather implements weather.Service.
func (s *Service) ForecastWeather(ctx context.Context, lat, lon float64, units weather.Units) (*weather.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Forecast != nil {
		fc := *s.Forecast
		return &fc, nil
	}

	fc := weather.Forecast{Units: units}
	for i := 0; i < 24; i++ {
		fc.Hourly = append(fc.Hourly, weather.ForecastHour{
			Timestamp:   int64(i) * 3600,
			Temperature: 20,
			FeelsLike:   19,
			Condition:   "Clear",
			Description: "clear sky",
		})
	}
	for i := 0; i < 7; i++ {
		fc.Daily = append(fc.Daily, weather.ForecastDay{
			Timestamp:   int64(i) * 86400,
			TempMin:     14,
			TempMax:     24,
			Condition:   "Clear",
			Description: "clear sky",
		})
	}
	return &fc, nil
}

var _ weather.Service = (*Service)(nil)
