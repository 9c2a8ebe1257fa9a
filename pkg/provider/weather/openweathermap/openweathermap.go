// Package openweathermap implements weather.Service against the
// OpenWeatherMap data API (the /weather and /forecast endpoints).
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xhyrom/jim/pkg/provider/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/"

// Service is an OpenWeatherMap-backed weather.Service. Safe for concurrent
// use; all requests share one HTTP client.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Service.
type Option func(*Service)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(s *Service) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		s.baseURL = u
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

// New creates a Service with the given API key.
func New(apiKey string, opts ...Option) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openweathermap: apiKey must not be empty")
	}
	s := &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// currentResponse is the subset of the /weather payload we consume.
type currentResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneH float64 `json:"1h"`
	} `json:"snow"`
	Dt int64 `json:"dt"`
}

// CurrentWeather implements weather.Service.
func (s *Service) CurrentWeather(ctx context.Context, lat, lon float64, units weather.Units) (*weather.Observation, error) {
	var out currentResponse
	if err := s.get(ctx, "weather", lat, lon, units, nil, &out); err != nil {
		return nil, err
	}

	obs := &weather.Observation{
		Temperature:   out.Main.Temp,
		FeelsLike:     out.Main.FeelsLike,
		Pressure:      out.Main.Pressure,
		Humidity:      out.Main.Humidity,
		WindSpeed:     out.Wind.Speed,
		WindDirection: out.Wind.Deg,
		Clouds:        out.Clouds.All,
		Rain:          out.Rain.OneH,
		Snow:          out.Snow.OneH,
		Timestamp:     out.Dt,
		Units:         units,
	}
	if len(out.Weather) > 0 {
		obs.Condition = out.Weather[0].Main
		obs.Description = out.Weather[0].Description
	}
	return obs, nil
}

// forecastResponse is the subset of the /forecast payload we consume. The
// endpoint returns 3-hourly slots; daily values are aggregated client-side.
type forecastResponse struct {
	List []struct {
		Dt    int64  `json:"dt"`
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// ForecastWeather implements weather.Service.
func (s *Service) ForecastWeather(ctx context.Context, lat, lon float64, units weather.Units) (*weather.Forecast, error) {
	var out forecastResponse
	if err := s.get(ctx, "forecast", lat, lon, units, url.Values{"cnt": {"40"}}, &out); err != nil {
		return nil, err
	}

	fc := &weather.Forecast{Units: units}
	daily := make(map[string]*weather.ForecastDay)
	var dayOrder []string

	for _, item := range out.List {
		hour := weather.ForecastHour{
			Timestamp:     item.Dt,
			Temperature:   item.Main.Temp,
			FeelsLike:     item.Main.FeelsLike,
			Precipitation: item.Pop,
		}
		if len(item.Weather) > 0 {
			hour.Condition = item.Weather[0].Main
			hour.Description = item.Weather[0].Description
		}
		fc.Hourly = append(fc.Hourly, hour)

		date, _, _ := strings.Cut(item.DtTxt, " ")
		day, ok := daily[date]
		if !ok {
			day = &weather.ForecastDay{
				Timestamp:     item.Dt,
				TempMin:       item.Main.TempMin,
				TempMax:       item.Main.TempMax,
				Condition:     hour.Condition,
				Description:   hour.Description,
				Precipitation: item.Pop,
			}
			daily[date] = day
			dayOrder = append(dayOrder, date)
			continue
		}
		if item.Main.TempMin < day.TempMin {
			day.TempMin = item.Main.TempMin
		}
		if item.Main.TempMax > day.TempMax {
			day.TempMax = item.Main.TempMax
		}
		if item.Pop > day.Precipitation {
			day.Precipitation = item.Pop
		}
	}

	for _, date := range dayOrder {
		fc.Daily = append(fc.Daily, *daily[date])
	}
	return fc, nil
}

// get performs one API request and decodes the JSON body into out.
func (s *Service) get(ctx context.Context, endpoint string, lat, lon float64, units weather.Units, extra url.Values, out any) error {
	q := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"units": {string(units)},
		"appid": {s.apiKey},
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("openweathermap: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openweathermap: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("openweathermap: %s returned %d: %s", endpoint, resp.StatusCode, msg)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openweathermap: decode %s response: %w", endpoint, err)
	}
	return nil
}

var _ weather.Service = (*Service)(nil)
