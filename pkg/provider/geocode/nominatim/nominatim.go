// Package nominatim implements geocode.Geocoder against the OpenStreetMap
// Nominatim search API, with IP-based self-location via ip-api.com.
package nominatim

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

	"github.com/xhyrom/jim/pkg/provider/geocode"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org/"
	ipAPIURL       = "http://ip-api.com/json/"
)

// Geocoder is a Nominatim-backed geocode.Geocoder. Safe for concurrent use;
// all requests share one HTTP client.
type Geocoder struct {
	baseURL   string
	userAgent string
	ipURL     string
	client    *http.Client
}

// Option configures a Geocoder.
type Option func(*Geocoder)

// WithBaseURL overrides the Nominatim base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(g *Geocoder) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		g.baseURL = u
	}
}

// WithIPAPIURL overrides the IP geolocation endpoint, mainly for tests.
func WithIPAPIURL(u string) Option {
	return func(g *Geocoder) { g.ipURL = u }
}

// New creates a Geocoder. Nominatim's usage policy requires an identifying
// User-Agent, so userAgent must not be empty.
func New(userAgent string, opts ...Option) (*Geocoder, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("nominatim: userAgent must not be empty")
	}
	g := &Geocoder{
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
		ipURL:     ipAPIURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// searchResult is the subset of a Nominatim search hit we consume.
type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		Country string `json:"country"`
		City    string `json:"city"`
		Town    string `json:"town"`
	} `json:"address"`
}

// Geocode implements geocode.Geocoder.
func (g *Geocoder) Geocode(ctx context.Context, place string) (*geocode.Location, error) {
	q := url.Values{
		"q":              {place},
		"format":         {"json"},
		"limit":          {"1"},
		"addressdetails": {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("nominatim: search returned %d: %s", resp.StatusCode, msg)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim: decode search response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	hit := results[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse latitude %q: %w", hit.Lat, err)
	}
	lon, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse longitude %q: %w", hit.Lon, err)
	}

	city := hit.Address.City
	if city == "" {
		city = hit.Address.Town
	}
	name := hit.DisplayName
	if name == "" {
		name = place
	}
	return &geocode.Location{
		Name:    name,
		Lat:     lat,
		Lon:     lon,
		Country: hit.Address.Country,
		City:    city,
	}, nil
}

// ipResult is the subset of an ip-api.com response we consume.
type ipResult struct {
	Status  string  `json:"status"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate implements geocode.Geocoder using the caller's public IP.
func (g *Geocoder) Locate(ctx context.Context) (*geocode.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.ipURL, nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: build locate request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: locate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var out ipResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("nominatim: decode locate response: %w", err)
	}
	if out.Status != "success" {
		return nil, nil
	}

	return &geocode.Location{
		Name:    out.City + ", " + out.Country,
		Lat:     out.Lat,
		Lon:     out.Lon,
		Country: out.Country,
		City:    out.City,
	}, nil
}

var _ geocode.Geocoder = (*Geocoder)(nil)
