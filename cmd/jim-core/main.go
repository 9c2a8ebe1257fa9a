// Command jim-core runs the intent processing core: the HTTP surface, the
// echo intent engine, the skill handlers, and the LLM fallback.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/xhyrom/jim/internal/config"
	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/llm"
	"github.com/xhyrom/jim/internal/observe"
	"github.com/xhyrom/jim/internal/server"
	"github.com/xhyrom/jim/internal/skill"
	"github.com/xhyrom/jim/internal/skill/dateskill"
	"github.com/xhyrom/jim/internal/skill/timeskill"
	"github.com/xhyrom/jim/internal/skill/weatherskill"
	"github.com/xhyrom/jim/pkg/provider/geocode"
	"github.com/xhyrom/jim/pkg/provider/geocode/nominatim"
	"github.com/xhyrom/jim/pkg/provider/weather"
	"github.com/xhyrom/jim/pkg/provider/weather/mock"
	"github.com/xhyrom/jim/pkg/provider/weather/openweathermap"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	cfg := config.Load(*configPath)

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("jim core starting",
		"config", *configPath,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"intents_dir", cfg.IntentsDir,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "jim-core"})
	if err != nil {
		slog.Error("failed to initialise metrics provider", "err", err)
		return 1
	}
	defer func() {
		sdCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(sdCtx); err != nil {
			slog.Error("metrics shutdown error", "err", err)
		}
	}()

	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		slog.Error("failed to create metrics", "err", err)
		return 1
	}

	engine, err := echo.Load(cfg.IntentsDir)
	if err != nil {
		slog.Error("failed to load intent data", "dir", cfg.IntentsDir, "err", err)
		return 1
	}

	weatherService := buildWeatherService(cfg)
	geocoder, err := buildGeocoder(cfg)
	if err != nil {
		slog.Error("failed to build geocoder", "err", err)
		return 1
	}

	registry := skill.NewRegistry()
	timeskill.Register(registry)
	dateskill.Register(registry)
	weatherskill.New(weatherService, geocoder, weather.Units(cfg.Weather.Units)).Register(registry)
	registry.Register("greeting", skill.Greeting)

	dispatcher := skill.NewDispatcher(engine, registry, llm.New(cfg.LLM), cfg)

	srv := server.New(engine, dispatcher, metrics)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// buildWeatherService constructs the configured weather backend, degrading
// to the mock service when the real one cannot run.
func buildWeatherService(cfg *config.Config) weather.Service {
	switch cfg.Weather.Implementation {
	case "openweathermap":
		if cfg.Weather.APIKey == "" {
			slog.Warn("weather api key missing, using mock weather service")
			return &mock.Service{}
		}
		svc, err := openweathermap.New(cfg.Weather.APIKey, openweathermap.WithBaseURL(cfg.Weather.BaseURL))
		if err != nil {
			slog.Error("openweathermap unavailable, using mock weather service", "err", err)
			return &mock.Service{}
		}
		return svc
	default:
		return &mock.Service{}
	}
}

// buildGeocoder constructs the configured geocoding backend.
func buildGeocoder(cfg *config.Config) (geocode.Geocoder, error) {
	return nominatim.New(cfg.Geocoding.UserAgent, nominatim.WithBaseURL(cfg.Geocoding.BaseURL))
}
