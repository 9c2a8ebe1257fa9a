package observe_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/xhyrom/jim/internal/observe"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	mp := sdkmetric.NewMeterProvider()
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: unexpected error: %v", err)
	}
	if m.AskDuration == nil || m.IntentMatches == nil || m.LLMFallbacks == nil ||
		m.HandlerErrors == nil || m.HTTPRequestDuration == nil {
		t.Fatal("expected all instruments to be initialised")
	}
}

func TestMiddleware_RecordsDuration(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: unexpected error: %v", err)
	}

	handler := observe.Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected downstream status to pass through, got %d", rec.Code)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(req.Context(), &rm); err != nil {
		t.Fatalf("collect: unexpected error: %v", err)
	}

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, metricData := range sm.Metrics {
			if metricData.Name == "jim.http.request.duration" {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected jim.http.request.duration to be recorded")
	}
}
