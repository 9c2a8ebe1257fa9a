// Package server exposes the core's HTTP surface: the root banner, the
// health probe, the Prometheus metrics endpoint, and POST /v0/ask, which
// runs a text query through the intent pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xhyrom/jim/internal/echo"
	"github.com/xhyrom/jim/internal/observe"
	"github.com/xhyrom/jim/internal/skill"
)

// Defaults for optional ask fields.
const (
	defaultUserID   = "default"
	defaultDeviceID = "unknown"
	defaultLang     = "en"
)

// askRequest is the POST /v0/ask body.
type askRequest struct {
	Text     string `json:"text"`
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
	Lang     string `json:"lang"`
}

// askResponse is the POST /v0/ask reply envelope.
type askResponse struct {
	Status     string  `json:"status"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
	Action     string  `json:"action,omitempty"`
}

// Server handles the core's HTTP routes. Safe for concurrent use.
type Server struct {
	engine     *echo.Engine
	dispatcher *skill.Dispatcher
	metrics    *observe.Metrics
}

// New wires a Server. metrics may be nil in tests; ask-level instruments are
// skipped then.
func New(engine *echo.Engine, dispatcher *skill.Dispatcher, metrics *observe.Metrics) *Server {
	return &Server{engine: engine, dispatcher: dispatcher, metrics: metrics}
}

// Handler builds the route table with the observability middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v0/ask", s.handleAsk)
	mux.Handle("GET /metrics", promhttp.Handler())

	if s.metrics != nil {
		return observe.Middleware(s.metrics)(mux)
	}
	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("core listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "welcome",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error",
			"error":  "invalid JSON body",
		})
		return
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}
	if req.DeviceID == "" {
		req.DeviceID = defaultDeviceID
	}
	if req.Lang == "" {
		req.Lang = defaultLang
	}

	result := s.engine.Process(req.Text)
	reply := s.dispatcher.Dispatch(r.Context(), result, req.UserID, req.DeviceID)

	if s.metrics != nil {
		s.metrics.AskDuration.Record(r.Context(), time.Since(start).Seconds())
		s.metrics.IntentMatches.Add(r.Context(), 1, metric.WithAttributes(
			attribute.String("intent", reply.Intent),
		))
	}

	slog.Debug("ask handled",
		"intent", reply.Intent,
		"confidence", reply.Confidence,
		"user_id", req.UserID,
		"device_id", req.DeviceID,
		"lang", req.Lang,
	)

	writeJSON(w, http.StatusOK, askResponse{
		Status:     "ok",
		Intent:     reply.Intent,
		Confidence: reply.Confidence,
		Response:   reply.Response,
		Action:     reply.Action,
	})
}

// writeJSON encodes v with the given status code. On encoding failure it
// falls back to a plain 500 response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
