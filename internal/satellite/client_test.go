package satellite_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xhyrom/jim/internal/satellite"
)

func TestClient_Ask(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v0/ask" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(satellite.AskReply{
			Status:     "ok",
			Intent:     "get_time",
			Confidence: 0.95,
			Response:   "It's two thirty.",
		})
	}))
	defer srv.Close()

	client := satellite.NewClient(srv.URL, "secret")
	reply, err := client.Ask(context.Background(), "what time is it", "alice", "kitchen")
	if err != nil {
		t.Fatalf("Ask: unexpected error: %v", err)
	}

	if reply.Intent != "get_time" || reply.Response != "It's two thirty." {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization: expected bearer token, got %q", gotAuth)
	}
	if gotBody["text"] != "what time is it" || gotBody["user_id"] != "alice" || gotBody["device_id"] != "kitchen" {
		t.Errorf("unexpected body: %v", gotBody)
	}
}

func TestClient_AskNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := satellite.NewClient(srv.URL, "")
	if _, err := client.Ask(context.Background(), "hello", "a", "b"); err == nil {
		t.Fatal("expected error for non-200 status, got nil")
	}
}

func TestClient_AskConnectionRefused(t *testing.T) {
	t.Parallel()

	client := satellite.NewClient("http://127.0.0.1:1", "")
	if _, err := client.Ask(context.Background(), "hello", "a", "b"); err == nil {
		t.Fatal("expected error for unreachable core, got nil")
	}
}
