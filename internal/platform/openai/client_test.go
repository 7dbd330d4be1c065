package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("building logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func testClient(t *testing.T, baseURL string, maxRetries int) Client {
	t.Helper()
	return NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "test-model",
		EmbedModel: "test-embed",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
	}, testLogger(t))
}

func TestEmbedParsesVectors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(req.Input))
		}
		// Return out of order to exercise index-based placement.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0.3, 0.4}},
				{"index": 0, "embedding": []float32{0.1, 0.2}},
			},
		})
	}))
	defer srv.Close()

	vecs, err := testClient(t, srv.URL, 0).Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.3 {
		t.Errorf("vectors not placed by index: %v", vecs)
	}
}

func TestChatCompletionReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "lift heavier"}},
				{"message": map[string]string{"content": "ignored"}},
			},
		})
	}))
	defer srv.Close()

	reply, err := testClient(t, srv.URL, 0).ChatCompletion(context.Background(), "sys", "msg")
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}
	if reply != "lift heavier" {
		t.Errorf("expected first choice, got %q", reply)
	}
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	reply, err := testClient(t, srv.URL, 0).ChatCompletion(context.Background(), "sys", "msg")
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}
	if reply != "" {
		t.Errorf("expected empty reply, got %q", reply)
	}
}

func TestRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	reply, err := testClient(t, srv.URL, 2).ChatCompletion(context.Background(), "sys", "msg")
	if err != nil {
		t.Fatalf("expected recovery after retry, got %v", err)
	}
	if reply != "ok" {
		t.Errorf("unexpected reply %q", reply)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 calls, got %d", n)
	}
}

func TestNoRetryOnAuthFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 3).ChatCompletion(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected a single call on terminal status, got %d", n)
	}
}
