package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
)

func testConfig(baseURL string) model.ResearchConfig {
	return model.ResearchConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}
}

func completionResponse(content, finishReason string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:     "cmpl-123",
		Object: "chat.completion",
		Model:  "test-model",
		Choices: []openai.ChatCompletionChoice{
			{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: openai.FinishReason(finishReason),
			},
		},
	}
}

func TestClient_Query_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %s", r.Header.Get("Authorization"))
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["search_recency_filter"] != "week" {
			t.Errorf("expected search_recency_filter week, got %v", body["search_recency_filter"])
		}
		if _, ok := body["temperature"]; !ok {
			t.Error("expected explicit temperature in request body")
		}

		_ = json.NewEncoder(w).Encode(completionResponse(`[{"claim_text": "x"}]`, "stop"))
	}))
	defer server.Close()

	c, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	text, err := c.Query(context.Background(), "prompt", Options{MaxTokens: 100, RecencyFilter: "week"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if text != `[{"claim_text": "x"}]` {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestClient_Query_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse("partial outp", "length"))
	}))
	defer server.Close()

	c, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = c.Query(context.Background(), "prompt", Options{})
	if !errors.Is(err, ErrTruncatedResponse) {
		t.Errorf("expected ErrTruncatedResponse, got %v", err)
	}
}

func TestClient_Query_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	c, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = c.Query(context.Background(), "prompt", Options{})
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", upErr.StatusCode)
	}
}

func TestClient_Query_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = c.Query(context.Background(), "prompt", Options{})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClient_Query_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "cmpl-1"})
	}))
	defer server.Close()

	c, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = c.Query(context.Background(), "prompt", Options{})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(model.ResearchConfig{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}
