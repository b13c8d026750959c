// Package research talks to the external research provider - an
// OpenAI-compatible chat-completions endpoint with web search. It issues
// exactly one request per call and applies no retry policy; retry decisions
// belong to callers.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
)

// Options contains sampling parameters for a single completion request
type Options struct {
	MaxTokens   int
	Temperature float32
	TopP        float32

	// RecencyFilter restricts provider-side search recency
	// ("hour", "day", "week", "month"). Empty means no restriction.
	RecencyFilter string
}

// Client issues completion requests against the research provider
type Client interface {
	// Query sends one completion request and returns the raw response text.
	Query(ctx context.Context, prompt string, opts Options) (string, error)
}

// completionRequest is the provider wire format: the standard
// chat-completions request plus the provider's search recency extension.
// Temperature shadows the embedded field so an explicit zero still reaches
// the wire - deterministic sampling is load-bearing for reproducible runs.
type completionRequest struct {
	openai.ChatCompletionRequest
	Temperature         float32 `json:"temperature"`
	SearchRecencyFilter string  `json:"search_recency_filter,omitempty"`
}

type client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a research client from configuration. When
// RequestsPerSecond is positive, outbound calls are paced with a token
// bucket so batched stages cannot trip provider-side throttling.
func NewClient(cfg model.ResearchConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("research API key is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}, nil
}

// Query implements Client
func (c *client) Query(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 1
	}

	reqBody := completionRequest{
		ChatCompletionRequest: openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens: maxTokens,
			TopP:      topP,
			Stream:    false,
		},
		Temperature:         opts.Temperature,
		SearchRecencyFilter: opts.RecencyFilter,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	choice := completion.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return "", ErrTruncatedResponse
	}

	return choice.Message.Content, nil
}
