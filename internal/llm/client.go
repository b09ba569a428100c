// Package llm issues chat-completion requests to an OpenAI-compatible
// endpoint, mapping transport failures to a small error taxonomy and
// retrying throttled requests under the rate-limit gate.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/abdulachik/litlens/internal/ratelimit"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultMaxRetries = 5
	defaultRetryAfter = 5 * time.Second

	// chatEndpoint names the rate-limit bucket for completion calls.
	chatEndpoint = "chat/completions"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the exact wire payload of a completion call.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the subset of the provider response the client reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	gate       *ratelimit.Gate
	maxRetries int
}

// Config holds configuration for the Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Gate       *ratelimit.Gate
	MaxRetries int
	HTTPClient *http.Client
}

// New creates a new Client. A nil Gate gets default ceilings.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	gate := cfg.Gate
	if gate == nil {
		gate = ratelimit.New(ratelimit.DefaultLimits)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		gate:       gate,
		maxRetries: maxRetries,
	}
}

// Complete sends a completion request and returns the model's textual
// payload. Throttled requests (HTTP 429) are retried after the
// server-provided delay, re-passing the rate-limit gate each attempt, up to
// the configured retry limit. All other failures propagate immediately.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.gate.Acquire(ctx, chatEndpoint); err != nil {
			return "", err
		}

		content, err := c.once(ctx, req)
		if err == nil {
			return content, nil
		}

		var throttle *ThrottleError
		if !errors.As(err, &throttle) {
			return "", err
		}

		slog.Warn("throttled by provider",
			"attempt", attempt+1,
			"retry_after", throttle.RetryAfter,
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(throttle.RetryAfter):
		}
	}

	return "", ErrMaxRetries
}

// once issues a single HTTP attempt.
func (c *Client) once(ctx context.Context, req ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", &AuthError{Message: upstreamMessage(respBody)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &ThrottleError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &APIError{Status: resp.StatusCode, Message: upstreamMessage(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", &APIError{Status: resp.StatusCode, Message: chatResp.Error.Message}
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// retryAfter reads the Retry-After header, in seconds, falling back to the
// default delay.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}

// upstreamMessage pulls the provider's error message out of a failure body,
// falling back to the raw body.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
