package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ats-checker/internal/shared/telemetry"
)

const defaultRetryDelay = 30 * time.Second

// Fixed generation parameters; the upstream model behaves acceptably with
// sampling at these values and callers never vary them.
const (
	maxNewTokens = 500
	temperature  = 0.7
)

// Config configures the HTTP model client.
type Config struct {
	BaseURL string
	Model   string
	Token   string
	// RetryDelay is the wall-clock wait before the single 429 retry.
	// Zero means the 30-second default.
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// HTTPClient implements Client against a chat-completions endpoint.
type HTTPClient struct {
	baseURL    string
	model      string
	token      string
	retryDelay time.Duration
	httpClient *http.Client
}

// NewHTTPClient constructs the model client. A missing token is not an error
// here; Complete fails with ErrMissingCredential before any network call.
func NewHTTPClient(cfg Config) *HTTPClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return &HTTPClient{
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		model:      strings.TrimSpace(cfg.Model),
		token:      strings.TrimSpace(cfg.Token),
		retryDelay: delay,
		httpClient: client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Parameters chatParams    `json:"parameters"`
}

type chatParams struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	DoSample     bool    `json:"do_sample"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the raw completion text untouched.
// A 429 is retried exactly once after the configured delay; every other
// failure propagates immediately. At most two HTTP requests are issued.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.token == "" {
		return "", ErrMissingCredential
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Parameters: chatParams{
			MaxNewTokens: maxNewTokens,
			Temperature:  temperature,
			DoSample:     true,
		},
	})
	if err != nil {
		return "", err
	}

	const maxAttempts = 2
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		content, retryable, err := c.completeOnce(ctx, payload)
		if err == nil {
			return content, nil
		}
		if !retryable {
			return "", err
		}
		if attempt == maxAttempts {
			return "", ErrRateLimited
		}

		telemetry.Warn("llm.rate_limited", map[string]any{
			"attempt":  attempt,
			"delay_ms": c.retryDelay.Milliseconds(),
		})
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", ErrRateLimited
}

func (c *HTTPClient) completeOnce(ctx context.Context, payload []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("model response read: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, &UpstreamError{
			Status:  resp.StatusCode,
			Message: upstreamMessage(body),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", false, ErrInvalidResponse
	}
	return parsed.Choices[0].Message.Content, false, nil
}

// upstreamMessage pulls the error text out of a failure body; the endpoint
// reports either {"error": "text"} or {"error": {"message": "text"}}.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		return text
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &obj); err == nil {
		return obj.Message
	}
	return ""
}

var _ Client = (*HTTPClient)(nil)
