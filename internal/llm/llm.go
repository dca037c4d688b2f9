// Package llm invokes the hosted chat-completion endpoint and applies the
// bounded rate-limit retry policy. Callers normalize the raw completion text
// themselves (see the rewrite and analysis packages).
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means the access token is absent; no network
	// call was attempted.
	ErrMissingCredential = errors.New("model access token is missing")

	// ErrRateLimited means the endpoint returned 429 on both the original
	// and the retried attempt.
	ErrRateLimited = errors.New("model endpoint rate limited")

	// ErrInvalidResponse means a 2xx response lacked a usable completion.
	ErrInvalidResponse = errors.New("invalid response from model")
)

// UpstreamError is any other non-2xx response from the model endpoint.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("model endpoint error: status %d", e.Status)
	}
	return fmt.Sprintf("model endpoint error: %s", e.Message)
}

// Client produces a raw completion for a prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
