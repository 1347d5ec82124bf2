// Package adapter provides a unified interface to the text-completion
// service. One wrapper owns timeout and retry policy for every call, so the
// components above it express only what to ask, not how to survive network
// failure.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Provider name constants.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// CompletionRequest holds the parameters for one completion call.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client is the narrow completion contract the memory engine consumes.
// Complete returns free-form text; CompleteJSON additionally extracts a
// fenced or prose-wrapped JSON payload from the reply and unmarshals it.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CompleteJSON(ctx context.Context, req CompletionRequest, out any) error
}

// completer is the raw provider call, implemented per backend.
type completer interface {
	complete(ctx context.Context, req CompletionRequest) (string, error)
}

// client wraps a provider completer with a hard per-call timeout and a
// single bounded retry on transport failure.
type client struct {
	backend completer
	timeout time.Duration
}

// Options configures a Client.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// New constructs the Client for the named provider.
func New(opts Options) (Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	var backend completer
	switch opts.Provider {
	case ProviderAnthropic, "":
		backend = newAnthropic(opts.APIKey, opts.Model)
	case ProviderOpenAI:
		backend = newOpenAI(opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("adapter: unknown provider %q", opts.Provider)
	}

	return &client{backend: backend, timeout: opts.Timeout}, nil
}

func (c *client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = 1000
	}

	text, err := c.attempt(ctx, req)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	// One retry covers transient transport failures.
	text, retryErr := c.attempt(ctx, req)
	if retryErr != nil {
		return "", fmt.Errorf("adapter: complete (after retry): %w", retryErr)
	}
	return text, nil
}

func (c *client) attempt(ctx context.Context, req CompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.backend.complete(callCtx, req)
}

func (c *client) CompleteJSON(ctx context.Context, req CompletionRequest, out any) error {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return err
	}

	payload := ExtractJSON(text)
	if payload == "" {
		return fmt.Errorf("adapter: no JSON payload in completion reply")
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("adapter: decode completion JSON: %w", err)
	}
	return nil
}
