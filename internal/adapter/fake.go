package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrFakeUnavailable is returned by a Fake configured with no replies left.
var ErrFakeUnavailable = errors.New("adapter: fake completion service unavailable")

// Fake is a deterministic in-memory Client for tests. Replies are served in
// order; when Err is set every call fails with it. Safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	// Calls records every prompt received, for assertions.
	Calls []string
}

// NewFake returns a Fake that serves the given replies in order.
func NewFake(replies ...string) *Fake {
	return &Fake{Replies: replies}
}

// Complete returns the next scripted reply. The last reply is repeated once
// the script runs out, unless the script is empty.
func (f *Fake) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, req.Prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Replies) == 0 {
		return "", ErrFakeUnavailable
	}
	reply := f.Replies[0]
	if len(f.Replies) > 1 {
		f.Replies = f.Replies[1:]
	}
	return reply, nil
}

// CompleteJSON applies the same fenced-JSON extraction the real client uses.
func (f *Fake) CompleteJSON(ctx context.Context, req CompletionRequest, out any) error {
	text, err := f.Complete(ctx, req)
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
