package adapter

import (
	"context"
	"fmt"
	"os"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// anthropicBackend implements completer for the Anthropic API.
type anthropicBackend struct {
	client *anthropic.Client
	model  string
}

// newAnthropic creates an Anthropic backend. If apiKey is empty,
// ANTHROPIC_API_KEY is used.
func newAnthropic(apiKey, model string) completer {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	return &anthropicBackend{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

func (a *anthropicBackend) complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		MaxTokens:   req.MaxTokens,
		Temperature: floatPtr(float32(req.Temperature)),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.Prompt)},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic complete: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic complete: empty response")
	}
	return resp.Content[0].GetText(), nil
}

func floatPtr(f float32) *float32 { return &f }
