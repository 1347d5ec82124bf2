package summarize

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/chronomem/chronomem/internal/adapter"
)

const softTrimPrompt = `Analyze the following daily conversation log and shorten the unimportant details.

Daily log:
%s

Rules:
1. Keep ALL user-authored text verbatim.
2. Shorten assistant replies about low-value topics to a 1-2 sentence summary.
3. Remove full search results; keep only "asked about X".
4. Shorten tool output longer than 500 characters to its head and tail.
5. Keep important insights (preferences, decisions, goals) in full.
6. Keep the exact block structure: "### User - <timestamp>" / "### Assistant - <timestamp>" headers, bodies, and "---" separators.

Reply ONLY with the shortened version of the daily log in the same format.`

// SoftTrim shortens low-value content of a daily file in place. The write
// is all-or-nothing: the original is read fully, and only overwritten once
// the trimmed replacement has been fully received. On any failure the file
// is left untouched; no retry is attempted.
func (s *Summarizer) SoftTrim(ctx context.Context, path string) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("summarize: soft trim read: %w", err)
	}

	prompt := fmt.Sprintf(softTrimPrompt, s.capTokens(string(original)))

	reply, err := s.llm.Complete(ctx, adapter.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   3000,
		Temperature: 0.3,
	})
	if err != nil {
		return fmt.Errorf("summarize: soft trim completion: %w", err)
	}

	trimmed := unfence(reply)
	if trimmed == "" {
		return fmt.Errorf("summarize: soft trim produced empty output")
	}

	if err := writeAtomic(path, trimmed+"\n"); err != nil {
		return err
	}

	log.Printf("[summarize] soft trimmed %s (%d -> %d bytes)",
		filepath.Base(path), len(original), len(trimmed))
	return nil
}
