// Package summarize performs progressive, lossy, one-directional compaction:
// soft-trimming daily files in place and rolling daily → weekly → monthly →
// yearly summaries, each tagged with provenance.
package summarize

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/chronomem/chronomem/internal/adapter"
)

// ErrTargetExists is returned when a roll-up target already exists. The
// scheduler checks before calling; this guard is defense in depth.
var ErrTargetExists = errors.New("summarize: target already exists")

// ErrNoInput is returned when a roll-up receives no readable input files.
var ErrNoInput = errors.New("summarize: no readable input files")

// maxPromptTokens caps the source material concatenated into one roll-up
// prompt so a heavy week cannot blow the completion window.
const maxPromptTokens = 24000

// Summarizer compacts conversation files through the completion service.
type Summarizer struct {
	llm adapter.Client
	enc *tiktoken.Tiktoken
	now func() time.Time
}

// New creates a Summarizer. The cl100k_base encoding is used to bound
// prompt sizes; when it cannot be loaded a character heuristic takes over.
func New(llm adapter.Client) *Summarizer {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Printf("[summarize] tokenizer unavailable, using character heuristic: %v", err)
		enc = nil
	}
	return &Summarizer{llm: llm, enc: enc, now: time.Now}
}

// SetClock overrides the summarizer's notion of "now". Test hook.
func (s *Summarizer) SetClock(now func() time.Time) { s.now = now }

// capTokens truncates text to at most maxPromptTokens tokens.
func (s *Summarizer) capTokens(text string) string {
	if s.enc == nil {
		max := maxPromptTokens * 4
		if len(text) <= max {
			return text
		}
		return text[:max]
	}
	tokens := s.enc.Encode(text, nil, nil)
	if len(tokens) <= maxPromptTokens {
		return text
	}
	return s.enc.Decode(tokens[:maxPromptTokens])
}

// writeAtomic writes content via a temp name and renames it into place, so
// a failure partway never leaves a half-written file at path.
func writeAtomic(path string, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("summarize: write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("summarize: rename: %w", err)
	}
	return nil
}

var (
	fenceRe  = regexp.MustCompile("```[\\s\\S]*?```")
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	codeRe   = regexp.MustCompile("`(.+?)`")
	headerRe = regexp.MustCompile(`(?m)^#+\s*`)
)

// stripMarkdown flattens completion output to plain prose. Summary bodies
// are stored and surfaced as running text.
func stripMarkdown(text string) string {
	text = fenceRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")
	text = headerRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// unfence strips a wrapping markdown code fence from completion output,
// returning the text unchanged when there is none.
func unfence(text string) string {
	if fenced := adapter.ExtractFenced(text); fenced != "" {
		return fenced
	}
	return strings.TrimSpace(text)
}
