// Package scorer assigns a bounded importance verdict (0-10) to a
// conversation snippet. The primary path asks the completion service for a
// structured breakdown; a deterministic rule table covers every failure
// mode, so scoring never propagates an error to the caller.
package scorer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chronomem/chronomem/internal/adapter"
)

// Sub-score bounds.
const (
	MaxFrequency = 3
	MaxRecency   = 2
	MaxExplicit  = 2
	MaxRelevance = 3
	MaxTotal     = MaxFrequency + MaxRecency + MaxExplicit + MaxRelevance
)

// Score is the full importance verdict for one snippet.
type Score struct {
	Total     int    `json:"score"`
	Frequency int    `json:"frequency_points"`
	Recency   int    `json:"recency_points"`
	Explicit  int    `json:"explicit_points"`
	Relevance int    `json:"relevance_points"`
	Reasoning string `json:"reasoning"`
	Retention string `json:"retention_recommendation"`
}

// SnippetContext carries the frequency/recency signals known about a
// snippet before scoring.
type SnippetContext struct {
	FrequencyCount        int
	Timestamp             time.Time
	DaysSinceFirstMention int
}

// Scorer maps snippets to importance verdicts.
type Scorer struct {
	llm adapter.Client
}

// New creates a Scorer backed by the given completion client.
func New(llm adapter.Client) *Scorer {
	return &Scorer{llm: llm}
}

const scoringPrompt = `Analyze the following conversation snippet and rate its importance for long-term memory.

Conversation:
%s

Context:
- Prior mentions of this topic: %d
- Timestamp: %s
- Days since first mention: %d

Rate against these criteria:

1. Frequency (0-3 points):
   - 3: mentioned daily or weekly
   - 2: mentioned several times a month
   - 1: mentioned 2-3 times
   - 0: mentioned only once

2. Recency (0-2 points):
   - 2: mentioned within the last 7 days
   - 1: within the last 30 days
   - 0: older than 30 days

3. Explicit importance (0-2 points):
   - 2: explicitly marked as important by the user
   - 1: asked about repeatedly
   - 0: no markers

4. Personal relevance (0-3 points):
   - 3: preferences, dislikes, goals
   - 2: project decisions, strategies
   - 1: personal events
   - 0: generic factual queries

Reply ONLY with a JSON object in this exact format (no extra explanation):
{
  "score": 7,
  "frequency_points": 2,
  "recency_points": 2,
  "explicit_points": 1,
  "relevance_points": 2,
  "reasoning": "short justification",
  "retention_recommendation": "retain in weekly and monthly summaries"
}`

// Score rates a snippet. It always returns a usable, bounds-satisfying
// verdict: transient facts short-circuit to zero, LLM failures and invalid
// replies fall back to the rule table.
func (s *Scorer) Score(ctx context.Context, snippet string, sc SnippetContext) Score {
	if sc.Timestamp.IsZero() {
		sc.Timestamp = time.Now()
	}

	// Transient facts (weather, TV schedule, news of the moment) are never
	// important, whatever an LLM might say about the phrasing.
	if IsTransientFact(snippet) {
		return Score{
			Reasoning: "transient fact query (TV schedule, weather, news)",
			Retention: RetentionTier(0),
		}
	}

	prompt := fmt.Sprintf(scoringPrompt,
		snippet, sc.FrequencyCount, sc.Timestamp.Format("2006-01-02 15:04:05"), sc.DaysSinceFirstMention)

	var verdict Score
	err := s.llm.CompleteJSON(ctx, adapter.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.3,
	}, &verdict)
	if err != nil {
		log.Printf("[scorer] llm scoring failed, using fallback: %v", err)
		return fallbackScore(snippet, sc)
	}
	if !valid(verdict) {
		log.Printf("[scorer] llm verdict out of bounds, using fallback")
		return fallbackScore(snippet, sc)
	}
	return verdict
}

// valid checks field bounds and that the total equals the sum of the
// sub-scores.
func valid(v Score) bool {
	switch {
	case v.Frequency < 0 || v.Frequency > MaxFrequency:
		return false
	case v.Recency < 0 || v.Recency > MaxRecency:
		return false
	case v.Explicit < 0 || v.Explicit > MaxExplicit:
		return false
	case v.Relevance < 0 || v.Relevance > MaxRelevance:
		return false
	case v.Total != v.Frequency+v.Recency+v.Explicit+v.Relevance:
		return false
	case v.Reasoning == "" || v.Retention == "":
		return false
	}
	return true
}

// RetentionTier maps a total score to the shared retention vocabulary used
// by the scheduler and the summarization prompts.
func RetentionTier(total int) string {
	switch {
	case total >= 8:
		return "permanent"
	case total >= 5:
		return "tiered summary retention"
	case total >= 2:
		return "short archive"
	default:
		return "expire within a day"
	}
}
