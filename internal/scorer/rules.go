package scorer

import "strings"

// transientKeywords mark throwaway queries whose answers are stale within
// hours. Matching snippets are forced to score zero.
var transientKeywords = []string{
	"tv schedule",
	"tv guide",
	"on tv",
	"on television",
	"weather",
	"forecast",
	"temperature today",
	"news today",
	"headlines",
	"right now",
	"at the moment",
}

// explicitMarkers are phrases by which users flag something as worth
// remembering.
var explicitMarkers = []string{
	"remember this",
	"remember that",
	"don't forget",
	"never forget",
	"important",
	"crucial",
	"make a note",
	"note this",
	"remind me",
	"key decision",
	"strategy",
}

// IsTransientFact reports whether a snippet matches the transient-fact
// pattern set.
func IsTransientFact(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range transientKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExplicitMarkerPoints counts explicit-importance markers in the text and
// maps them onto the 0-2 explicit sub-score.
func ExplicitMarkerPoints(text string) int {
	lower := strings.ToLower(text)
	found := 0
	for _, kw := range explicitMarkers {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	switch {
	case found >= 2:
		return 2
	case found == 1:
		return 1
	default:
		return 0
	}
}

// FrequencyPoints maps a mention count onto the 0-3 frequency sub-score.
func FrequencyPoints(count int) int {
	switch {
	case count >= 10:
		return 3
	case count >= 4:
		return 2
	case count >= 2:
		return 1
	default:
		return 0
	}
}

// fallbackScore is the deterministic rule table used when the completion
// service errors or returns malformed output. It satisfies the same bounds
// as the primary path.
func fallbackScore(snippet string, sc SnippetContext) Score {
	frequency := FrequencyPoints(sc.FrequencyCount)

	recency := 0
	switch {
	case sc.DaysSinceFirstMention <= 7:
		recency = 2
	case sc.DaysSinceFirstMention <= 30:
		recency = 1
	}

	explicit := ExplicitMarkerPoints(snippet)

	relevance := 0
	lower := strings.ToLower(snippet)
	switch {
	case containsAny(lower, "i love", "i hate", "i prefer", "i dislike", "my favorite", "not interested in"):
		relevance = 3
	case containsAny(lower, "project", "goal", "plan", "i want to", "working on"):
		relevance = 2
	case containsAny(lower, "i ", "my ", "me "):
		relevance = 1
	}

	total := frequency + recency + explicit + relevance
	return Score{
		Total:     total,
		Frequency: frequency,
		Recency:   recency,
		Explicit:  explicit,
		Relevance: relevance,
		Reasoning: "rule-based fallback (completion service unavailable)",
		Retention: RetentionTier(total),
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
