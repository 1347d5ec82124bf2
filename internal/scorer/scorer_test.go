package scorer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chronomem/chronomem/internal/adapter"
)

func TestScoreTransientFactShortCircuits(t *testing.T) {
	fake := adapter.NewFake(`{"score": 9}`)
	s := New(fake)

	got := s.Score(context.Background(), "What's on TV tonight?", SnippetContext{})
	if got.Total != 0 {
		t.Errorf("total = %d, want 0 for transient fact", got.Total)
	}
	if got.Retention != RetentionTier(0) {
		t.Errorf("retention = %q", got.Retention)
	}
	if len(fake.Calls) != 0 {
		t.Error("completion service called for a transient fact")
	}
}

func TestScoreAcceptsValidVerdict(t *testing.T) {
	fake := adapter.NewFake(`{
		"score": 7,
		"frequency_points": 2,
		"recency_points": 2,
		"explicit_points": 1,
		"relevance_points": 2,
		"reasoning": "recurring project topic",
		"retention_recommendation": "tiered summary retention"
	}`)
	s := New(fake)

	got := s.Score(context.Background(), "We decided to migrate the billing service next sprint.", SnippetContext{
		FrequencyCount: 4,
		Timestamp:      time.Now(),
	})
	if got.Total != 7 {
		t.Errorf("total = %d, want 7", got.Total)
	}
	if got.Reasoning != "recurring project topic" {
		t.Errorf("reasoning = %q", got.Reasoning)
	}
}

func TestScoreFallsBackOnError(t *testing.T) {
	fake := adapter.NewFake()
	fake.Err = errors.New("network down")
	s := New(fake)

	got := s.Score(context.Background(), "I love hiking in the Alps", SnippetContext{
		DaysSinceFirstMention: 3,
	})
	if got.Total < 0 || got.Total > MaxTotal {
		t.Errorf("fallback total %d out of bounds", got.Total)
	}
	if got.Relevance != 3 {
		t.Errorf("relevance = %d, want 3 for a stated preference", got.Relevance)
	}
	if got.Recency != 2 {
		t.Errorf("recency = %d, want 2 within 7 days", got.Recency)
	}
	if got.Reasoning == "" || got.Retention == "" {
		t.Error("fallback verdict incomplete")
	}
}

func TestScoreFallsBackOnOutOfBoundsVerdict(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"over bounds", `{"score": 99, "frequency_points": 50, "recency_points": 2, "explicit_points": 1, "relevance_points": 2, "reasoning": "x", "retention_recommendation": "y"}`},
		{"sum mismatch", `{"score": 9, "frequency_points": 1, "recency_points": 1, "explicit_points": 1, "relevance_points": 1, "reasoning": "x", "retention_recommendation": "y"}`},
		{"missing reasoning", `{"score": 4, "frequency_points": 1, "recency_points": 1, "explicit_points": 1, "relevance_points": 1, "reasoning": "", "retention_recommendation": "y"}`},
		{"not json", `I would rate this highly.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(adapter.NewFake(tt.reply))
			got := s.Score(context.Background(), "my project plan", SnippetContext{})
			if got.Total < 0 || got.Total > MaxTotal {
				t.Errorf("total %d out of bounds", got.Total)
			}
			if got.Total != got.Frequency+got.Recency+got.Explicit+got.Relevance {
				t.Errorf("total %d != sum of sub-scores", got.Total)
			}
		})
	}
}

func TestRetentionTier(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{10, "permanent"},
		{8, "permanent"},
		{7, "tiered summary retention"},
		{5, "tiered summary retention"},
		{4, "short archive"},
		{2, "short archive"},
		{1, "expire within a day"},
		{0, "expire within a day"},
	}
	for _, tt := range tests {
		if got := RetentionTier(tt.total); got != tt.want {
			t.Errorf("RetentionTier(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}
