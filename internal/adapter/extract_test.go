package adapter

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"bare array", `["x", "y"]`, `["x", "y"]`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose wrapped", `Here is the result: {"a": 1}. Hope that helps!`, `{"a": 1}`},
		{"prose and fence", "Sure!\n```\n[\"one\"]\n```\nDone.", `["one"]`},
		{"no payload", "I cannot answer that.", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFenced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with language tag", "```markdown\n# Title\nbody\n```", "# Title\nbody"},
		{"no language tag", "```\nplain\n```", "plain"},
		{"unterminated", "```\ndangling", "dangling"},
		{"none", "no fences here", ""},
		{"json tag kept as content start", "```\n{\"a\":1}\n```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFenced(tt.input); got != tt.want {
				t.Errorf("ExtractFenced(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
