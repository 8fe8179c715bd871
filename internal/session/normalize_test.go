package session

import "testing"

func TestNormalizeModelID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"claude-opus-4-5-20251101", "claude-opus-4.5"},
		{"claude-sonnet-4-20250514", "claude-sonnet-4"},
		{"claude-haiku-3-5", "claude-haiku-3.5"},
		{"gpt-5-1", "gpt-5.1"},
		{"gpt-4-1-mini", "gpt-4.1-mini"},
		{"kimi-k-2", "kimi-k2"},
		{"CLAUDE-OPUS-4-5", "claude-opus-4.5"},
		{"mistral-large", "mistral-large"},
		// already-dotted versions survive untouched
		{"claude-opus-4.5", "claude-opus-4.5"},
		{"gpt-5.1", "gpt-5.1"},
		{"some-model-1-2.5", "some-model-1-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeModelID(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeModelID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeModelIDIdempotent(t *testing.T) {
	inputs := []string{
		"claude-opus-4-5-20251101",
		"gpt-5-1",
		"kimi-k-2",
		"gpt-4-1-mini",
		"mistral-large",
	}

	for _, input := range inputs {
		once := NormalizeModelID(input)
		twice := NormalizeModelID(once)
		if once != twice {
			t.Errorf("NormalizeModelID(%q): once = %q, twice = %q", input, once, twice)
		}
	}
}

func TestCanonicalModelID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "unknown"},
		{"Anthropic/Claude-Opus-4-5", "anthropic/claude-opus-4-5"},
		{"claude-opus-4-5-20251101", "claude-opus-4.5"},
	}

	for _, tt := range tests {
		got := CanonicalModelID(tt.input)
		if got != tt.want {
			t.Errorf("CanonicalModelID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
