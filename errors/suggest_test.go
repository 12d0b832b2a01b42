package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestSimilar(t *testing.T) {
	keys := []string{"storage_read", "storage_write", "msg_sender", "ink_per_gas"}

	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{
			name:     "single character transposition",
			target:   "storage_raed",
			expected: []string{"storage_read"},
		},
		{
			name:     "missing character",
			target:   "storage_rite",
			expected: []string{"storage_write"},
		},
		{
			name:     "no match for distant string",
			target:   "completely_different",
			expected: nil,
		},
		{
			name:     "case insensitive",
			target:   "MSG_SENDAR",
			expected: []string{"msg_sender"},
		},
		{
			name:     "empty target",
			target:   "",
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.target, keys))
		})
	}
}

func TestSuggestSimilarDropsFartherCandidates(t *testing.T) {
	// "storage_rite" is within threshold of both keys; only the closer
	// one should be suggested.
	got := SuggestSimilar("storage_rite", []string{"storage_read", "storage_write"})
	assert.Equal(t, []string{"storage_write"}, got)
}

func TestSuggestSimilarNilWhenNothingClose(t *testing.T) {
	got := SuggestSimilar("zzzzzzzz", []string{"storage_read", "storage_write"})
	assert.Nil(t, got)
}

func TestSuggestSimilarExcludesExactMatch(t *testing.T) {
	got := SuggestSimilar("storage_read", []string{"storage_read"})
	assert.Empty(t, got)
}

func TestSuggestSimilarCapsAtThree(t *testing.T) {
	candidates := []string{"reed", "read", "read1", "raed", "redd"}
	got := SuggestSimilar("red", candidates)
	assert.LessOrEqual(t, len(got), 3)
}

func TestSuggestSimilarOrdersByDistance(t *testing.T) {
	got := SuggestSimilar("storage_reed", []string{"storage_write", "storage_read"})
	assert.Equal(t, []string{"storage_read"}, got)
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, "", FormatSuggestions(nil))
	assert.Equal(t, "Did you mean 'storage_read'?",
		FormatSuggestions([]string{"storage_read"}))
	assert.Equal(t, "Did you mean one of: 'a', 'b'?",
		FormatSuggestions([]string{"a", "b"}))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
