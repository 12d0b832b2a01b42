package errors

import (
	"sort"
	"strings"
)

// SuggestSimilar finds candidates similar to the given target, for use in
// "did you mean" hints when a config key or operation name is misspelled.
// Returns up to three candidates at the smallest edit distance, or nil when
// nothing is close enough.
func SuggestSimilar(target string, candidates []string) []string {
	if len(target) == 0 || len(candidates) == 0 {
		return nil
	}

	// Shorter targets get a tighter threshold
	threshold := 3
	if len(target) <= 3 {
		threshold = 1
	} else if len(target) <= 5 {
		threshold = 2
	}

	target = strings.ToLower(target)

	type match struct {
		value    string
		distance int
	}
	var matches []match
	for _, candidate := range candidates {
		if candidate == "" || strings.ToLower(candidate) == target {
			continue
		}
		if d := levenshtein(target, strings.ToLower(candidate)); d <= threshold {
			matches = append(matches, match{value: candidate, distance: d})
		}
	}

	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].value < matches[j].value
	})

	best := matches[0].distance
	var result []string
	for _, m := range matches {
		if m.distance > best || len(result) == 3 {
			break
		}
		result = append(result, m.value)
	}
	return result
}

// FormatSuggestions formats suggestions as a user-friendly hint.
// Returns empty string if no suggestions.
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	if len(suggestions) == 1 {
		return "Did you mean '" + suggestions[0] + "'?"
	}
	var b strings.Builder
	b.WriteString("Did you mean one of: ")
	for i, s := range suggestions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'")
		b.WriteString(s)
		b.WriteString("'")
	}
	b.WriteString("?")
	return b.String()
}

// levenshtein computes the edit distance between two strings using two
// rows instead of a full matrix.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	aRunes := []rune(a)
	bRunes := []rune(b)
	if len(aRunes) > len(bRunes) {
		aRunes, bRunes = bRunes, aRunes
	}

	lenA := len(aRunes)
	lenB := len(bRunes)

	prev := make([]int, lenA+1)
	curr := make([]int, lenA+1)
	for i := 0; i <= lenA; i++ {
		prev[i] = i
	}
	for j := 1; j <= lenB; j++ {
		curr[0] = j
		for i := 1; i <= lenA; i++ {
			cost := 1
			if aRunes[i-1] == bRunes[j-1] {
				cost = 0
			}
			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[lenA]
}
