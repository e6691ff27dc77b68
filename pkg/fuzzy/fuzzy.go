// Package fuzzy ranks correction suggestions for mistyped zone names.
// AI screenshot extraction and manual entry both misspell zone names;
// suggestions come from edit distance against the known vocabulary.
package fuzzy

import (
	"sort"
	"strings"
)

const (
	// MaxDistance is the largest edit distance still considered a
	// plausible correction.
	MaxDistance = 3
	// MaxSuggestions caps how many corrections are returned.
	MaxSuggestions = 5
)

// Result is the outcome of a vocabulary lookup.
type Result struct {
	// Valid is true only for an exact (case-insensitive) vocabulary hit.
	Valid bool
	// Suggestions holds the exact match, the closest corrections, or the
	// original candidate when nothing is within range.
	Suggestions []string
}

// Matcher holds lookup tuning. The zero value is unusable; use
// NewMatcher for the defaults.
type Matcher struct {
	MaxDistance    int
	MaxSuggestions int
}

// NewMatcher returns a matcher with the default threshold and cap.
func NewMatcher() Matcher {
	return Matcher{MaxDistance: MaxDistance, MaxSuggestions: MaxSuggestions}
}

// Suggest checks candidate against the vocabulary and proposes
// corrections. The vocabulary is assumed canonical-case; the candidate is
// uppercased for comparison only, so a no-match result echoes the
// candidate exactly as typed. Ties in distance keep vocabulary order.
func (m Matcher) Suggest(candidate string, vocab []string) Result {
	if candidate == "" {
		return Result{}
	}

	upper := strings.ToUpper(candidate)

	for _, name := range vocab {
		if name == upper {
			return Result{Valid: true, Suggestions: []string{name}}
		}
	}

	type scored struct {
		name     string
		distance int
	}
	matches := make([]scored, 0, m.MaxSuggestions)
	for _, name := range vocab {
		if d := levenshteinDistance(upper, name); d <= m.MaxDistance {
			matches = append(matches, scored{name: name, distance: d})
		}
	}

	if len(matches) == 0 {
		// Pass-through: nothing close enough, hand back what was typed
		return Result{Suggestions: []string{candidate}}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	if len(matches) > m.MaxSuggestions {
		matches = matches[:m.MaxSuggestions]
	}
	suggestions := make([]string, len(matches))
	for i, match := range matches {
		suggestions[i] = match.name
	}
	return Result{Suggestions: suggestions}
}

// Suggest looks up candidate with the default matcher.
func Suggest(candidate string, vocab []string) Result {
	return NewMatcher().Suggest(candidate, vocab)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Create matrix
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	// Initialize first row and column
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = minInt(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
