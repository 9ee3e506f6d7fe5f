package domain

import "math"

// DefaultThreshold is the minimum match score for a question to count as asked.
const DefaultThreshold = 0.6

// MatchRecord is the scoring outcome for a single required question.
type MatchRecord struct {
	Question   string  `json:"question"`
	MatchScore float64 `json:"match_score"`
}

// Report holds the outcome of a coverage check.
// Asked and Missed keep the order of the required questions.
type Report struct {
	Asked    []MatchRecord `json:"asked"`
	Missed   []MatchRecord `json:"missed"`
	Coverage float64       `json:"coverage"`
}

// Total returns the number of questions that were scored.
func (r Report) Total() int {
	return len(r.Asked) + len(r.Missed)
}

// TokenSet is a set of distinct normalized tokens.
type TokenSet map[string]struct{}

// NewTokenSet builds a set from a token sequence.
func NewTokenSet(tokens []string) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Add inserts every token into the set.
func (s TokenSet) Add(tokens ...string) {
	for _, t := range tokens {
		s[t] = struct{}{}
	}
}

// Contains reports whether token is in the set.
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
