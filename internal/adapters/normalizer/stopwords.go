package normalizer

import "strings"

// defaultStopwords are function words that carry no discriminating content
// for question matching.
var defaultStopwords = []string{
	"a", "an", "the", "is", "are", "of", "to",
	"your", "my", "our", "their", "his", "her",
	"there", "this", "that", "what",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	out := make([]string, len(defaultStopwords))
	copy(out, defaultStopwords)
	return out
}

// StopwordSet is a case-insensitive set of words excluded from matching.
// Members are stored lower-cased.
type StopwordSet map[string]struct{}

// NewStopwordSet returns the built-in stopwords merged with extra.
func NewStopwordSet(extra ...string) StopwordSet {
	set := make(StopwordSet, len(defaultStopwords)+len(extra))
	for _, w := range defaultStopwords {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Contains reports whether an already lower-cased word is a stopword.
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}
