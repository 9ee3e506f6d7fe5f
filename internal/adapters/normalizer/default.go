package normalizer

import (
	"strings"
	"unicode"

	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

// DefaultNormalizer implements the default tokenization strategy:
// lower-case, punctuation to spaces, split on whitespace, drop stopwords.
type DefaultNormalizer struct {
	stopwords StopwordSet
}

// NewDefaultNormalizer creates a new default normalizer. Extra stopwords are
// added to the built-in list.
func NewDefaultNormalizer(extraStopwords ...string) ports.Normalizer {
	return &DefaultNormalizer{stopwords: NewStopwordSet(extraStopwords...)}
}

// Normalize converts text into content tokens in order of appearance.
func (n *DefaultNormalizer) Normalize(text string) []string {
	text = strings.ToLower(text)
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if isWordRune(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	fields := strings.Fields(sb.String())
	tokens := fields[:0]
	for _, f := range fields {
		if !n.stopwords.Contains(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// isWordRune reports whether r is a letter, a number or an underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
