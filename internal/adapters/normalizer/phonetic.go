package normalizer

import (
	"github.com/antzucaro/matchr"

	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

// PhoneticNormalizer replaces each token produced by a base normalizer with
// its primary Double Metaphone code, so spellings that sound alike compare
// equal ("adress" and "address"). Tokens without a code, such as numbers,
// are kept verbatim. Codes are upper-case and never collide with the
// lower-case verbatim tokens.
type PhoneticNormalizer struct {
	base ports.Normalizer
}

// NewPhoneticNormalizer wraps base with phonetic encoding.
func NewPhoneticNormalizer(base ports.Normalizer) ports.Normalizer {
	return &PhoneticNormalizer{base: base}
}

// Normalize converts text into phonetic tokens in order of appearance.
func (n *PhoneticNormalizer) Normalize(text string) []string {
	tokens := n.base.Normalize(text)
	for i, t := range tokens {
		if code, _ := matchr.DoubleMetaphone(t); code != "" {
			tokens[i] = code
		}
	}
	return tokens
}
