package normalizer

import (
	"github.com/baditaflorin/go_question_coverage/internal/pool"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

// ASCII byte classes used by OptimizedNormalizer.
const (
	classSeparator byte = iota
	classKeep
	classUpper
)

// OptimizedNormalizer tokenizes ASCII text in a single pass using a
// precomputed byte table and pooled word buffers. Non-ASCII input falls back
// to the default strategy, so both produce identical tokens.
type OptimizedNormalizer struct {
	asciiTable [128]byte
	stopwords  StopwordSet
	fallback   *DefaultNormalizer
	bytePool   *pool.BufferPool
}

// NewOptimizedNormalizer creates a new optimized normalizer
func NewOptimizedNormalizer(extraStopwords ...string) ports.Normalizer {
	stopwords := NewStopwordSet(extraStopwords...)
	n := &OptimizedNormalizer{
		stopwords: stopwords,
		fallback:  &DefaultNormalizer{stopwords: stopwords},
		bytePool:  pool.NewBufferPool(64),
	}

	for i := 0; i < 128; i++ {
		b := byte(i)
		switch {
		case b >= 'A' && b <= 'Z':
			n.asciiTable[i] = classUpper
		case b >= 'a' && b <= 'z', b >= '0' && b <= '9', b == '_':
			n.asciiTable[i] = classKeep
		default:
			n.asciiTable[i] = classSeparator
		}
	}

	return n
}

// Normalize converts text into content tokens in order of appearance.
func (n *OptimizedNormalizer) Normalize(text string) []string {
	if len(text) == 0 {
		return nil
	}

	for i := 0; i < len(text); i++ {
		if text[i] >= 128 {
			return n.fallback.Normalize(text)
		}
	}

	word := n.bytePool.Get()
	defer n.bytePool.Put(word)

	var tokens []string
	flush := func() {
		if len(*word) == 0 {
			return
		}
		if !n.stopwords.Contains(string(*word)) {
			tokens = append(tokens, string(*word))
		}
		*word = (*word)[:0]
	}

	for i := 0; i < len(text); i++ {
		b := text[i]
		switch n.asciiTable[b] {
		case classKeep:
			*word = append(*word, b)
		case classUpper:
			*word = append(*word, b+('a'-'A'))
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct {
	extraStopwords []string
}

// NewNormalizerFactory creates a new normalizer factory. Extra stopwords are
// passed to every normalizer it creates.
func NewNormalizerFactory(extraStopwords ...string) *NormalizerFactory {
	return &NormalizerFactory{extraStopwords: extraStopwords}
}

// Type of normalizer to create
type NormalizerType int

const (
	// DefaultNormalizerType is the rune-by-rune Unicode normalizer
	DefaultNormalizerType NormalizerType = iota
	// OptimizedNormalizerType uses a byte table and buffer pooling for ASCII text
	OptimizedNormalizerType
	// PhoneticNormalizerType maps tokens to Double Metaphone codes
	PhoneticNormalizerType
)

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case OptimizedNormalizerType:
		return NewOptimizedNormalizer(f.extraStopwords...)
	case PhoneticNormalizerType:
		return NewPhoneticNormalizer(NewOptimizedNormalizer(f.extraStopwords...))
	default:
		return NewDefaultNormalizer(f.extraStopwords...)
	}
}
