package ports

// Normalizer defines the interface for turning raw text into content tokens.
// Implementations return tokens in order of appearance, duplicates included.
type Normalizer interface {
	Normalize(text string) []string
}
