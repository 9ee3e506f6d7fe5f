// Package questioncoverage checks a call transcript for the questions a call
// taker is required to ask.
//
// A required question counts as asked when enough of its content words occur
// anywhere in the transcript. Both texts are normalized the same way: lower-cased,
// punctuation replaced by spaces, split on whitespace and stripped of a fixed
// list of stopwords. The match score of a question is
//
//	score = |Q ∩ T| / |Q|
//
// where Q and T are the distinct tokens of the question and the transcript.
// A question scoring at least the threshold (0.6 by default) is asked, the
// rest are missed, and coverage is the asked fraction of all questions.
//
// The functions in this package are pure and produce no log output. Use
// pkg/coverage for configurable checkers, streaming input, speaker-filtered
// transcripts and batch checking.
package questioncoverage

import (
	"github.com/baditaflorin/go_question_coverage/internal/adapters/logger"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/normalizer"
	"github.com/baditaflorin/go_question_coverage/internal/core/coverage"
	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
)

// Report is the outcome of a coverage check.
type Report = domain.Report

// MatchRecord is the scoring outcome of one required question.
type MatchRecord = domain.MatchRecord

// DefaultThreshold is the minimum match score for a question to count as asked.
const DefaultThreshold = domain.DefaultThreshold

var (
	defaultNormalizer = normalizer.NewDefaultNormalizer()
	defaultEngine     = mustEngine(DefaultThreshold)
)

func mustEngine(threshold float64) *coverage.Engine {
	e, err := coverage.NewEngine(coverage.EngineConfig{Threshold: threshold}, logger.NewNopLogger(), defaultNormalizer)
	if err != nil {
		panic(err)
	}
	return e
}

// Normalize returns the content tokens of text in order of appearance.
func Normalize(text string) []string {
	return defaultNormalizer.Normalize(text)
}

// TokenOverlapScore returns the fraction of the question's distinct content
// tokens that appear in the transcript, or 0 if the question has none.
func TokenOverlapScore(question, transcript string) float64 {
	return defaultEngine.TokenOverlapScore(question, transcript)
}

// CheckCoverage classifies each required question as asked or missed.
// The threshold is not validated.
func CheckCoverage(transcript string, requiredQuestions []string, threshold float64) Report {
	return defaultEngine.WithThreshold(threshold).Check(transcript, requiredQuestions)
}

// CheckCoverageWithDefaults is CheckCoverage with DefaultThreshold.
func CheckCoverageWithDefaults(transcript string, requiredQuestions []string) Report {
	return defaultEngine.Check(transcript, requiredQuestions)
}
