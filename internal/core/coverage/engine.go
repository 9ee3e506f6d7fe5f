// Package coverage scores required questions against a call transcript.
package coverage

import (
	"errors"

	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

// EngineConfig holds configuration for the coverage engine.
// Threshold is not range-checked: values above 1 mark every question as
// missed and values at or below 0 mark every question as asked.
type EngineConfig struct {
	Threshold float64
}

// DefaultConfig returns a default configuration.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		Threshold: domain.DefaultThreshold,
	}
}

// Engine implements token-overlap coverage checking.
type Engine struct {
	config     EngineConfig
	logger     ports.Logger
	normalizer ports.Normalizer
}

// NewEngine creates a new coverage engine.
func NewEngine(config EngineConfig, logger ports.Logger, normalizer ports.Normalizer) (*Engine, error) {
	if logger == nil {
		return nil, errors.New("coverage: logger is required")
	}
	if normalizer == nil {
		return nil, errors.New("coverage: normalizer is required")
	}

	return &Engine{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
	}, nil
}

// Threshold returns the configured classification threshold.
func (e *Engine) Threshold() float64 {
	return e.config.Threshold
}

// WithThreshold returns a copy of the engine using a different threshold.
func (e *Engine) WithThreshold(threshold float64) *Engine {
	cp := *e
	cp.config.Threshold = threshold
	return &cp
}

// TokenSet normalizes text into its set of distinct tokens.
func (e *Engine) TokenSet(text string) domain.TokenSet {
	return domain.NewTokenSet(e.normalizer.Normalize(text))
}

// TokenOverlapScore returns the fraction of the question's distinct tokens
// that also appear in the transcript. A question without tokens scores 0.
func (e *Engine) TokenOverlapScore(question, transcript string) float64 {
	q := e.TokenSet(question)
	if len(q) == 0 {
		return 0.0
	}
	return overlap(q, e.TokenSet(transcript))
}

// Check classifies every required question as asked or missed.
func (e *Engine) Check(transcript string, requiredQuestions []string) domain.Report {
	return e.CheckTokens(e.TokenSet(transcript), requiredQuestions)
}

// CheckTokens is Check for a transcript whose token set is already known.
func (e *Engine) CheckTokens(transcript domain.TokenSet, requiredQuestions []string) domain.Report {
	e.logger.Debug("Starting coverage computation",
		"questions", len(requiredQuestions),
		"transcript_tokens", len(transcript),
		"threshold", e.config.Threshold,
	)

	report := domain.Report{
		Asked:  make([]domain.MatchRecord, 0, len(requiredQuestions)),
		Missed: make([]domain.MatchRecord, 0),
	}

	for _, q := range requiredQuestions {
		score := e.scoreQuestion(q, transcript)
		rec := domain.MatchRecord{Question: q, MatchScore: domain.Round2(score)}
		// Compare the unrounded score so rounding cannot flip a borderline question.
		if score >= e.config.Threshold {
			report.Asked = append(report.Asked, rec)
		} else {
			report.Missed = append(report.Missed, rec)
		}
	}

	denominator := len(requiredQuestions)
	if denominator < 1 {
		denominator = 1
	}
	report.Coverage = domain.Round2(float64(len(report.Asked)) / float64(denominator))

	e.logger.Debug("Computed coverage",
		"asked", len(report.Asked),
		"missed", len(report.Missed),
		"coverage", report.Coverage,
	)

	return report
}

func (e *Engine) scoreQuestion(question string, transcript domain.TokenSet) float64 {
	q := e.TokenSet(question)
	if len(q) == 0 {
		e.logger.Debug("Question has no content tokens", "question", question)
		return 0.0
	}
	return overlap(q, transcript)
}

// overlap returns |q ∩ t| / |q|; q must be non-empty.
func overlap(q, t domain.TokenSet) float64 {
	hits := 0
	for tok := range q {
		if t.Contains(tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(q))
}
