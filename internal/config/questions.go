// Package config loads question sets and service settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
)

// ErrUnsupportedFormat is returned for question files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported question file format")

// QuestionSet is the list of questions a call taker is required to ask,
// optionally with its own threshold.
type QuestionSet struct {
	Required  []string `json:"required" yaml:"required" validate:"required"`
	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

var validate = validator.New()

// ThresholdOr returns the set's threshold, or fallback when none is configured.
func (q QuestionSet) ThresholdOr(fallback float64) float64 {
	if q.Threshold == nil {
		return fallback
	}
	return *q.Threshold
}

// EffectiveThreshold returns the set's threshold or the default one.
func (q QuestionSet) EffectiveThreshold() float64 {
	return q.ThresholdOr(domain.DefaultThreshold)
}

// Validate checks that the required list is present. An empty list is valid.
func (q QuestionSet) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid question set: %w", err)
	}
	return nil
}

// LoadQuestionSet reads a question set from a .json, .yaml or .yml file.
func LoadQuestionSet(path string) (QuestionSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		return QuestionSet{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return QuestionSet{}, fmt.Errorf("read question set %s: %w", path, err)
	}
	return ParseQuestionSet(data)
}

// ParseQuestionSet decodes a question set. JSON documents are valid YAML, so
// one decoder serves both formats.
func ParseQuestionSet(data []byte) (QuestionSet, error) {
	var qs QuestionSet
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return QuestionSet{}, fmt.Errorf("decode question set: %w", err)
	}
	if err := qs.Validate(); err != nil {
		return QuestionSet{}, err
	}
	return qs, nil
}
