package ports

import (
	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
)

// CoverageChecker defines the interface for checking which required questions
// appear in a transcript.
type CoverageChecker interface {
	Check(transcript string, requiredQuestions []string) domain.Report
	CheckTokens(transcript domain.TokenSet, requiredQuestions []string) domain.Report
}
