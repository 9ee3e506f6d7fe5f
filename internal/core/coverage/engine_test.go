package coverage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/logger"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/normalizer"
	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

var requiredQuestions = []string{
	"What is your name?",
	"What is your emergency?",
	"What is your location?",
}

func newEngine(t *testing.T, threshold float64) *Engine {
	t.Helper()
	e, err := NewEngine(EngineConfig{Threshold: threshold}, logger.NewNopLogger(), normalizer.NewDefaultNormalizer())
	require.NoError(t, err)
	return e
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	_, err := NewEngine(DefaultConfig(), nil, normalizer.NewDefaultNormalizer())
	assert.Error(t, err)

	_, err = NewEngine(DefaultConfig(), logger.NewNopLogger(), nil)
	assert.Error(t, err)
}

func TestEngineImplementsCoverageChecker(t *testing.T) {
	var _ ports.CoverageChecker = newEngine(t, domain.DefaultThreshold)
}

func TestTokenOverlapScore(t *testing.T) {
	e := newEngine(t, domain.DefaultThreshold)

	tests := []struct {
		name       string
		question   string
		transcript string
		expected   float64
	}{
		{name: "empty question", question: "", transcript: "anything at all", expected: 0},
		{name: "stopword-only question", question: "the a an", transcript: "the a an", expected: 0},
		{name: "empty transcript", question: "What is your name?", transcript: "", expected: 0},
		{name: "full overlap", question: "What is your name?", transcript: "my name is Bob", expected: 1},
		{name: "partial overlap", question: "Is anyone injured or bleeding?", transcript: "nobody is injured", expected: 1.0 / 4},
		{name: "repeats do not inflate", question: "name name location", transcript: "name name name", expected: 0.5},
		{name: "extra transcript tokens do not penalize", question: "callback number", transcript: "sir your callback number please right now", expected: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, e.TokenOverlapScore(tc.question, tc.transcript), 1e-12)
		})
	}
}

func TestTokenOverlapScoreCaseAndPunctuation(t *testing.T) {
	e := newEngine(t, domain.DefaultThreshold)
	assert.Equal(t,
		e.TokenOverlapScore("what is your name", "my name is bob"),
		e.TokenOverlapScore("What is your NAME?", "my name is Bob"),
	)
}

func TestTokenOverlapScoreBounds(t *testing.T) {
	e := newEngine(t, domain.DefaultThreshold)
	texts := []string{"", "the", "name", "name location", "What is the address of the emergency?", "!!!", "a b c d e f"}
	for _, q := range texts {
		for _, tr := range texts {
			score := e.TokenOverlapScore(q, tr)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestCheckAllAsked(t *testing.T) {
	e := newEngine(t, 0.6)
	transcript := "911, what is your emergency? What is your location? And what is your name?"

	report := e.Check(transcript, requiredQuestions)

	assert.Len(t, report.Asked, 3)
	assert.Empty(t, report.Missed)
	assert.Equal(t, 1.0, report.Coverage)
	for i, rec := range report.Asked {
		assert.Equal(t, requiredQuestions[i], rec.Question)
		assert.Equal(t, 1.0, rec.MatchScore)
	}
}

func TestCheckNoneAsked(t *testing.T) {
	e := newEngine(t, 0.6)
	transcript := "Thanks for calling the pizza place, pepperoni or mushroom tonight?"

	report := e.Check(transcript, requiredQuestions)

	assert.Empty(t, report.Asked)
	assert.Len(t, report.Missed, 3)
	assert.Equal(t, 0.0, report.Coverage)
}

func TestCheckRepeatedToken(t *testing.T) {
	e := newEngine(t, 0.6)

	report := e.Check("name name name", []string{"What is your name?"})

	require.Len(t, report.Asked, 1)
	assert.Equal(t, domain.MatchRecord{Question: "What is your name?", MatchScore: 1.0}, report.Asked[0])
	assert.Equal(t, 1.0, report.Coverage)
}

func TestCheckEmptyQuestionList(t *testing.T) {
	e := newEngine(t, 0.6)

	report := e.Check("what is your name", nil)

	assert.Empty(t, report.Asked)
	assert.Empty(t, report.Missed)
	assert.Equal(t, 0.0, report.Coverage)

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"asked":[],"missed":[],"coverage":0}`, string(out))
}

func TestCheckStablePartition(t *testing.T) {
	e := newEngine(t, 0.6)
	questions := []string{"name", "weapons", "location", "", "breathing", "emergency"}

	report := e.Check("name location emergency", questions)

	assert.Equal(t, []string{"name", "location", "emergency"}, questionsOf(report.Asked))
	assert.Equal(t, []string{"weapons", "", "breathing"}, questionsOf(report.Missed))
	assert.Equal(t, len(questions), report.Total())
	assert.Equal(t, 0.5, report.Coverage)
}

func TestCheckRoundsReportedScoresOnly(t *testing.T) {
	// 2 of 3 tokens: 0.666... is reported as 0.67 but compared unrounded.
	question := "address emergency callback"
	transcript := "address emergency"

	asked := newEngine(t, 0.6666).Check(transcript, []string{question})
	require.Len(t, asked.Asked, 1)
	assert.Equal(t, 0.67, asked.Asked[0].MatchScore)

	missed := newEngine(t, 0.67).Check(transcript, []string{question})
	require.Len(t, missed.Missed, 1)
	assert.Equal(t, 0.67, missed.Missed[0].MatchScore)
}

func TestCheckCoverageRounding(t *testing.T) {
	e := newEngine(t, 0.6)

	report := e.Check("name", []string{"name", "location", "emergency"})

	assert.Equal(t, 0.33, report.Coverage)
}

func TestCheckOutOfRangeThreshold(t *testing.T) {
	transcript := "what is your name"

	high := newEngine(t, 1.5).Check(transcript, requiredQuestions)
	assert.Empty(t, high.Asked)
	assert.Len(t, high.Missed, 3)

	low := newEngine(t, -1).Check(transcript, requiredQuestions)
	assert.Len(t, low.Asked, 3)
	assert.Empty(t, low.Missed)
	assert.Equal(t, 1.0, low.Coverage)
}

func TestCheckThresholdMonotonic(t *testing.T) {
	transcript := "location of the emergency please, and your name and callback"
	questions := []string{
		"What is your name?",
		"What is the address of the emergency?",
		"What is your callback number?",
		"Is anyone injured?",
		"Is the patient breathing?",
	}

	prev := -1
	for _, th := range []float64{0, 0.2, 0.4, 0.5, 0.6, 0.8, 1.0, 1.1} {
		report := newEngine(t, th).Check(transcript, questions)
		if prev >= 0 {
			assert.LessOrEqual(t, len(report.Asked), prev, "threshold %v", th)
		}
		prev = len(report.Asked)
	}
}

func TestCheckDeterministic(t *testing.T) {
	e := newEngine(t, 0.6)
	transcript := "Norman 911, what is the address of the emergency? Is anyone injured?"
	questions := []string{"What is the address of the emergency?", "Is anyone injured?", "What is your callback number?"}

	first, err := json.Marshal(e.Check(transcript, questions))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(e.Check(transcript, questions))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestCheckTokensMatchesCheck(t *testing.T) {
	e := newEngine(t, 0.6)
	transcript := "what is the address of the emergency"
	questions := []string{"address of the emergency", "callback number"}

	assert.Equal(t, e.Check(transcript, questions), e.CheckTokens(e.TokenSet(transcript), questions))
}

func questionsOf(records []domain.MatchRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Question)
	}
	return out
}

func TestWithThresholdCopiesEngine(t *testing.T) {
	e := newEngine(t, 0.6)
	strict := e.WithThreshold(1.0)

	assert.Equal(t, 0.6, e.Threshold())
	assert.Equal(t, 1.0, strict.Threshold())

	question := []string{"address emergency callback"}
	assert.Len(t, e.Check("address emergency", question).Asked, 1)
	assert.Len(t, strict.Check("address emergency", question).Asked, 0)
}
