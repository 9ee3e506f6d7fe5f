package warmup

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/logger"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/normalizer"
	"github.com/baditaflorin/go_question_coverage/internal/core/coverage"
)

func TestWarmUpRunsRegisteredComponents(t *testing.T) {
	log := logger.NewNopLogger()
	norm := normalizer.NewDefaultNormalizer()
	engine, err := coverage.NewEngine(coverage.DefaultConfig(), log, norm)
	require.NoError(t, err)

	mgr := NewManager(log, WarmupConfig{Concurrency: 2, Iterations: 5, SampleSentences: 8})
	mgr.RegisterNormalizer(norm)
	mgr.RegisterChecker(engine)

	assert.Equal(t, int64(2*5*2), mgr.WarmUp(context.Background()))
}

func TestWarmUpStopsOnCancelledContext(t *testing.T) {
	mgr := NewManager(logger.NewNopLogger(), WarmupConfig{Concurrency: 1, Iterations: 1000, SampleSentences: 4})
	mgr.RegisterNormalizer(normalizer.NewDefaultNormalizer())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Zero(t, mgr.WarmUp(ctx))
}

func TestSampleTranscriptCoversSampleQuestions(t *testing.T) {
	transcript := SampleTranscript(8)
	assert.Len(t, strings.Split(transcript, "\n"), 8)

	engine, err := coverage.NewEngine(coverage.DefaultConfig(), logger.NewNopLogger(), normalizer.NewDefaultNormalizer())
	require.NoError(t, err)
	report := engine.Check(transcript, SampleQuestions())
	assert.GreaterOrEqual(t, report.Coverage, 0.5)
}
