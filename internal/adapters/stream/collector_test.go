package stream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/logger"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/normalizer"
	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
)

const transcript = `[00:00.0–00:03.5] SPEAKER_01: Norman 911, what is the address of the emergency?
[00:03.5–00:07.2] SPEAKER_00: It's 1200 Brompton Drive, Norman Oklahoma.
[00:07.2–00:09.0] SPEAKER_01: What's the phone number you're calling from?
[00:09.0–00:12.4] SPEAKER_00: 405 555 0100. Héctor is hurt, he fell down the stairs.`

func TestCollectMatchesWholeTextNormalization(t *testing.T) {
	norm := normalizer.NewDefaultNormalizer()
	want := domain.NewTokenSet(norm.Normalize(transcript))

	for _, size := range []int{1, 3, 7, 64, DefaultChunkSize} {
		c := NewCollector(logger.NewNopLogger(), norm, CollectorConfig{ChunkSize: size})

		got, n, err := c.Collect(context.Background(), strings.NewReader(transcript))

		require.NoError(t, err, "chunk size %d", size)
		assert.Equal(t, int64(len(transcript)), n)
		assert.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestCollectEmpty(t *testing.T) {
	c := NewCollector(logger.NewNopLogger(), normalizer.NewDefaultNormalizer(), CollectorConfig{})

	got, n, err := c.Collect(context.Background(), strings.NewReader(""))

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, got)
}

func TestCollectCancelled(t *testing.T) {
	c := NewCollector(logger.NewNopLogger(), normalizer.NewDefaultNormalizer(), CollectorConfig{ChunkSize: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Collect(ctx, strings.NewReader(strings.Repeat("name ", 100)))

	assert.ErrorIs(t, err, context.Canceled)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestCollectReadError(t *testing.T) {
	c := NewCollector(logger.NewNopLogger(), normalizer.NewDefaultNormalizer(), CollectorConfig{})

	_, _, err := c.Collect(context.Background(), failingReader{})

	assert.ErrorContains(t, err, "disk on fire")
}
