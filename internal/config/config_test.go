package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadQuestionSetJSON(t *testing.T) {
	path := writeFile(t, "required_questions.json",
		`{"required": ["What is your name?", "What is your emergency?"], "threshold": 0.75}`)

	qs, err := LoadQuestionSet(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"What is your name?", "What is your emergency?"}, qs.Required)
	assert.Equal(t, 0.75, qs.EffectiveThreshold())
}

func TestLoadQuestionSetYAML(t *testing.T) {
	path := writeFile(t, "questions.yaml", "required:\n  - What is the address of the emergency?\n  - Is anyone injured?\n")

	qs, err := LoadQuestionSet(path)
	require.NoError(t, err)

	assert.Len(t, qs.Required, 2)
	assert.Nil(t, qs.Threshold)
	assert.Equal(t, 0.6, qs.EffectiveThreshold())
	assert.Equal(t, 0.9, qs.ThresholdOr(0.9))
}

func TestLoadQuestionSetEmptyListIsValid(t *testing.T) {
	qs, err := ParseQuestionSet([]byte(`{"required": []}`))
	require.NoError(t, err)
	assert.Empty(t, qs.Required)
}

func TestLoadQuestionSetOutOfRangeThreshold(t *testing.T) {
	qs, err := ParseQuestionSet([]byte(`{"required": ["name"], "threshold": 1.5}`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, qs.EffectiveThreshold())
}

func TestLoadQuestionSetErrors(t *testing.T) {
	_, err := LoadQuestionSet(writeFile(t, "questions.txt", "name"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadQuestionSet(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ParseQuestionSet([]byte(`{"threshold": 0.5}`))
	assert.Error(t, err)

	_, err = ParseQuestionSet([]byte(`{"required": [`))
	assert.Error(t, err)
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvReadTimeout, "5s")
	t.Setenv(EnvThreshold, "0.8")
	t.Setenv(EnvLogFile, "/tmp/coverage.log")

	cfg, err := ServerFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)
	assert.Equal(t, 0.8, cfg.Threshold)
	assert.Equal(t, "/tmp/coverage.log", cfg.LogFile)
}

func TestServerFromEnvInvalid(t *testing.T) {
	t.Setenv(EnvPort, "eighty")

	_, err := ServerFromEnv()
	assert.ErrorContains(t, err, EnvPort)
}
