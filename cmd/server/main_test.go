package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	closed bool
}

func (r *closeRecorder) Debug(string, ...interface{}) {}
func (r *closeRecorder) Info(string, ...interface{})  {}
func (r *closeRecorder) Warn(string, ...interface{})  {}
func (r *closeRecorder) Error(string, ...interface{}) {}
func (r *closeRecorder) Close() error                 { r.closed = true; return nil }

func TestExitClosesLoggerFirst(t *testing.T) {
	rec := &closeRecorder{}
	code := -1
	closedAtExit := false

	osExit = func(c int) {
		code = c
		closedAtExit = rec.closed
	}
	t.Cleanup(func() { osExit = os.Exit })

	exit(rec, 1)

	assert.Equal(t, 1, code)
	assert.True(t, closedAtExit)
}

func TestExitFlushesFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	log, err := createLogger(path)
	require.NoError(t, err)

	osExit = func(int) {}
	t.Cleanup(func() { osExit = os.Exit })

	log.Error("Failed to initialize coverage checker", "error", "boom")
	exit(log, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Failed to initialize coverage checker")
}
