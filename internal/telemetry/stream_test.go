package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewStreamFollowerValidation(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)
	_, err := NewStreamFollower("", DefaultPollInterval, logger)
	assert.EqualError(t, err, "stream path cannot be empty")

	_, err = NewStreamFollower("stream.ndjson", DefaultPollInterval, nil)
	assert.EqualError(t, err, "logger cannot be nil")

	f, err := NewStreamFollower("stream.ndjson", 0, logger)
	require.NoError(t, err)
	require.NotNil(t, f)
}

func TestStreamFollowerDeliversAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.ndjson")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	f, err := NewStreamFollower(path, 10*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	// Tailing starts at end of file, so keep appending until a line is
	// observed; the first appends may land before the tailer attaches.
	appendLine := func(line string) {
		fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = fh.WriteString(line + "\n")
		require.NoError(t, err)
		require.NoError(t, fh.Close())
	}

	var rec *Record
	deadline := time.After(10 * time.Second)
waiting:
	for {
		appendLine(`{"t": 9000, "tick": 7, "tp": 170}`)
		select {
		case rec = <-f.Updates():
			break waiting
		case <-deadline:
			t.Fatal("no record arrived from stream")
		case <-time.After(100 * time.Millisecond):
		}
	}

	assert.Equal(t, int64(7), rec.GameTick)
	assert.Equal(t, 170, rec.TutorialProgress)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStreamFollowerSkipsBlankAndInvalidLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.ndjson")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	f, err := NewStreamFollower(path, time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	appendLines := func(lines string) {
		fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = fh.WriteString(lines)
		require.NoError(t, err)
		require.NoError(t, fh.Close())
	}

	var rec *Record
	deadline := time.After(10 * time.Second)
waiting:
	for {
		appendLines("\n{broken\n{\"t\": 9000, \"tick\": 9}\n")
		select {
		case rec = <-f.Updates():
			break waiting
		case <-deadline:
			t.Fatal("no record arrived from stream")
		case <-time.After(100 * time.Millisecond):
		}
	}

	assert.Equal(t, int64(9), rec.GameTick, "only the valid line yields a record")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
