package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/telemetry"
)

// writeExport drops a short-dialect telemetry export into a temp dir and
// returns its path.
func writeExport(t *testing.T, timestampMS int64) string {
	t.Helper()
	payload := fmt.Sprintf(`{"t":%d,"tp":230,"p":{"wx":3098,"wy":3107,"sx":260,"sy":170},"c":{"y":1024}}`, timestampMS)
	path := filepath.Join(t.TempDir(), "session_stats.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestTelemetryWithoutReader(t *testing.T) {
	t.Parallel()

	c := &Components{}
	assert.Equal(t, schemas.TelemetryInfo{}, c.Telemetry())
}

func TestTelemetryProjectsFreshExport(t *testing.T) {
	t.Parallel()

	path := writeExport(t, time.Now().UnixMilli())
	reader, err := telemetry.NewReader(zaptest.NewLogger(t), 3*time.Second, path)
	require.NoError(t, err)

	c := &Components{Reader: reader, logger: zaptest.NewLogger(t)}
	info := c.Telemetry()

	assert.True(t, info.Fresh)
	assert.Equal(t, 230, info.TutorialProgress)
	assert.Equal(t, "N", info.CameraDirection)
	require.NotNil(t, info.PlayerWorld)
	assert.Equal(t, 3098, info.PlayerWorld.X)
}

func TestTelemetryStaleExportReadsStale(t *testing.T) {
	t.Parallel()

	path := writeExport(t, time.Now().Add(-time.Minute).UnixMilli())
	reader, err := telemetry.NewReader(zaptest.NewLogger(t), 3*time.Second, path)
	require.NoError(t, err)

	c := &Components{Reader: reader, logger: zaptest.NewLogger(t)}
	info := c.Telemetry()

	assert.False(t, info.Fresh)
	assert.Nil(t, info.PlayerWorld, "stale telemetry carries no position")
}

func TestTelemetryMissingExportIsZero(t *testing.T) {
	t.Parallel()

	reader, err := telemetry.NewReader(zaptest.NewLogger(t), 3*time.Second,
		filepath.Join(t.TempDir(), "never_written.json"))
	require.NoError(t, err)

	c := &Components{Reader: reader, logger: zaptest.NewLogger(t)}
	assert.Equal(t, schemas.TelemetryInfo{}, c.Telemetry())
}

func TestShutdownRunsClosersInReverse(t *testing.T) {
	t.Parallel()

	var order []string
	c := &Components{
		logger: zaptest.NewLogger(t),
		closers: []func(){
			func() { order = append(order, "first") },
			func() { order = append(order, "second") },
		},
	}

	c.Shutdown()
	assert.Equal(t, []string{"second", "first"}, order)

	// A second pass must not rerun anything.
	c.Shutdown()
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestShutdownOnEmptyComponents(t *testing.T) {
	t.Parallel()

	c := &Components{}
	assert.NotPanics(t, func() { c.Shutdown() })
}
