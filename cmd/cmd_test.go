// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vex0ray/spyglass/internal/config"
	"github.com/vex0ray/spyglass/internal/observability"
)

// TestMain pins the global logger to a silent level before any command
// runs, so the InitializeLogger call in PersistentPreRunE is a no-op and
// test output stays clean.
func TestMain(m *testing.M) {
	observability.InitializeLogger(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "spyglass-test"})
	code := m.Run()
	observability.Sync()
	os.Exit(code)
}

// executeCommand runs a fresh root command with the given args and returns
// the combined stdout and stderr output. Building a new command per run
// keeps flag state from leaking between tests.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, "", args...)
}

// executeCommandWithInput additionally feeds input on the command's stdin.
func executeCommandWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	if input != "" {
		root.SetIn(strings.NewReader(input))
	}
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// createTempConfig writes a config file and returns its path.
func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spyglass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeCuePNG renders a 64x64 screenshot with a yellow arrow blob whose
// centroid lands at (13, 10) and returns its path.
func writeCuePNG(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 8; y <= 13; y++ {
		for x := 8; x <= 18; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 0, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// writeTelemetryExport writes a short-dialect session-stats export stamped
// with the given time and returns its path.
func writeTelemetryExport(t *testing.T, ts time.Time) string {
	t.Helper()
	payload := fmt.Sprintf(`{"t":%d,"tp":230,"p":{"wx":3098,"wy":3107,"sx":260,"sy":170},"c":{"y":1024}}`, ts.UnixMilli())
	path := filepath.Join(t.TempDir(), "session_stats.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", output)
}

func TestVersionFlag(t *testing.T) {
	output, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", output)
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand(t, "transmogrify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRejectsInvalidConfig(t *testing.T) {
	configFile := createTempConfig(t, "capture:\n  source: webcam\n")

	_, err := executeCommand(t, "--config", configFile, "budgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Contains(t, err.Error(), "source must be one of screen, cdp, replay")
}

func TestRejectsMissingConfigFile(t *testing.T) {
	_, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "budgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
