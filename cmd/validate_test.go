// File: cmd/validate_test.go
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vex0ray/spyglass/api/schemas"
)

// captureExit swaps the exit hook for one that records the code instead of
// terminating the test binary.
func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = os.Exit })
	return &code
}

func TestValidateIntentValid(t *testing.T) {
	exitCode := captureExit(t)

	intent := `{"intent_id":"intent-1","action_type":"click","target":{"x":120,"y":80},"confidence":0.92}`
	output, err := executeCommandWithInput(t, intent, "validate", "intent")
	require.NoError(t, err)
	assert.Equal(t, -1, *exitCode, "valid intents must not trip the failure exit")

	var result schemas.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateIntentInvalidExitsTwo(t *testing.T) {
	exitCode := captureExit(t)

	intent := `{"intent_id":"intent-2","action_type":"click","confidence":0.5}`
	output, err := executeCommandWithInput(t, intent, "validate", "intent")
	require.NoError(t, err)
	assert.Equal(t, 2, *exitCode)

	var result schemas.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Action type 'click' requires target")
}

func TestValidateIntentMalformedInput(t *testing.T) {
	_, err := executeCommandWithInput(t, "{not json", "validate", "intent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed input")
}

func TestValidateIntentFromFile(t *testing.T) {
	exitCode := captureExit(t)

	path := filepath.Join(t.TempDir(), "intent.json")
	intent := `{"intent_id":"intent-3","action_type":"wait","confidence":1.0}`
	require.NoError(t, os.WriteFile(path, []byte(intent), 0o600))

	output, err := executeCommand(t, "validate", "intent", path)
	require.NoError(t, err)
	assert.Equal(t, -1, *exitCode)
	assert.Contains(t, output, `"valid": true`)
}

func TestValidateIntentMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := executeCommand(t, "validate", "intent", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read "+path)
}

func TestValidateSnapshotValid(t *testing.T) {
	exitCode := captureExit(t)

	snap := `{"capture_id":"cap1","timestamp":"2026-08-25T10:00:00Z","session_id":"sess_1","client":{"bounds":{"x":0,"y":0,"width":765,"height":503}}}`
	output, err := executeCommandWithInput(t, snap, "validate", "snapshot")
	require.NoError(t, err)
	assert.Equal(t, -1, *exitCode)

	var result schemas.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.True(t, result.Valid)
}

func TestValidateSnapshotInvalidExitsTwo(t *testing.T) {
	exitCode := captureExit(t)

	output, err := executeCommandWithInput(t, `{"capture_id":"cap1"}`, "validate", "snapshot")
	require.NoError(t, err)
	assert.Equal(t, 2, *exitCode)

	var result schemas.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Missing session_id")
	assert.Contains(t, result.Errors, "Invalid client bounds")
}
