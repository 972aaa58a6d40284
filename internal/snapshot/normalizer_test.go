package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vex0ray/spyglass/api/schemas"
)

func freshTelemetry() schemas.TelemetryInfo {
	return schemas.TelemetryInfo{
		Fresh:            true,
		TutorialProgress: 130,
		InventoryCount:   4,
		CameraDirection:  "N",
		NPCsOnScreen:     []schemas.NPCInfo{{Name: "Master Chef", ID: 3308, X: 300, Y: 200}},
		PlayerWorld:      &schemas.WorldCoord{X: 3222, Y: 3218, Plane: 0},
	}
}

func TestNewNormalizerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewNormalizer(nil)
	assert.EqualError(t, err, "region table cannot be nil")
}

func TestMergeFillsTelemetryAndLocation(t *testing.T) {
	t.Parallel()

	n, err := NewNormalizer(DefaultRegionTable())
	require.NoError(t, err)

	info := freshTelemetry()
	snap := n.Merge(info, nil, nil, 42)

	want := schemas.SnapshotSchema{}
	want.Telemetry = info
	want.Stale = false
	want.Derived.Location.Coordinates = schemas.WorldCoord{X: 3222, Y: 3218}
	want.Derived.Location.Region = "Lumbridge"
	want.Client.CaptureLatencyMS = 42

	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeStaleTelemetry(t *testing.T) {
	t.Parallel()

	n, err := NewNormalizer(DefaultRegionTable())
	require.NoError(t, err)

	snap := n.Merge(schemas.TelemetryInfo{Fresh: false}, nil, nil, 0)
	assert.True(t, snap.Stale)
	assert.Empty(t, snap.Derived.Location.Region, "no world position leaves location untouched")
	assert.Equal(t, schemas.WorldCoord{}, snap.Derived.Location.Coordinates)
}

func TestMergeCuePrecedence(t *testing.T) {
	t.Parallel()

	n, err := NewNormalizer(DefaultRegionTable())
	require.NoError(t, err)

	arrow := &schemas.Point{X: 10, Y: 20, Confidence: 0.8}
	highlight := &schemas.Point{X: 30, Y: 40, Confidence: 0.6}

	both := n.Merge(freshTelemetry(), arrow, highlight, 0)
	assert.Equal(t, HighlightArrow, both.Cues.HighlightState, "arrow wins over highlight")

	onlyHighlight := n.Merge(freshTelemetry(), nil, highlight, 0)
	assert.Equal(t, HighlightObject, onlyHighlight.Cues.HighlightState)

	neither := n.Merge(freshTelemetry(), nil, nil, 0)
	assert.Empty(t, neither.Cues.HighlightState)
}

func TestMergeUnknownCoordinates(t *testing.T) {
	t.Parallel()

	n, err := NewNormalizer(DefaultRegionTable())
	require.NoError(t, err)

	info := schemas.TelemetryInfo{
		Fresh:       true,
		PlayerWorld: &schemas.WorldCoord{X: 1, Y: 1},
	}
	snap := n.Merge(info, nil, nil, 0)
	assert.Equal(t, UnknownRegion, snap.Derived.Location.Region)
	assert.Equal(t, schemas.WorldCoord{X: 1, Y: 1}, snap.Derived.Location.Coordinates)
}
