package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vex0ray/spyglass/api/schemas"
)

func TestBestTargetPrefersNPC(t *testing.T) {
	t.Parallel()

	det := &schemas.DetectionResult{
		Arrow: &schemas.Point{X: 50, Y: 60, Confidence: 0.9},
	}
	coord, ok := BestTarget(freshTelemetry(), det)
	require.True(t, ok)
	assert.Equal(t, schemas.ScreenCoord{X: 300, Y: 200}, coord, "an on-screen NPC beats any cue")
}

func TestBestTargetArrowBeforeHighlight(t *testing.T) {
	t.Parallel()

	det := &schemas.DetectionResult{
		Arrow:     &schemas.Point{X: 50, Y: 60, Confidence: 0.9},
		Highlight: &schemas.Point{X: 70, Y: 80, Confidence: 0.95},
	}
	coord, ok := BestTarget(schemas.TelemetryInfo{}, det)
	require.True(t, ok)
	assert.Equal(t, schemas.ScreenCoord{X: 50, Y: 60}, coord)
}

func TestBestTargetConfidenceFloor(t *testing.T) {
	t.Parallel()

	weakArrow := &schemas.DetectionResult{
		Arrow: &schemas.Point{X: 50, Y: 60, Confidence: 0.3},
	}
	_, ok := BestTarget(schemas.TelemetryInfo{}, weakArrow)
	assert.False(t, ok, "confidence exactly at the floor does not qualify")

	barelyEnough := &schemas.DetectionResult{
		Arrow: &schemas.Point{X: 50, Y: 60, Confidence: 0.31},
	}
	coord, ok := BestTarget(schemas.TelemetryInfo{}, barelyEnough)
	require.True(t, ok)
	assert.Equal(t, schemas.ScreenCoord{X: 50, Y: 60}, coord)

	weakArrowStrongHighlight := &schemas.DetectionResult{
		Arrow:     &schemas.Point{X: 50, Y: 60, Confidence: 0.1},
		Highlight: &schemas.Point{X: 70, Y: 80, Confidence: 0.5},
	}
	coord, ok = BestTarget(schemas.TelemetryInfo{}, weakArrowStrongHighlight)
	require.True(t, ok)
	assert.Equal(t, schemas.ScreenCoord{X: 70, Y: 80}, coord, "a weak arrow falls through to the highlight")
}

func TestBestTargetNothingQualifies(t *testing.T) {
	t.Parallel()

	_, ok := BestTarget(schemas.TelemetryInfo{}, nil)
	assert.False(t, ok)

	_, ok = BestTarget(schemas.TelemetryInfo{}, &schemas.DetectionResult{})
	assert.False(t, ok)
}
