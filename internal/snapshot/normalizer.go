package snapshot

import (
	"errors"

	"github.com/vex0ray/spyglass/api/schemas"
)

// Highlight states the cue merge can produce. Arrow wins when both cues
// are present because a quest arrow is the more specific instruction.
const (
	HighlightArrow  = "arrow"
	HighlightObject = "object"
)

// Normalizer merges telemetry and detection output into snapshots.
type Normalizer struct {
	regions *RegionTable
}

// NewNormalizer builds a Normalizer over the given region table.
func NewNormalizer(regions *RegionTable) (*Normalizer, error) {
	if regions == nil {
		return nil, errors.New("region table cannot be nil")
	}
	return &Normalizer{regions: regions}, nil
}

// Merge is the fast path: it starts from a zero-valued snapshot and fills
// only what the inputs carry. Identity fields stay empty; Build is the
// operation that produces a fully-populated snapshot.
func (n *Normalizer) Merge(info schemas.TelemetryInfo, arrow, highlight *schemas.Point, captureMS uint64) schemas.SnapshotSchema {
	var snap schemas.SnapshotSchema

	snap.Telemetry = info
	snap.Stale = !info.Fresh

	if w := info.PlayerWorld; w != nil {
		snap.Derived.Location.Coordinates = *w
		snap.Derived.Location.Region = n.regions.Lookup(w.X, w.Y)
	}

	if arrow != nil {
		snap.Cues.HighlightState = HighlightArrow
	} else if highlight != nil {
		snap.Cues.HighlightState = HighlightObject
	}

	snap.Client.CaptureLatencyMS = captureMS
	return snap
}
