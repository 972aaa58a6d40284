package snapshot

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/api/schemas"
)

// Schema defaults for a freshly built snapshot.
const (
	snapshotVersion    = 1
	defaultWindowTitle = "RuneLite"
	defaultFPS         = 20
)

// defaultClientBounds is the fixed-mode client rectangle, used when the
// window was not located so every built snapshot still validates.
var defaultClientBounds = schemas.Region{X: 0, Y: 0, Width: 765, Height: 503}

// BuildParams carries the inputs for one snapshot build.
type BuildParams struct {
	// WindowBounds is the client window rectangle. Nil means the window
	// was not located and client identity fields fall back to unknowns.
	WindowBounds *schemas.Region
	// SessionID correlates snapshots across one agent session. Empty
	// derives a session from the capture ID.
	SessionID string
	// Telemetry is the already-projected telemetry section.
	Telemetry schemas.TelemetryInfo
	// Detection is the cue pass for this frame, nil when detection was
	// skipped.
	Detection *schemas.DetectionResult
}

// Builder produces fully-populated snapshots: every section present with
// schema defaults, so the result always passes snapshot validation.
type Builder struct {
	regions *RegionTable
	logger  *zap.Logger
}

// NewBuilder wires a Builder over the given region table.
func NewBuilder(regions *RegionTable, logger *zap.Logger) (*Builder, error) {
	if regions == nil {
		return nil, errors.New("region table cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Builder{
		regions: regions,
		logger:  logger.With(zap.String("component", "snapshot_builder")),
	}, nil
}

// Build assembles a complete snapshot from the params.
func (b *Builder) Build(params BuildParams) schemas.SnapshotSchema {
	captureID := uuid.New().String()[:8]

	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = "sess_" + captureID
	}

	snap := schemas.SnapshotSchema{
		CaptureID: captureID,
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   snapshotVersion,
		Stale:     !params.Telemetry.Fresh,
		SessionID: sessionID,
		Client: schemas.ClientInfo{
			WindowTitle: "unknown",
			Bounds:      defaultClientBounds,
			Focused:     true,
			Scale:       1.0,
			FPS:         defaultFPS,
		},
		ROI: schemas.ROIInfo{
			Minimap:   schemas.Region{X: 550, Y: 5, Width: 150, Height: 150},
			Inventory: schemas.Region{X: 560, Y: 210, Width: 180, Height: 260},
			Chatbox:   schemas.Region{X: 0, Y: 340, Width: 520, Height: 140},
			GameView:  schemas.Region{X: 0, Y: 0, Width: 520, Height: 340},
		},
		UI: schemas.UIInfo{
			OpenInterface:   "none",
			SelectedTab:     "inventory",
			CursorState:     "default",
			Elements:        []schemas.UIElement{},
			DialogueOptions: []string{},
		},
		OCR: []schemas.OCREntry{},
		Cues: schemas.CuesInfo{
			AnimationState: "idle",
			HighlightState: "none",
			ModalState:     "none",
		},
		Derived: schemas.DerivedInfo{
			Location: schemas.LocationInfo{Region: UnknownRegion},
			Activity: schemas.ActivityInfo{ActivityType: "idle", State: "idle"},
			Combat:   schemas.CombatInfo{State: "out_of_combat"},
		},
		Account: schemas.AccountInfo{
			MembershipStatus: "f2p",
			Skills:           map[string]schemas.SkillInfo{},
			Inventory:        []schemas.InventoryItem{},
			Equipment:        map[string]string{},
		},
		Telemetry: params.Telemetry,
	}

	if params.WindowBounds != nil {
		snap.Client.WindowTitle = defaultWindowTitle
		snap.Client.Bounds = *params.WindowBounds
	}

	if w := params.Telemetry.PlayerWorld; w != nil {
		snap.Derived.Location.Coordinates = *w
		snap.Derived.Location.Region = b.regions.Lookup(w.X, w.Y)
	}

	if det := params.Detection; det != nil {
		snap.Client.CaptureLatencyMS = det.CaptureMS + det.DetectMS
		if det.Arrow != nil {
			snap.Cues.HighlightState = HighlightArrow
		}
		if det.Highlight != nil && snap.Cues.HighlightState == "none" {
			snap.Cues.HighlightState = HighlightObject
		}
	}

	b.logger.Debug("Snapshot built",
		zap.String("capture_id", snap.CaptureID),
		zap.String("region", snap.Derived.Location.Region),
		zap.Bool("stale", snap.Stale),
		zap.String("highlight_state", snap.Cues.HighlightState))

	return snap
}
