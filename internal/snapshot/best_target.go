package snapshot

import (
	"github.com/vex0ray/spyglass/api/schemas"
)

// targetConfidenceFloor is the minimum cue confidence worth clicking.
const targetConfidenceFloor = 0.3

// BestTarget picks the most trustworthy click position from telemetry and
// detection. Priority is an on-screen NPC, then the guide arrow, then an
// object highlight; cues below the confidence floor are ignored. ok is
// false when nothing qualifies.
func BestTarget(info schemas.TelemetryInfo, det *schemas.DetectionResult) (schemas.ScreenCoord, bool) {
	if len(info.NPCsOnScreen) > 0 {
		npc := info.NPCsOnScreen[0]
		return schemas.ScreenCoord{X: npc.X, Y: npc.Y}, true
	}

	if det != nil {
		if a := det.Arrow; a != nil && a.Confidence > targetConfidenceFloor {
			return schemas.ScreenCoord{X: a.X, Y: a.Y}, true
		}
		if h := det.Highlight; h != nil && h.Confidence > targetConfidenceFloor {
			return schemas.ScreenCoord{X: h.X, Y: h.Y}, true
		}
	}

	return schemas.ScreenCoord{}, false
}
