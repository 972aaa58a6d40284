package validate

import (
	"time"

	"github.com/vex0ray/spyglass/api/schemas"
)

// Snapshot validates a snapshot's identity fields and client geometry.
func Snapshot(snap schemas.SnapshotSchema) schemas.ValidationResult {
	start := time.Now()
	var errs []string

	if snap.CaptureID == "" {
		errs = append(errs, "Missing capture_id")
	}
	if snap.Timestamp == "" {
		errs = append(errs, "Missing timestamp")
	}
	if snap.SessionID == "" {
		errs = append(errs, "Missing session_id")
	}

	if snap.Client.Bounds.Width <= 0 || snap.Client.Bounds.Height <= 0 {
		errs = append(errs, "Invalid client bounds")
	}

	return schemas.NewValidationResult(errs, uint64(time.Since(start).Milliseconds()))
}
