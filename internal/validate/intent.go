// Package validate checks action intents and snapshots before they cross
// the process boundary. Checks accumulate every failure instead of
// stopping at the first, so a caller sees the whole repair list at once.
// Error strings are part of the wire contract with hosts and must not
// change casually.
package validate

import (
	"fmt"
	"time"

	"github.com/vex0ray/spyglass/api/schemas"
)

// Intent validates a decoded action intent.
func Intent(intent schemas.ActionIntent) schemas.ValidationResult {
	start := time.Now()
	var errs []string

	if intent.ActionType == "" {
		errs = append(errs, "Missing required field: action_type")
	} else if !intent.ActionType.Valid() {
		errs = append(errs, fmt.Sprintf("Invalid action_type: %s", intent.ActionType))
	}

	if intent.ActionType.RequiresTarget() && !intent.Target.HasReference() {
		errs = append(errs, fmt.Sprintf("Action type '%s' requires target", intent.ActionType))
	}

	if intent.Confidence < 0.0 || intent.Confidence > 1.0 {
		errs = append(errs, fmt.Sprintf("Confidence out of range: %v", intent.Confidence))
	}

	return schemas.NewValidationResult(errs, uint64(time.Since(start).Milliseconds()))
}
