// File: cmd/validate.go
package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/validate"
)

// newValidateCmd groups the intent and snapshot validators.
func newValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an action intent or a snapshot record",
	}
	validateCmd.AddCommand(newValidateIntentCmd())
	validateCmd.AddCommand(newValidateSnapshotCmd())
	return validateCmd
}

func newValidateIntentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intent [file]",
		Short: "Validate an action intent read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var intent schemas.ActionIntent
			if err := json.Unmarshal(data, &intent); err != nil {
				return fmt.Errorf("malformed input: %w", err)
			}
			return reportValidation(cmd, validate.Intent(intent))
		},
	}
}

func newValidateSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Validate a snapshot record read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var snap schemas.SnapshotSchema
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("malformed input: %w", err)
			}
			return reportValidation(cmd, validate.Snapshot(snap))
		},
	}
}

// readInput loads the record to validate from the file argument, or stdin
// when the argument is absent or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

// reportValidation prints the result and exits with code 2 when the record
// is semantically invalid, keeping invalidity distinct from command failure.
func reportValidation(cmd *cobra.Command, result schemas.ValidationResult) error {
	if err := printJSON(cmd, result); err != nil {
		return err
	}
	if !result.Valid {
		osExit(2)
	}
	return nil
}
