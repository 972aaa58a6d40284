// File: cmd/snapshot.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vex0ray/spyglass/internal/observability"
	"github.com/vex0ray/spyglass/internal/service"
	"github.com/vex0ray/spyglass/internal/snapshot"
)

// newSnapshotCmd creates the `snapshot` command: one full perception pass.
func newSnapshotCmd() *cobra.Command {
	var (
		framePath  string
		sessionID  string
		skipDetect bool
	)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build one full game-state snapshot",
		Long: `Runs a complete perception pass: captures a frame, locates the tutorial
cues, merges the current telemetry export and prints the snapshot record
as JSON. Snapshots built this way always pass snapshot validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if framePath != "" {
				if err := replayFromFrame(cfg, framePath); err != nil {
					return err
				}
			}
			logger := observability.GetLogger()

			components, err := service.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize components: %w", err)
			}
			defer components.Shutdown()

			params := snapshot.BuildParams{
				SessionID: sessionID,
				Telemetry: components.Telemetry(),
			}
			if !skipDetect {
				region := captureRegion(cfg)
				result, err := components.Analyzer.Analyze(ctx, region)
				if err != nil {
					return err
				}
				params.Detection = &result
				params.WindowBounds = &region
			}

			return printJSON(cmd, components.Builder.Build(params))
		},
	}

	snapshotCmd.Flags().StringVarP(&framePath, "frame", "f", "", "Analyze a saved PNG screenshot instead of capturing")
	snapshotCmd.Flags().StringVar(&sessionID, "session", "", "Session ID to stamp on the snapshot")
	snapshotCmd.Flags().BoolVar(&skipDetect, "no-detect", false, "Skip the cue detection pass")
	return snapshotCmd
}
