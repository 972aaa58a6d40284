// File: cmd/detect.go
package cmd

import (
	"fmt"
	"image/png"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/config"
	"github.com/vex0ray/spyglass/internal/observability"
	"github.com/vex0ray/spyglass/internal/service"
)

// newDetectCmd creates the `detect` command: one capture and cue pass.
func newDetectCmd() *cobra.Command {
	var framePath string

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Capture one frame and locate the tutorial cues",
		Long: `Captures a single frame from the configured source, or a PNG screenshot
given with --frame, and prints the detection result as JSON. Absent cues
are null fields, not errors.`,
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

			result, err := components.Analyzer.Analyze(ctx, captureRegion(cfg))
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	detectCmd.Flags().StringVarP(&framePath, "frame", "f", "", "Analyze a saved PNG screenshot instead of capturing")
	return detectCmd
}

// replayFromFrame rewires the capture section to serve the given PNG, with
// the capture region matching the image geometry.
func replayFromFrame(cfg *config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	dims, err := png.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("failed to decode frame %s: %w", path, err)
	}

	cfg.CaptureCfg.Source = "replay"
	cfg.CaptureCfg.Replay.Paths = []string{path}
	cfg.CaptureCfg.Region = config.RegionConfig{Width: dims.Width, Height: dims.Height}
	return nil
}

// captureRegion converts the configured capture rectangle to a schema region.
func captureRegion(cfg *config.Config) schemas.Region {
	r := cfg.Capture().Region
	return schemas.Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
