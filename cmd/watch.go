// File: cmd/watch.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vex0ray/spyglass/internal/observability"
	"github.com/vex0ray/spyglass/internal/service"
	"github.com/vex0ray/spyglass/internal/telemetry"
)

// newWatchCmd creates the `watch` command: a live telemetry follower.
func newWatchCmd() *cobra.Command {
	var stream bool

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the telemetry feed and print updates as JSON lines",
		Long: `Follows the client's telemetry export and prints one JSON line per
update until interrupted. With --stream the tick-by-tick event log named
by telemetry.stream_path is tailed instead of the export file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()
			tc := cfg.Telemetry()

			var (
				updates <-chan *telemetry.Record
				run     func(context.Context) error
			)
			if stream {
				follower, err := telemetry.NewStreamFollower(tc.StreamPath, 0, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize stream follower: %w", err)
				}
				updates = follower.Updates()
				run = follower.Run
			} else {
				reader, err := service.NewTelemetryReader(cfg, logger)
				if err != nil {
					return err
				}
				if reader == nil {
					return errors.New("no telemetry export path available")
				}
				watcher, err := telemetry.NewWatcher(reader, tc.Debounce, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize telemetry watcher: %w", err)
				}
				updates = watcher.Updates()
				run = watcher.Run
			}

			logger.Info("Watching telemetry feed.", zap.Bool("stream", stream))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return run(gctx) })
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return gctx.Err()
					case rec := <-updates:
						if err := printJSONLine(cmd, rec.Info(time.Now(), tc.MaxAge)); err != nil {
							return err
						}
					}
				}
			})
			// Interruption is the normal way out of a follow loop.
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	watchCmd.Flags().BoolVar(&stream, "stream", false, "tail the tick event log instead of the export file")
	return watchCmd
}

// printJSONLine writes v to the command's stdout as one compact JSON line.
func printJSONLine(cmd *cobra.Command, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
