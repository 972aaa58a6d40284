// File: cmd/serve.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/internal/bridge"
	"github.com/vex0ray/spyglass/internal/observability"
	"github.com/vex0ray/spyglass/internal/service"
)

// newServeCmd creates the `serve` command: the stdio bridge loop.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the line-delimited JSON bridge over stdin/stdout",
		Long: `Runs the dispatcher loop a host process drives over stdio: one JSON
request per line in, one JSON response per line out. Log output goes to
stderr so the response stream stays clean. The loop exits on EOF or on
SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			components, err := service.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize components: %w", err)
			}
			defer components.Shutdown()

			dispatcher, err := bridge.NewDispatcher(components.Source, components.Locator, components.Analyzer, components.Regions, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize dispatcher: %w", err)
			}

			logger.Info("Bridge serving on stdio.", zap.Int("ops", len(dispatcher.Ops())))
			return dispatcher.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
