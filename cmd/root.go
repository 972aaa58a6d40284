// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/internal/config"
	"github.com/vex0ray/spyglass/internal/observability"
)

// contextKey scopes context values set by this package.
type contextKey string

// configKey holds the loaded *config.Config for subcommands.
const configKey contextKey = "config"

var (
	cfgFile string

	// osExit is swapped out in tests that assert exit codes.
	osExit = os.Exit

	rootCmd = newRootCmd()
)

// newRootCmd builds the root command with configuration and logger wiring.
// Every subcommand reads its config from the command context, so commands
// stay free of global state.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spyglass",
		Short: "Perception and validation sidecar for a game-client agent",
		Long: `Spyglass captures game-client frames, locates the tutorial cues (yellow
arrow, cyan highlight), merges client telemetry into snapshot records and
validates the action intents a decision layer proposes.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(v); err != nil {
				return err
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				// Fall back to a basic logger so the failure is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "spyglass"})
				return fmt.Errorf("failed to load config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting spyglass", zap.String("version", Version))

			// Store the validated config in the command context for subcommands.
			ctx := context.WithValue(cmd.Context(), configKey, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./spyglass.yaml or ~/.spyglass/spyglass.yaml)")
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(newDetectCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newBudgetsCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initializeConfig points viper at the config file locations and the
// SPYGLASS_ environment.
func initializeConfig(v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".spyglass"))
		}
		v.SetConfigName("spyglass")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SPYGLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and environment apply.
	}
	return nil
}

// getConfigFromContext retrieves the config stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration missing from command context")
	}
	return cfg, nil
}

// Execute runs the root command under the signal-aware context from main.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command failed", zap.Error(err))
		return err
	}
	return nil
}
