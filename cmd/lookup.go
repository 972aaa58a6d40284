// File: cmd/lookup.go
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vex0ray/spyglass/internal/snapshot"
)

// newLookupCmd groups the region and tutorial-phase table lookups.
func newLookupCmd() *cobra.Command {
	lookupCmd := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve coordinates or tutorial progress against the reference tables",
	}
	lookupCmd.AddCommand(newLookupRegionCmd())
	lookupCmd.AddCommand(newLookupPhaseCmd())
	return lookupCmd
}

func newLookupRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region <x> <y>",
		Short: "Name the region containing the world coordinates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid x coordinate %q: %w", args[0], err)
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid y coordinate %q: %w", args[1], err)
			}

			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			table := snapshot.DefaultRegionTable()
			if path := cfg.RegionsFile(); path != "" {
				if table, err = snapshot.LoadRegionTable(path); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), table.Lookup(x, y))
			return nil
		},
	}
}

func newLookupPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase <progress>",
		Short: "Name the tutorial phase for a progress counter value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), snapshot.TutorialPhase(progress))
			return nil
		},
	}
}
