// File: cmd/budgets.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vex0ray/spyglass/internal/pipeline"
)

// newBudgetsCmd creates the `budgets` command: the stage latency table.
func newBudgetsCmd() *cobra.Command {
	var asJSON bool

	budgetsCmd := &cobra.Command{
		Use:   "budgets",
		Short: "Print the pipeline stage latency budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			budgets := pipeline.Budgets()
			if asJSON {
				return printJSON(cmd, budgets)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STAGE\tBUDGET_MS")
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%d\n", b.Stage, b.BudgetMS)
			}
			return w.Flush()
		},
	}

	budgetsCmd.Flags().BoolVar(&asJSON, "json", false, "Emit the table as JSON")
	return budgetsCmd
}
