package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

var (
	statsProjectFlag string
	statsOutputFlag  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts by status and overdue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		format, err := resolveOutput(statsOutputFlag)
		if err != nil {
			return err
		}

		var spec models.FilterSpec
		if cmd.Flags().Changed("project") {
			id := models.ID(statsProjectFlag)
			spec.ProjectID = &id
		}
		tasks, _, err := TaskSvc.List(commandContext(cmd), spec)
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		stats := core.ComputeStats(tasks, Clock())

		if format != outputTable {
			return writeStructured(cmd.OutOrStdout(), format, stats)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "  %-14s %d\n", "Total:", stats.Total)
		fmt.Fprintf(w, "  %-14s %d\n", "Todo:", stats.Todo)
		fmt.Fprintf(w, "  %-14s %d\n", "In progress:", stats.InProgress)
		fmt.Fprintf(w, "  %-14s %d\n", "Done:", stats.Done)
		overdue := fmt.Sprintf("%d", stats.Overdue)
		if stats.Overdue > 0 {
			overdue = overdueStyle.Render(overdue)
		}
		fmt.Fprintf(w, "  %-14s %s\n", "Overdue:", overdue)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsProjectFlag, "project", "", "Only count tasks in this project")
	statsCmd.Flags().StringVarP(&statsOutputFlag, "output", "o", "", "Output format (table, json, yaml)")
	rootCmd.AddCommand(statsCmd)
}
