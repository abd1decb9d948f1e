package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

var projectOutputFlag string

// projectView is a project with the number of tasks assigned to it.
type projectView struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	TaskCount int    `json:"task_count" yaml:"task_count"`
	Overdue   int    `json:"overdue" yaml:"overdue"`
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project commands",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with their task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		format, err := resolveOutput(projectOutputFlag)
		if err != nil {
			return err
		}

		snap, err := TaskSvc.Load(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("loading projects: %w", err)
		}
		views := buildProjectViews(snap, Clock())

		if format != outputTable {
			return writeStructured(cmd.OutOrStdout(), format, views)
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
			return nil
		}

		rows := make([][]string, 0, len(views))
		for _, v := range views {
			rows = append(rows, []string{v.ID, v.Name, strconv.Itoa(v.TaskCount), strconv.Itoa(v.Overdue)})
		}
		writeTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TASKS", "OVERDUE"}, rows, func(row, col int, text string) string {
			if col == 3 && views[row].Overdue > 0 {
				return overdueStyle.Render(text)
			}
			return text
		})
		return nil
	},
}

func buildProjectViews(snap *core.Snapshot, now time.Time) []projectView {
	views := make([]projectView, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		id := p.ID
		stats := core.ComputeStats(core.FilterTasks(snap.Tasks, models.FilterSpec{ProjectID: &id}), now)
		views = append(views, projectView{
			ID:        p.ID.String(),
			Name:      p.Name,
			Color:     p.Color,
			TaskCount: stats.Total,
			Overdue:   stats.Overdue,
		})
	}
	return views
}

func init() {
	projectListCmd.Flags().StringVarP(&projectOutputFlag, "output", "o", "", "Output format (table, json, yaml)")
	projectCmd.AddCommand(projectListCmd)
	rootCmd.AddCommand(projectCmd)
}
