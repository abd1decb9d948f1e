package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (list, show, create, edit, delete)",
	Long: `Task commands against the configured backend.

Listings are filtered by project, tag, and status, and ordered by due date
with the earliest first.`,
}

// Flags shared by task subcommands.
var (
	taskProjectFlag     string
	taskTagFlags        []string
	taskStatusFlag      string
	taskOutputFlag      string
	taskTitleFlag       string
	taskDescriptionFlag string
	taskDueFlag         string
)

// parseStatusFlag normalizes a --status value and rejects unknown statuses.
func parseStatusFlag(value string) (models.TaskStatus, error) {
	status := core.ParseStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q, must be one of: todo, in-progress, done", value)
	}
	return status, nil
}

// buildFilterSpec turns the list flags into a FilterSpec. Unset flags place
// no constraint.
func buildFilterSpec(cmd *cobra.Command) (models.FilterSpec, error) {
	var spec models.FilterSpec
	if cmd.Flags().Changed("project") {
		id := models.ID(taskProjectFlag)
		spec.ProjectID = &id
	}
	if cmd.Flags().Changed("tag") {
		spec.TagIDs = models.IDsFromStrings(taskTagFlags)
	}
	if cmd.Flags().Changed("status") {
		status, err := parseStatusFlag(taskStatusFlag)
		if err != nil {
			return spec, err
		}
		spec.Status = &status
	}
	return spec, nil
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks ordered by due date",
	Long: `List tasks ordered by due date, earliest first.

Filters combine: a task must match every filter given. --tag may be
repeated and matches tasks carrying any of the listed tags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		format, err := resolveOutput(taskOutputFlag)
		if err != nil {
			return err
		}
		spec, err := buildFilterSpec(cmd)
		if err != nil {
			return err
		}

		tasks, snap, err := TaskSvc.List(commandContext(cmd), spec)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		return renderTasks(cmd.OutOrStdout(), format, tasks, snap, Clock())
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a single task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		format, err := resolveOutput(taskOutputFlag)
		if err != nil {
			return err
		}

		snap, err := TaskSvc.Load(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		task, ok := core.FindTask(snap.Tasks, models.ID(args[0]))
		if !ok {
			return fmt.Errorf("task %s: %w", args[0], core.ErrTaskNotFound)
		}

		view := newTaskView(task, snap, Clock())
		if format != outputTable {
			return writeStructured(cmd.OutOrStdout(), format, view)
		}
		renderTaskDetail(cmd.OutOrStdout(), view)
		return nil
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Long: `Create a new task. --title and --due are required; the status
defaults to todo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		in := models.TaskInput{
			Title:       taskTitleFlag,
			Description: taskDescriptionFlag,
			ProjectID:   models.ID(taskProjectFlag),
			DueDate:     taskDueFlag,
			Status:      models.StatusTodo,
			TagIDs:      models.IDsFromStrings(taskTagFlags),
		}
		if cmd.Flags().Changed("status") {
			status, err := parseStatusFlag(taskStatusFlag)
			if err != nil {
				return err
			}
			in.Status = status
		}

		task, err := TaskSvc.Create(commandContext(cmd), in)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "  Title:  %s\n", task.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "  Due:    %s\n", core.FormatDate(task.DueDate, Clock()))
		fmt.Fprintf(cmd.OutOrStdout(), "  Status: %s\n", task.Status.Label())
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit an existing task",
	Long: `Edit an existing task. Only the flags given are changed; every other
field keeps its current value. Pass --tag "" to remove all tags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		id := models.ID(args[0])
		current, err := TaskSvc.Get(commandContext(cmd), id)
		if err != nil {
			return fmt.Errorf("loading task %s: %w", id, err)
		}

		in, err := applyEditFlags(cmd, models.InputFromTask(*current))
		if err != nil {
			return err
		}

		task, err := TaskSvc.Update(commandContext(cmd), id, in)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", task.ID)
		return nil
	},
}

// applyEditFlags overlays the flags that were explicitly set onto in.
func applyEditFlags(cmd *cobra.Command, in models.TaskInput) (models.TaskInput, error) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		in.Title = taskTitleFlag
	}
	if flags.Changed("description") {
		in.Description = taskDescriptionFlag
	}
	if flags.Changed("project") {
		in.ProjectID = models.ID(taskProjectFlag)
	}
	if flags.Changed("due") {
		in.DueDate = taskDueFlag
	}
	if flags.Changed("tag") {
		in.TagIDs = models.IDsFromStrings(taskTagFlags)
	}
	if flags.Changed("status") {
		status, err := parseStatusFlag(taskStatusFlag)
		if err != nil {
			return in, err
		}
		in.Status = status
	}
	return in, nil
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		id := models.ID(args[0])
		if err := TaskSvc.Delete(commandContext(cmd), id); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", id)
		return nil
	},
}

// commandContext returns cmd's context, or Background when the command is
// invoked directly (as tests do) rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	taskListCmd.Flags().StringVar(&taskProjectFlag, "project", "", "Only tasks in this project")
	taskListCmd.Flags().StringSliceVar(&taskTagFlags, "tag", nil, "Only tasks carrying any of these tag ids (repeatable)")
	taskListCmd.Flags().StringVar(&taskStatusFlag, "status", "", "Only tasks with this status (todo, in-progress, done)")
	taskListCmd.Flags().StringVarP(&taskOutputFlag, "output", "o", "", "Output format (table, json, yaml)")

	taskShowCmd.Flags().StringVarP(&taskOutputFlag, "output", "o", "", "Output format (table, json, yaml)")

	for _, c := range []*cobra.Command{taskCreateCmd, taskEditCmd} {
		c.Flags().StringVar(&taskTitleFlag, "title", "", "Task title")
		c.Flags().StringVar(&taskDescriptionFlag, "description", "", "Task description")
		c.Flags().StringVar(&taskProjectFlag, "project", "", "Project id")
		c.Flags().StringSliceVar(&taskTagFlags, "tag", nil, "Tag id (repeatable)")
		c.Flags().StringVar(&taskDueFlag, "due", "", "Due date (YYYY-MM-DD)")
		c.Flags().StringVar(&taskStatusFlag, "status", "", "Status (todo, in-progress, done)")
	}

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
