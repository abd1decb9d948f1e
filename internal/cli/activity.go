package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/internal/observability"
)

var (
	activitySince   string
	activityType    string
	activityLimit   int
	activitySummary bool
	activityOutput  string
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recorded client activity",
	Long: `Show the activity recorded by this client: task creates, updates and
deletes, logins and logouts.

With --summary the events are aggregated into counts instead of listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized (activity recording may be disabled)")
		}

		format, err := resolveOutput(activityOutput)
		if err != nil {
			return err
		}
		since, err := core.ParseSince(activitySince, Clock())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		if activitySummary {
			return runActivitySummary(cmd, format, since)
		}

		events, err := EventLog.Read(observability.EventFilter{
			Since: &since,
			Type:  activityType,
			Limit: activityLimit,
		})
		if err != nil {
			return fmt.Errorf("reading activity: %w", err)
		}

		if format != outputTable {
			return writeStructured(cmd.OutOrStdout(), format, events)
		}
		if len(events) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No activity since %s.\n", since.Format(core.DateLayout))
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rows = append(rows, []string{e.Time.Local().Format("2006-01-02 15:04"), e.Type, e.Message, describeEventData(e.Data)})
		}
		writeTable(cmd.OutOrStdout(), []string{"TIME", "TYPE", "MESSAGE", "DETAILS"}, rows, nil)
		return nil
	},
}

func runActivitySummary(cmd *cobra.Command, format string, since time.Time) error {
	if Summarizer == nil {
		return fmt.Errorf("activity summarizer not initialized")
	}
	sum, err := Summarizer.Summarize(since)
	if err != nil {
		return fmt.Errorf("summarizing activity: %w", err)
	}

	if format != outputTable {
		return writeStructured(cmd.OutOrStdout(), format, sum)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Activity (since %s)\n\n", since.Format(core.DateLayout))
	fmt.Fprintf(w, "  %-18s %d\n", "Events recorded:", sum.EventCount)
	fmt.Fprintf(w, "  %-18s %d\n", "Tasks created:", sum.TasksCreated)
	fmt.Fprintf(w, "  %-18s %d\n", "Tasks updated:", sum.TasksUpdated)
	fmt.Fprintf(w, "  %-18s %d\n", "Tasks deleted:", sum.TasksDeleted)
	fmt.Fprintf(w, "  %-18s %d\n", "Logins:", sum.Logins)
	fmt.Fprintf(w, "  %-18s %d\n", "Logouts:", sum.Logouts)

	if len(sum.TasksByStatus) > 0 {
		fmt.Fprintln(w, "\n  Statuses written:")
		statuses := make([]string, 0, len(sum.TasksByStatus))
		for status := range sum.TasksByStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			fmt.Fprintf(w, "    %-16s %d\n", status+":", sum.TasksByStatus[status])
		}
	}

	if sum.OldestEvent != nil {
		fmt.Fprintf(w, "\n  %-18s %s\n", "Oldest event:", sum.OldestEvent.Format(time.RFC3339))
	}
	if sum.NewestEvent != nil {
		fmt.Fprintf(w, "  %-18s %s\n", "Newest event:", sum.NewestEvent.Format(time.RFC3339))
	}
	return nil
}

// describeEventData renders event data as sorted key=value pairs.
func describeEventData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%v", k, data[k])
	}
	return out
}

func init() {
	activityCmd.Flags().StringVar(&activitySince, "since", "7d", "Time window (e.g. 7d, 24h)")
	activityCmd.Flags().StringVar(&activityType, "type", "", "Only events of this type (e.g. task.created)")
	activityCmd.Flags().IntVar(&activityLimit, "limit", 0, "Show at most this many of the newest events (0 for all)")
	activityCmd.Flags().BoolVar(&activitySummary, "summary", false, "Show aggregated counts instead of events")
	activityCmd.Flags().StringVarP(&activityOutput, "output", "o", "", "Output format (table, json, yaml)")
	rootCmd.AddCommand(activityCmd)
}
