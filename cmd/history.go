package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/triage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived analysis runs",
}

// openHistory resolves the database from --history-db, then the config file
func openHistory(cmd *cobra.Command) (*triage.HistoryStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	path := cfg.HistoryDB
	if cmd.Flags().Changed("history-db") {
		path, _ = cmd.Flags().GetString("history-db")
	}
	if path == "" {
		return nil, errors.New("no history database configured (set history_db or pass --history-db)")
	}
	return triage.OpenHistory(path)
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		store, err := openHistory(cmd)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		defer store.Close()

		runs, err := store.ListRuns()
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No archived runs.")
			return
		}
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %s  %-12s %3d alerts  %d failed  %s\n",
				r.ID, r.StartedAt.Format(time.RFC3339), r.Model, r.Alerts, r.Failures, r.AlertsFile)
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the results of an archived run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		store, err := openHistory(cmd)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		defer store.Close()

		run, err := store.LoadRun(args[0])
		if errors.Is(err, triage.ErrRunNotFound) {
			fmt.Fprintf(out, "Run %s not found\n", args[0])
			return
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}

		fmt.Fprintf(out, "Run %s\n", run.ID)
		fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(out, "Finished: %s\n", run.FinishedAt.Format(time.RFC3339))
		fmt.Fprintf(out, "Model:    %s\n", run.Model)
		fmt.Fprintf(out, "Alerts:   %s\n", run.AlertsFile)
		for _, r := range run.Results {
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%s (%s) severity %s [%s]\n", r.AlertID, alert.Or(r.AlertType), alert.Or(r.Severity), r.Status)
			if len(r.Techniques) > 0 {
				fmt.Fprintf(out, "Techniques: %v\n", r.Techniques)
			}
			fmt.Fprintln(out, r.Response)
		}
	},
}

func init() {
	historyCmd.PersistentFlags().String("history-db", "", "History database path (default: history_db from config)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
