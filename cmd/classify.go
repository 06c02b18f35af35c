package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/config"
	"github.com/user/soc-triage/pkg/triage"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Match alerts against the technique catalog without calling a model",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return
		}
		if cmd.Flags().Changed("alerts") {
			cfg.AlertsFile, _ = cmd.Flags().GetString("alerts")
		}

		catalog, err := loadCatalog(cfg)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}

		alerts, err := alert.LoadFile(cfg.AlertsFile)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if len(alerts) == 0 {
			fmt.Fprintln(out, "No alerts to classify.")
			return
		}

		showPrompt, _ := cmd.Flags().GetBool("prompt")
		classifier := triage.NewClassifier(catalog)
		for i, a := range alerts {
			techniques := classifier.Classify(a)
			id := a.ID
			if id == "" {
				id = fmt.Sprintf("alert_%d", i+1)
			}
			fmt.Fprintf(out, "[%d/%d] %s (%s)\n", i+1, len(alerts), id, alert.Or(a.Kind()))
			if len(techniques) == 0 {
				fmt.Fprintln(out, "  no technique matched")
			}
			for _, t := range techniques {
				fmt.Fprintf(out, "  %s %s [%s] severity %d/10\n", t.ID, t.Name, t.Tactic, t.Severity)
			}
			if showPrompt {
				fmt.Fprintln(out, strings.Repeat("-", 60))
				fmt.Fprintln(out, triage.BuildPrompt(a, techniques))
			}
		}
	},
}

func init() {
	classifyCmd.Flags().StringP("alerts", "a", config.DefaultAlertsFile, "JSON file with the alerts to classify")
	classifyCmd.Flags().Bool("prompt", false, "Also print the prompt that would be sent to the model")
	rootCmd.AddCommand(classifyCmd)
}
