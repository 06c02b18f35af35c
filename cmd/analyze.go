package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/soc-triage/pkg/adk"
	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/config"
	"github.com/user/soc-triage/pkg/mitre"
	"github.com/user/soc-triage/pkg/triage"
)

var rule = strings.Repeat("=", 60)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of alerts with the language model",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return
		}
		applyAnalyzeFlags(cmd, cfg)

		catalog, err := loadCatalog(cfg)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}

		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "SOC TRIAGE ASSISTANT - ALERT ANALYZER")
		fmt.Fprintln(out, rule)

		fmt.Fprintf(out, "\nLoading alerts from %s...\n", cfg.AlertsFile)
		alerts, err := alert.LoadFile(cfg.AlertsFile)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if len(alerts) == 0 {
			fmt.Fprintln(out, "No alerts to analyze.")
			return
		}
		fmt.Fprintf(out, "%d alerts loaded\n", len(alerts))

		ctx := cmd.Context()
		provider, closeProvider, err := newProvider(ctx, cfg)
		if err != nil {
			fmt.Fprintf(out, "Error creating AI provider: %v\n", err)
			return
		}
		defer closeProvider()
		adk.Debugf("provider=%s model=%s endpoint=%s timeout=%s",
			cfg.SelectedProvider, cfg.SelectedModel, cfg.Endpoint, cfg.Timeout())

		analyzer := triage.NewAnalyzer(catalog, provider,
			triage.WithModel(cfg.SelectedModel),
			triage.WithTimeout(cfg.Timeout()),
			triage.OnStart(func(index, total int, alertID string) {
				fmt.Fprintf(out, "\n[%d/%d] Analyzing alert %s\n", index, total, alertID)
				fmt.Fprintln(out, strings.Repeat("-", 60))
			}),
			triage.OnResult(func(index, total int, res triage.AnalysisResult) {
				if len(res.Techniques) > 0 {
					fmt.Fprintf(out, "Techniques: %s\n", strings.Join(res.Techniques, ", "))
				}
				fmt.Fprintf(out, "\nANALYSIS:\n%s\n\n%s\n", res.Response, rule)
			}),
		)

		fmt.Fprintf(out, "\nStarting analysis of %d alerts...\n", len(alerts))
		started := time.Now().UTC()
		results := analyzer.AnalyzeBatch(ctx, alerts)

		if err := triage.SaveResults(cfg.OutputFile, results); err != nil {
			fmt.Fprintf(out, "Error saving results: %v\n", err)
		} else {
			fmt.Fprintf(out, "Results saved to %s\n", cfg.OutputFile)
		}

		if cfg.HistoryDB != "" {
			archiveRun(out, cfg, &triage.Run{
				StartedAt:  started,
				FinishedAt: time.Now().UTC(),
				AlertsFile: cfg.AlertsFile,
				Model:      cfg.SelectedModel,
				Results:    results,
			})
		}

		printSummary(out, triage.Summarize(results, catalog), catalog)
	},
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("alerts") {
		cfg.AlertsFile, _ = flags.GetString("alerts")
	}
	if flags.Changed("output") {
		cfg.OutputFile, _ = flags.GetString("output")
	}
	if flags.Changed("provider") {
		p, _ := flags.GetString("provider")
		cfg.SelectedProvider = strings.ToLower(p)
	}
	if flags.Changed("model") {
		cfg.SelectedModel, _ = flags.GetString("model")
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds, _ = flags.GetInt("timeout")
	}
	if flags.Changed("history-db") {
		cfg.HistoryDB, _ = flags.GetString("history-db")
	}
}

func archiveRun(out io.Writer, cfg *config.Config, run *triage.Run) {
	store, err := triage.OpenHistory(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(out, "Error opening history: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.SaveRun(run); err != nil {
		fmt.Fprintf(out, "Error archiving run: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Run archived as %s\n", run.ID)
}

func printSummary(out io.Writer, s triage.Summary, catalog *mitre.Catalog) {
	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "STATISTICS")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Total alerts analyzed: %d\n", s.Total)
	for _, c := range s.BySeverity {
		fmt.Fprintf(out, "  - %s: %d\n", c.Label, c.Count)
	}
	if s.Failures > 0 {
		fmt.Fprintf(out, "Failed model calls: %d\n", s.Failures)
	}
	if len(s.ByTechnique) > 0 {
		fmt.Fprintln(out, "Techniques detected:")
		for _, c := range s.ByTechnique {
			name := ""
			if t, ok := catalog.Get(c.Label); ok {
				name = " " + t.Name
			}
			fmt.Fprintf(out, "  - %s%s: %d\n", c.Label, name, c.Count)
		}
	}
	fmt.Fprintln(out, rule)
}

func init() {
	analyzeCmd.Flags().StringP("alerts", "a", config.DefaultAlertsFile, "JSON file with the alerts to analyze")
	analyzeCmd.Flags().StringP("output", "o", config.DefaultOutputFile, "Where to write the JSON results")
	analyzeCmd.Flags().StringP("provider", "p", "", "Provider (ollama, gemini)")
	analyzeCmd.Flags().StringP("model", "m", "", "Model name")
	analyzeCmd.Flags().String("endpoint", "", "Ollama base URL")
	analyzeCmd.Flags().Int("timeout", config.DefaultTimeout, "Per-alert model timeout in seconds")
	analyzeCmd.Flags().String("history-db", "", "Archive the run in this history database")
	rootCmd.AddCommand(analyzeCmd)
}
