package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/soc-triage/pkg/mitre"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the MITRE ATT&CK technique catalog",
}

// withCatalog wraps a catalog subcommand body with config + catalog loading
func withCatalog(fn func(cmd *cobra.Command, args []string, c *mitre.Catalog)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error loading config: %v\n", err)
			return
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
			return
		}
		fn(cmd, args, c)
	}
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		out := cmd.OutOrStdout()
		s := c.Stats()
		fmt.Fprintf(out, "Techniques:          %d\n", s.Total)
		fmt.Fprintf(out, "Unique tactics:      %d (%s)\n", s.UniqueTactics, strings.Join(s.Tactics, ", "))
		fmt.Fprintf(out, "Average severity:    %.2f/10\n", s.AverageSeverity)
		fmt.Fprintf(out, "High severity (>=%d): %d\n", mitre.HighSeverityThreshold, s.HighSeverityCount)
	}),
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <technique-id>",
	Short: "Show a technique",
	Args:  cobra.ExactArgs(1),
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		out := cmd.OutOrStdout()
		t, ok := c.Get(strings.ToUpper(args[0]))
		if !ok {
			fmt.Fprintf(out, "Technique %s not found\n", args[0])
			return
		}
		fmt.Fprintf(out, "%s - %s\n", t.ID, t.Name)
		fmt.Fprintf(out, "Tactic:      %s\n", t.Tactic)
		fmt.Fprintf(out, "Severity:    %d/10\n", t.Severity)
		fmt.Fprintf(out, "Description: %s\n", t.Description)
		if len(t.SubTechniques) > 0 {
			fmt.Fprintf(out, "Sub-techniques: %s\n", strings.Join(t.SubTechniques, ", "))
		}
		fmt.Fprintf(out, "Indicators:  %s\n", strings.Join(t.Indicators, ", "))
		fmt.Fprintln(out, "Recommendations:")
		for _, r := range t.Recommendations {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}),
}

var catalogTacticCmd = &cobra.Command{
	Use:   "tactic <name>",
	Short: "List techniques of a tactic",
	Args:  cobra.MinimumNArgs(1),
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		printIDs(cmd, c, c.ByTactic(strings.Join(args, " ")))
	}),
}

var catalogSeverityCmd = &cobra.Command{
	Use:   "severity <threshold>",
	Short: "List techniques at or above a severity",
	Args:  cobra.ExactArgs(1),
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		threshold, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Invalid threshold %q: %v\n", args[0], err)
			return
		}
		printIDs(cmd, c, c.AboveSeverity(threshold))
	}),
}

var catalogMatchCmd = &cobra.Command{
	Use:   "match <keyword>...",
	Short: "List techniques whose indicators contain any keyword",
	Args:  cobra.MinimumNArgs(1),
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		printIDs(cmd, c, mitre.NewMatcher(c).MatchKeywords(args))
	}),
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over technique names, descriptions and recommendations",
	Args:  cobra.MinimumNArgs(1),
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		out := cmd.OutOrStdout()
		idx, err := mitre.NewSearchIndex(c)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		defer idx.Close()

		size, _ := cmd.Flags().GetInt("limit")
		hits, err := idx.Search(strings.Join(args, " "), size)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		if len(hits) == 0 {
			fmt.Fprintln(out, "No techniques found.")
			return
		}
		for _, h := range hits {
			fmt.Fprintf(out, "%.3f  %s %s [%s]\n", h.Score, h.ID, h.Name, h.Tactic)
		}
	}),
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the catalog as YAML (loadable with --catalog)",
	Run: withCatalog(func(cmd *cobra.Command, args []string, c *mitre.Catalog) {
		data, err := yaml.Marshal(c)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
			return
		}
		cmd.OutOrStdout().Write(data)
	}),
}

func printIDs(cmd *cobra.Command, c *mitre.Catalog, ids []string) {
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No techniques found.")
		return
	}
	for _, id := range ids {
		t, _ := c.Get(id)
		fmt.Fprintf(out, "%s %s [%s] %d/10\n", t.ID, t.Name, t.Tactic, t.Severity)
	}
}

func init() {
	catalogSearchCmd.Flags().IntP("limit", "n", 10, "Maximum number of results")

	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogTacticCmd)
	catalogCmd.AddCommand(catalogSeverityCmd)
	catalogCmd.AddCommand(catalogMatchCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
