package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (provider, model, endpoint, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set API key for a provider",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")

		if provider == "" || key == "" {
			fmt.Fprintln(out, "Error: --provider and --key are required")
			return
		}

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return
		}

		cfg.SetAPIKey(strings.ToLower(provider), key)
		if err := saveConfig(cfg); err != nil {
			fmt.Fprintf(out, "Error saving config: %v\n", err)
			return
		}
		fmt.Fprintf(out, "API key saved for provider: %s\n", provider)
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Manually set the active provider, model, endpoint and timeout",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		flags := cmd.Flags()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return
		}

		if provider, _ := flags.GetString("provider"); provider != "" {
			cfg.SelectedProvider = strings.ToLower(provider)
		}
		if model, _ := flags.GetString("model"); model != "" {
			cfg.SelectedModel = model
		}
		if endpoint, _ := flags.GetString("endpoint"); endpoint != "" {
			cfg.Endpoint = endpoint
		}
		if flags.Changed("timeout") {
			timeout, _ := flags.GetInt("timeout")
			if timeout <= 0 {
				fmt.Fprintln(out, "Error: --timeout must be positive")
				return
			}
			cfg.TimeoutSeconds = timeout
		}

		if err := saveConfig(cfg); err != nil {
			fmt.Fprintf(out, "Error saving config: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return
		}

		catalog := cfg.CatalogFile
		if catalog == "" {
			catalog = "(built-in)"
		}
		history := cfg.HistoryDB
		if history == "" {
			history = "(disabled)"
		}
		fmt.Fprintf(out, "Provider:   %s\n", cfg.SelectedProvider)
		fmt.Fprintf(out, "Model:      %s\n", cfg.SelectedModel)
		fmt.Fprintf(out, "Endpoint:   %s\n", cfg.Endpoint)
		fmt.Fprintf(out, "Timeout:    %s\n", cfg.Timeout())
		fmt.Fprintf(out, "Alerts:     %s\n", cfg.AlertsFile)
		fmt.Fprintf(out, "Output:     %s\n", cfg.OutputFile)
		fmt.Fprintf(out, "Catalog:    %s\n", catalog)
		fmt.Fprintf(out, "History DB: %s\n", history)
		for name := range cfg.Providers {
			if cfg.GetAPIKey(name) != "" {
				fmt.Fprintf(out, "API key:    %s (set)\n", name)
			}
		}
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, "Error loading config:", err)
			return
		}

		fmt.Fprintf(out, "Fetching models for %s...\n", cfg.SelectedProvider)
		ctx := cmd.Context()
		p, closeProvider, err := newProvider(ctx, cfg)
		if err != nil {
			fmt.Fprintln(out, "Error initializing provider:", err)
			return
		}
		defer closeProvider()

		models, err := p.ListModels(ctx)
		if err != nil {
			fmt.Fprintln(out, "Error fetching models:", err)
			return
		}

		fmt.Fprintf(out, "\nAvailable Models (%s):\n", cfg.SelectedProvider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel || strings.TrimSuffix(m, ":latest") == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
	},
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "gemini", "Provider the key belongs to")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider (ollama, gemini)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")
	setModelCmd.Flags().String("endpoint", "", "Ollama base URL")
	setModelCmd.Flags().Int("timeout", 0, "Per-alert model timeout in seconds")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
