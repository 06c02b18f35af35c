package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/soc-triage/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())
		ask := func(prompt string) string {
			fmt.Fprint(out, prompt)
			scanner.Scan()
			return strings.TrimSpace(scanner.Text())
		}

		fmt.Fprintln(out, "Welcome to the SOC Triage Setup Wizard")
		fmt.Fprintln(out, "--------------------------------------")

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return
		}

		// 1. Select Provider
		fmt.Fprintln(out, "Step 1: Choose your AI Provider")
		fmt.Fprintln(out, "1. Ollama (local, default)")
		fmt.Fprintln(out, "2. Gemini (Google)")
		switch strings.ToLower(ask("Enter number or name > ")) {
		case "", "1", "ollama":
			cfg.SelectedProvider = "ollama"
		case "2", "gemini":
			cfg.SelectedProvider = "gemini"
		default:
			fmt.Fprintln(out, "Invalid choice. Aborting.")
			return
		}

		// 2. Endpoint or API key
		if cfg.SelectedProvider == "ollama" {
			fmt.Fprintf(out, "\nStep 2: Ollama endpoint [%s]\n", cfg.Endpoint)
			if endpoint := ask("> "); endpoint != "" {
				cfg.Endpoint = endpoint
			}
		} else {
			fmt.Fprintln(out, "\nStep 2: Enter API Key for gemini")
			apiKey := ask("> ")
			if apiKey == "" && cfg.GetAPIKey("gemini") == "" {
				fmt.Fprintln(out, "API Key cannot be empty.")
				return
			}
			if apiKey != "" {
				cfg.SetAPIKey("gemini", apiKey)
			}
		}

		// 3. Fetch Models
		fmt.Fprintln(out, "\nStep 3: Checking the provider and fetching available models...")
		ctx := cmd.Context()
		cfg.SelectedModel = ""
		var models []string
		p, closeProvider, err := newProvider(ctx, cfg)
		if err == nil {
			models, err = p.ListModels(ctx)
			closeProvider()
		}

		if err != nil || len(models) == 0 {
			if err != nil {
				fmt.Fprintf(out, "Warning: Could not fetch models: %v\n", err)
			}
			fallback := config.DefaultModel
			if cfg.SelectedProvider == "gemini" {
				fallback = "gemini-pro"
			}
			cfg.SelectedModel = ask(fmt.Sprintf("Enter model name [%s] > ", fallback))
			if cfg.SelectedModel == "" {
				cfg.SelectedModel = fallback
			}
		} else {
			fmt.Fprintf(out, "Successfully retrieved %d models.\n", len(models))
			for i, m := range models {
				fmt.Fprintf(out, "%d. %s\n", i+1, m)
			}
			selIdx, err := strconv.Atoi(ask("Select Model (number) > "))
			if err != nil || selIdx < 1 || selIdx > len(models) {
				fmt.Fprintln(out, "Invalid selection. Using first available model.")
				selIdx = 1
			}
			cfg.SelectedModel = models[selIdx-1]
		}

		// 4. Save Configuration
		fmt.Fprintln(out, "\nStep 4: Saving Configuration...")
		if err := saveConfig(cfg); err != nil {
			fmt.Fprintf(out, "Error saving config: %v\n", err)
			return
		}

		fmt.Fprintln(out, "--------------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Provider: %s\n", cfg.SelectedProvider)
		fmt.Fprintf(out, "Model:    %s\n", cfg.SelectedModel)
		fmt.Fprintln(out, "You can now run 'soc-triage analyze'")
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
