package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/soc-triage/pkg/adk"
	"github.com/user/soc-triage/pkg/config"
	"github.com/user/soc-triage/pkg/mitre"
)

var rootCmd = &cobra.Command{
	Use:   "soc-triage",
	Short: "AI-assisted SOC alert triage",
	Long: `soc-triage matches security alerts against a MITRE ATT&CK technique
catalog and asks a language model (a local Ollama server by default) for a
risk assessment of each alert.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		adk.DebugEnabled = DebugMode
	},
}

var (
	DebugMode   bool
	ConfigPath  string
	CatalogPath string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "Config file (default ~/.soc-triage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&CatalogPath, "catalog", "", "Technique catalog YAML file or directory (default: built-in)")
}

func loadConfig() (*config.Config, error) {
	if ConfigPath != "" {
		return config.LoadFrom(ConfigPath)
	}
	return config.LoadConfig()
}

func saveConfig(cfg *config.Config) error {
	if ConfigPath != "" {
		return config.SaveTo(ConfigPath, cfg)
	}
	return config.SaveConfig(cfg)
}

// loadCatalog resolves the catalog from --catalog, then the config file
func loadCatalog(cfg *config.Config) (*mitre.Catalog, error) {
	path := CatalogPath
	if path == "" && cfg != nil {
		path = cfg.CatalogFile
	}
	c, err := mitre.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load technique catalog: %w", err)
	}
	if path != "" {
		adk.Debugf("loaded %d techniques from %s", c.Len(), path)
	}
	return c, nil
}

// newProvider builds the configured model provider. The returned func
// releases provider resources and is always safe to call.
func newProvider(ctx context.Context, cfg *config.Config) (adk.LLMProvider, func(), error) {
	p, err := adk.NewProvider(ctx, cfg.SelectedProvider, adk.ProviderOptions{
		APIKey:   cfg.GetAPIKey(cfg.SelectedProvider),
		Model:    cfg.SelectedModel,
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout(),
	})
	if err != nil {
		return nil, func() {}, err
	}
	if closer, ok := p.(interface{ Close() }); ok {
		return p, closer.Close, nil
	}
	return p, func() {}, nil
}
