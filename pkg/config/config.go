package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultProvider   = "ollama"
	DefaultModel      = "llama3.2"
	DefaultEndpoint   = "http://localhost:11434"
	DefaultTimeout    = 120
	DefaultAlertsFile = "data/sample_alerts.json"
	DefaultOutputFile = "logs/analysis_results.json"
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Endpoint         string                    `yaml:"endpoint"`
	TimeoutSeconds   int                       `yaml:"timeout_seconds"`
	AlertsFile       string                    `yaml:"alerts_file"`
	OutputFile       string                    `yaml:"output_file"`
	CatalogFile      string                    `yaml:"catalog_file,omitempty"` // file or directory, empty = built-in
	HistoryDB        string                    `yaml:"history_db,omitempty"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		SelectedProvider: DefaultProvider,
		SelectedModel:    DefaultModel,
		Endpoint:         DefaultEndpoint,
		TimeoutSeconds:   DefaultTimeout,
		AlertsFile:       DefaultAlertsFile,
		OutputFile:       DefaultOutputFile,
		Providers:        make(map[string]ProviderConfig),
	}
}

// GetConfigPath returns the config file location, honoring SOC_TRIAGE_CONFIG
func GetConfigPath() (string, error) {
	if p := os.Getenv("SOC_TRIAGE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".soc-triage", "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	cfg.fillDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

// GetAPIKey returns the stored key, falling back to GOOGLE_API_KEY for gemini
func (c *Config) GetAPIKey(provider string) string {
	key := c.Providers[provider].APIKey
	if key == "" && provider == "gemini" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	return key
}

// Timeout returns the per-call model timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) fillDefaults() {
	if c.SelectedProvider == "" {
		c.SelectedProvider = DefaultProvider
	}
	if c.SelectedModel == "" && c.SelectedProvider == DefaultProvider {
		c.SelectedModel = DefaultModel
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeout
	}
	if c.AlertsFile == "" {
		c.AlertsFile = DefaultAlertsFile
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
}

// applyEnv lets OLLAMA_HOST override an endpoint left at its default
func (c *Config) applyEnv() {
	if host := os.Getenv("OLLAMA_HOST"); host != "" && (c.Endpoint == "" || c.Endpoint == DefaultEndpoint) {
		c.Endpoint = host
	}
}
