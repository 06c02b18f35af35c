package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 120*time.Second, cfg.Timeout())
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.SelectedModel = "mistral"
	cfg.TimeoutSeconds = 30
	cfg.HistoryDB = "history.db"
	cfg.SetAPIKey("gemini", "secret")
	require.NoError(t, SaveTo(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, "secret", loaded.GetAPIKey("gemini"))
}

func TestLoadFillsDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_model: phi3\ntimeout_seconds: 0\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.SelectedProvider)
	assert.Equal(t, "phi3", cfg.SelectedModel)
	assert.Equal(t, DefaultTimeout, cfg.TimeoutSeconds)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.NotNil(t, cfg.Providers)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_model: [unclosed"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("GOOGLE_API_KEY", "from-env")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.Endpoint)
	assert.Equal(t, "from-env", cfg.GetAPIKey("gemini"))
	assert.Empty(t, cfg.GetAPIKey("ollama"))

	cfg.SetAPIKey("gemini", "stored")
	assert.Equal(t, "stored", cfg.GetAPIKey("gemini"))
}

func TestGetConfigPathOverride(t *testing.T) {
	t.Setenv("SOC_TRIAGE_CONFIG", "/tmp/custom.yaml")
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)

	t.Setenv("SOC_TRIAGE_CONFIG", "")
	t.Setenv("HOME", "/home/analyst")
	path, err = GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/analyst", ".soc-triage", "config.yaml"), path)
}
