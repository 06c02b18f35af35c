package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/soc-triage/pkg/config"
	"github.com/user/soc-triage/pkg/triage"
)

// resetFlags restores every flag in the command tree to its default so
// consecutive Execute calls do not leak state into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func newOllamaStub(t *testing.T, fail bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "RISK LEVEL: HIGH",
			"done":     true,
		})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]string{{"name": "llama3.2:latest"}, {"name": "phi3:latest"}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeAlerts(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "alerts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "a1", "alert_type": "authentication", "severity": "high",
		 "description": "multiple failed login attempts"},
		{"id": "a2", "type": "heartbeat", "severity": "low", "description": "routine health check"}
	]`), 0o644))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	dir := t.TempDir()
	srv := newOllamaStub(t, false)
	alerts := writeAlerts(t, dir)
	output := filepath.Join(dir, "out", "results.json")
	historyDB := filepath.Join(dir, "history.db")

	out := run(t, "", "analyze",
		"--config", filepath.Join(dir, "config.yaml"),
		"--alerts", alerts,
		"--output", output,
		"--endpoint", srv.URL,
		"--history-db", historyDB)

	assert.Contains(t, out, "[1/2] Analyzing alert a1")
	assert.Contains(t, out, "Techniques: T1110")
	assert.Contains(t, out, "RISK LEVEL: HIGH")
	assert.Contains(t, out, "Total alerts analyzed: 2")
	assert.Contains(t, out, "Run archived as")

	results, err := triage.LoadResults(output)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"T1110"}, results[0].Techniques)
	assert.Equal(t, triage.StatusSuccess, results[1].Status)
	assert.Empty(t, results[1].Techniques)

	out = run(t, "", "history", "list", "--config", filepath.Join(dir, "config.yaml"), "--history-db", historyDB)
	assert.Contains(t, out, "2 alerts")
}

func TestAnalyzeCommandModelFailure(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	dir := t.TempDir()
	srv := newOllamaStub(t, true)
	output := filepath.Join(dir, "results.json")

	out := run(t, "", "analyze",
		"--config", filepath.Join(dir, "config.yaml"),
		"--alerts", writeAlerts(t, dir),
		"--output", output,
		"--endpoint", srv.URL)

	assert.Contains(t, out, "Model API error")
	assert.Contains(t, out, "Failed model calls: 2")

	results, err := triage.LoadResults(output)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Failed())
	}
}

func TestAnalyzeCommandMissingAlerts(t *testing.T) {
	dir := t.TempDir()
	out := run(t, "", "analyze",
		"--config", filepath.Join(dir, "config.yaml"),
		"--alerts", filepath.Join(dir, "nope.json"),
		"--output", filepath.Join(dir, "results.json"))

	assert.Contains(t, out, "failed to read alerts file")
	assert.Contains(t, out, "No alerts to analyze.")
	_, err := os.Stat(filepath.Join(dir, "results.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	out := run(t, "", "classify", "--config", filepath.Join(dir, "config.yaml"), "--alerts", writeAlerts(t, dir))
	assert.Contains(t, out, "[1/2] a1 (authentication)")
	assert.Contains(t, out, "T1110 Brute Force")
	assert.Contains(t, out, "no technique matched")
}

func TestCatalogCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out := run(t, "", "catalog", "stats", "--config", cfgPath)
	assert.Contains(t, out, "Techniques:          11")
	assert.Contains(t, out, "8.18/10")

	out = run(t, "", "catalog", "show", "t1059", "--config", cfgPath)
	assert.Contains(t, out, "T1059 - Command and Scripting Interpreter")

	out = run(t, "", "catalog", "show", "T9999", "--config", cfgPath)
	assert.Contains(t, out, "Technique T9999 not found")

	out = run(t, "", "catalog", "match", "exfiltration", "--config", cfgPath)
	assert.Contains(t, out, "T1041")
	assert.Contains(t, out, "T1048")

	out = run(t, "", "catalog", "search", "brute", "force", "--config", cfgPath)
	assert.Contains(t, out, "T1110")

	out = run(t, "", "catalog", "export", "--config", cfgPath)
	assert.Contains(t, out, "techniques:")
	assert.Contains(t, out, "id: T1046")
}

func TestConfigSetModelAndShow(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out := run(t, "", "config", "set-model", "--config", cfgPath, "--model", "phi3", "--timeout", "30")
	assert.Contains(t, out, "Model=phi3")

	cfg, err := config.LoadFrom(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.SelectedModel)
	assert.Equal(t, 30, cfg.TimeoutSeconds)

	out = run(t, "", "config", "show", "--config", cfgPath)
	assert.Contains(t, out, "Timeout:    30s")
	assert.Contains(t, out, "Catalog:    (built-in)")
}

func TestSetupWizardOllama(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	srv := newOllamaStub(t, false)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out := run(t, "1\n"+srv.URL+"\n2\n", "config", "setup", "--config", cfgPath)
	assert.Contains(t, out, "Successfully retrieved 2 models.")
	assert.Contains(t, out, "Setup Complete!")

	cfg, err := config.LoadFrom(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.SelectedProvider)
	assert.Equal(t, "phi3:latest", cfg.SelectedModel)
	assert.Equal(t, srv.URL, cfg.Endpoint)
}
