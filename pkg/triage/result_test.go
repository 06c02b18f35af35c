package triage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []AnalysisResult {
	return []AnalysisResult{
		{
			AlertID:    "a1",
			AlertType:  "login_failure",
			Severity:   "high",
			Techniques: []string{"T1110"},
			Response:   "Criticality: High <brute force> & lockout",
			Status:     StatusSuccess,
			AnalyzedAt: time.Date(2026, 10, 17, 12, 0, 0, 123000000, time.UTC),
		},
		{
			AlertID:    "alert_2",
			AlertType:  "Unknown",
			Severity:   "Unknown",
			Techniques: []string{},
			Response:   "Model API error: connection refused",
			Status:     StatusFailure,
			Error:      "connection refused",
			AnalyzedAt: time.Date(2026, 10, 17, 12, 0, 5, 0, time.UTC),
		},
	}
}

func TestSaveLoadResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "analysis_results.json")
	results := sampleResults()

	require.NoError(t, SaveResults(path, results))

	loaded, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, results, loaded)
}

func TestSavedResultsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveResults(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "2026-10-17T12:00:00.123Z", raw[0]["analyzed_at"])
	assert.Equal(t, []interface{}{"T1110"}, raw[0]["mitre_techniques_detected"])
	assert.NotContains(t, raw[0], "error")
	assert.Equal(t, "failure", raw[1]["status"])
	assert.Equal(t, []interface{}{}, raw[1]["mitre_techniques_detected"])

	assert.Contains(t, string(data), "<brute force> & lockout")
	assert.Contains(t, string(data), "\n  {\n    \"alert_id\": \"a1\"")
}

func TestSaveResultsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveResults(path, sampleResults()))
	require.NoError(t, SaveResults(path, nil))

	loaded, err := LoadResults(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveResultsUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := SaveResults(filepath.Join(blocker, "out.json"), sampleResults())
	assert.Error(t, err)
}

func TestLoadResultsErrors(t *testing.T) {
	_, err := LoadResults(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadResults(bad)
	assert.Error(t, err)
}
