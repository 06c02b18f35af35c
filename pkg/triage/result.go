package triage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status tags the outcome of the model call for one alert
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// AnalysisResult is the triage outcome for a single alert
type AnalysisResult struct {
	AlertID    string    `json:"alert_id"`
	AlertType  string    `json:"alert_type"`
	Severity   string    `json:"severity"`
	Techniques []string  `json:"mitre_techniques_detected"`
	Response   string    `json:"response"` // model text, or the failure description
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Failed reports whether the model call failed for this alert
func (r AnalysisResult) Failed() bool {
	return r.Status == StatusFailure
}

// SaveResults writes results as an indented JSON array, replacing any existing file
func SaveResults(path string, results []AnalysisResult) error {
	if results == nil {
		results = []AnalysisResult{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// LoadResults reads a file written by SaveResults
func LoadResults(path string) ([]AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []AnalysisResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return results, nil
}
