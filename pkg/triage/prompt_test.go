package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/mitre"
)

func TestBuildPromptWithTechniques(t *testing.T) {
	catalog := mitre.DefaultCatalog()
	a := alert.New(map[string]interface{}{
		"id":          "ALT-7",
		"alert_type":  "login_failure",
		"severity":    "high",
		"source_ip":   "198.51.100.4",
		"description": "multiple failed login attempts <admin> & root",
	})
	techniques := NewClassifier(catalog).Classify(a)

	prompt := BuildPrompt(a, techniques)

	assert.True(t, strings.HasPrefix(prompt, "You are a SOC analyst"))
	assert.Contains(t, prompt, "- ID: ALT-7\n")
	assert.Contains(t, prompt, "- Type: login_failure\n")
	assert.Contains(t, prompt, "- Severity: high\n")
	assert.Contains(t, prompt, "- Source IP: 198.51.100.4\n")
	assert.Contains(t, prompt, `"description": "multiple failed login attempts <admin> & root"`)
	assert.Contains(t, prompt, "MITRE ATT&CK TECHNIQUES DETECTED:")
	assert.Contains(t, prompt, "Technique T1110 - Brute Force\n")
	assert.Contains(t, prompt, "   Tactic: Credential Access\n")
	assert.Contains(t, prompt, "   Severity: 9/10\n")
	assert.Contains(t, prompt, "      - Enable multi-factor authentication (MFA)\n")
	assert.NotContains(t, prompt, FallbackInstruction)
	assert.Contains(t, prompt, "1. The criticality level (Low/Medium/High/Critical)")
	assert.Contains(t, prompt, "4. One immediate recommended action")
}

func TestBuildPromptFallback(t *testing.T) {
	a := alert.New(map[string]interface{}{"description": ""})

	prompt := BuildPrompt(a, nil)

	assert.Contains(t, prompt, "- ID: Unknown\n")
	assert.Contains(t, prompt, "- Type: Unknown\n")
	assert.Contains(t, prompt, "- Severity: Unknown\n")
	assert.Contains(t, prompt, "- Source IP: Unknown\n")
	assert.Contains(t, prompt, "MITRE ATT&CK CONTEXT:\n"+FallbackInstruction)
	assert.NotContains(t, prompt, "TECHNIQUES DETECTED")
	assert.Contains(t, prompt, "TASK: Analyze this alert")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	a := alert.New(map[string]interface{}{"id": "x", "b": 2, "a": 1})
	assert.Equal(t, BuildPrompt(a, nil), BuildPrompt(a, nil))
	assert.Contains(t, BuildPrompt(a, nil), "{\n  \"a\": 1,\n  \"b\": 2,\n  \"id\": \"x\"\n}")
}

func TestBuildPromptListsEveryTechnique(t *testing.T) {
	catalog := mitre.DefaultCatalog()
	t1, _ := catalog.Get("T1041")
	t2, _ := catalog.Get("T1048")

	prompt := BuildPrompt(alert.Alert{}, []mitre.Technique{t1, t2})
	assert.Contains(t, prompt, "Technique T1041 - Exfiltration Over C2 Channel")
	assert.Contains(t, prompt, "Technique T1048 - Exfiltration Over Alternative Protocol")
	assert.Equal(t, 1, strings.Count(prompt, "MITRE ATT&CK TECHNIQUES DETECTED:"))
}
