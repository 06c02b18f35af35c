package triage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/user/soc-triage/pkg/adk"
	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/mitre"
)

// FallbackInstruction replaces the technique section when nothing matched
const FallbackInstruction = "Use the MITRE ATT&CK framework to classify this attack."

//go:embed prompts/triage_prompt.tmpl
var triagePrompt string

var promptTemplate = template.Must(template.New("triage").Parse(triagePrompt))

type promptData struct {
	ID         string
	Type       string
	Severity   string
	SourceIP   string
	Content    string
	Techniques []mitre.Technique
	Fallback   string
}

// BuildPrompt renders the analyst prompt for one alert and its matched techniques
func BuildPrompt(a alert.Alert, techniques []mitre.Technique) string {
	data := promptData{
		ID:         alert.Or(a.ID),
		Type:       alert.Or(a.Kind()),
		Severity:   alert.Or(a.Severity),
		SourceIP:   alert.Or(a.SourceIP),
		Content:    alertContent(a),
		Techniques: techniques,
		Fallback:   FallbackInstruction,
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		// only reachable if the embedded template is broken
		adk.Errorf("failed to render prompt for alert %s: %v", data.ID, err)
	}
	return buf.String()
}

// alertContent pretty-prints the whole alert object without HTML escaping
func alertContent(a alert.Alert) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	fields := a.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	if err := enc.Encode(fields); err != nil {
		return fmt.Sprintf("%v", a.Fields)
	}
	return strings.TrimRight(buf.String(), "\n")
}
