// Package alert models the security alerts fed to the triage pipeline.
package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Unknown is the placeholder rendered for absent alert fields
const Unknown = "Unknown"

// Alert is a schema-free security event. The well-known fields are lifted out
// of the raw object; absent fields are empty strings. Fields keeps the whole
// decoded object, including the well-known keys.
type Alert struct {
	ID          string
	AlertType   string // "alert_type"
	Type        string // "type", used when alert_type is absent
	Severity    string
	SourceIP    string
	Description string
	Fields      map[string]interface{}

	hasAlertType bool
}

// New builds an alert from an already decoded JSON object
func New(fields map[string]interface{}) Alert {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	a := Alert{Fields: fields}
	a.ID, _ = stringField(fields, "id")
	a.AlertType, a.hasAlertType = stringField(fields, "alert_type")
	a.Type, _ = stringField(fields, "type")
	a.Severity, _ = stringField(fields, "severity")
	a.SourceIP, _ = stringField(fields, "source_ip")
	a.Description, _ = stringField(fields, "description")
	return a
}

// UnmarshalJSON decodes any JSON object into an Alert
func (a *Alert) UnmarshalJSON(data []byte) error {
	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	*a = New(fields)
	return nil
}

// MarshalJSON writes the original object back
func (a Alert) MarshalJSON() ([]byte, error) {
	if a.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.Fields)
}

// Kind returns alert_type when present, otherwise type. Empty when neither is set.
func (a Alert) Kind() string {
	if a.hasAlertType {
		return a.AlertType
	}
	return a.Type
}

// Or returns v, or Unknown when v is empty
func Or(v string) string {
	if v == "" {
		return Unknown
	}
	return v
}

// LoadFile reads a JSON array of alerts
func LoadFile(path string) ([]Alert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts file: %w", err)
	}
	var alerts []Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, fmt.Errorf("failed to parse alerts file %s: %w", path, err)
	}
	return alerts, nil
}

func stringField(fields map[string]interface{}, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", ok
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val), true
		}
		return string(b), true
	}
}
