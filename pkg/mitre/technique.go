// Package mitre holds the MITRE ATT&CK technique catalog and the indicator
// matcher used to map free-text alert fields onto catalog techniques.
package mitre

// Technique is a single catalog entry describing an attacker behavior
type Technique struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Tactic          string   `yaml:"tactic" json:"tactic"`
	Description     string   `yaml:"description" json:"description"`
	Severity        int      `yaml:"severity" json:"severity"` // 1-10
	SubTechniques   []string `yaml:"sub_techniques" json:"sub_techniques"`
	Indicators      []string `yaml:"indicators" json:"indicators"` // lowercase keywords / phrases
	Recommendations []string `yaml:"recommendations" json:"recommendations"`
}

func (t Technique) clone() Technique {
	t.SubTechniques = append([]string(nil), t.SubTechniques...)
	t.Indicators = append([]string(nil), t.Indicators...)
	t.Recommendations = append([]string(nil), t.Recommendations...)
	return t
}
