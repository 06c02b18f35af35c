package mitre

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// HighSeverityThreshold is the severity from which a technique counts as high severity
const HighSeverityThreshold = 8

// Catalog is a read-only set of techniques keyed by ID.
// It is built once and is safe to share between goroutines.
type Catalog struct {
	order []string
	byID  map[string]Technique
}

// Stats summarizes the catalog content
type Stats struct {
	Total             int      `json:"total_techniques"`
	UniqueTactics     int      `json:"unique_tactics"`
	Tactics           []string `json:"tactics_list"`
	AverageSeverity   float64  `json:"average_severity"`
	HighSeverityCount int      `json:"high_severity_count"`
}

// NewCatalog validates the techniques and builds a catalog preserving their order
func NewCatalog(techniques []Technique) (*Catalog, error) {
	c := &Catalog{
		order: make([]string, 0, len(techniques)),
		byID:  make(map[string]Technique, len(techniques)),
	}
	for _, t := range techniques {
		if t.ID == "" {
			return nil, fmt.Errorf("technique %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate technique id: %s", t.ID)
		}
		if t.Severity < 1 || t.Severity > 10 {
			return nil, fmt.Errorf("technique %s: severity %d out of range [1,10]", t.ID, t.Severity)
		}
		t = t.clone()
		for i, ind := range t.Indicators {
			t.Indicators[i] = strings.ToLower(ind)
		}
		c.order = append(c.order, t.ID)
		c.byID[t.ID] = t
	}
	return c, nil
}

// Len returns the number of techniques
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns the technique with the given id. Unknown ids report false.
func (c *Catalog) Get(id string) (Technique, bool) {
	t, ok := c.byID[id]
	if !ok {
		return Technique{}, false
	}
	return t.clone(), true
}

// All returns every technique in catalog order
func (c *Catalog) All() []Technique {
	out := make([]Technique, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].clone())
	}
	return out
}

// ByTactic returns the ids of techniques whose tactic equals the given label, ignoring case
func (c *Catalog) ByTactic(tactic string) []string {
	var ids []string
	for _, id := range c.order {
		if strings.EqualFold(c.byID[id].Tactic, tactic) {
			ids = append(ids, id)
		}
	}
	return ids
}

// AboveSeverity returns the ids of techniques with severity >= threshold
func (c *Catalog) AboveSeverity(threshold int) []string {
	var ids []string
	for _, id := range c.order {
		if c.byID[id].Severity >= threshold {
			ids = append(ids, id)
		}
	}
	return ids
}

// Stats computes catalog statistics on each call
func (c *Catalog) Stats() Stats {
	tactics := make(map[string]struct{})
	sum := 0
	for _, id := range c.order {
		t := c.byID[id]
		tactics[t.Tactic] = struct{}{}
		sum += t.Severity
	}

	list := make([]string, 0, len(tactics))
	for tactic := range tactics {
		list = append(list, tactic)
	}
	sort.Strings(list)

	var avg float64
	if len(c.order) > 0 {
		avg = math.Round(float64(sum)/float64(len(c.order))*100) / 100
	}

	return Stats{
		Total:             len(c.order),
		UniqueTactics:     len(list),
		Tactics:           list,
		AverageSeverity:   avg,
		HighSeverityCount: len(c.AboveSeverity(HighSeverityThreshold)),
	}
}
