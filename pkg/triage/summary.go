package triage

import (
	"sort"

	"github.com/user/soc-triage/pkg/mitre"
)

// Count is a label with its number of occurrences
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary aggregates a batch of results
type Summary struct {
	Total       int     `json:"total"`
	Failures    int     `json:"failures"`
	BySeverity  []Count `json:"by_severity"`  // first-seen order
	ByTechnique []Count `json:"by_technique"` // most frequent first
	ByTactic    []Count `json:"by_tactic"`    // most frequent first
}

// Summarize counts results per severity, technique and tactic.
// Technique ids missing from the catalog are counted but have no tactic.
func Summarize(results []AnalysisResult, catalog *mitre.Catalog) Summary {
	s := Summary{Total: len(results)}

	severity := newCounter()
	technique := newCounter()
	tactic := newCounter()

	for _, r := range results {
		if r.Failed() {
			s.Failures++
		}
		severity.add(r.Severity)
		for _, id := range r.Techniques {
			technique.add(id)
			if catalog == nil {
				continue
			}
			if t, ok := catalog.Get(id); ok {
				tactic.add(t.Tactic)
			}
		}
	}

	s.BySeverity = severity.counts
	s.ByTechnique = technique.byFrequency()
	s.ByTactic = tactic.byFrequency()
	return s
}

type counter struct {
	index  map[string]int
	counts []Count
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.counts[i].Count++
		return
	}
	c.index[label] = len(c.counts)
	c.counts = append(c.counts, Count{Label: label, Count: 1})
}

func (c *counter) byFrequency() []Count {
	out := append([]Count(nil), c.counts...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
