package mitre

import "strings"

// Matcher looks up techniques whose indicators contain a keyword.
//
// Matching is plain substring containment so that a single token such as
// "scan" hits multi-word indicators like "port scan". Short keywords can hit
// unrelated indicators; callers filter noise tokens before matching.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a matcher over the given catalog
func NewMatcher(c *Catalog) *Matcher {
	return &Matcher{catalog: c}
}

// MatchKeyword returns the ids of techniques having at least one indicator
// that contains keyword, case-insensitively. Ids follow catalog order.
func (m *Matcher) MatchKeyword(keyword string) []string {
	kw := strings.ToLower(keyword)
	var ids []string
	for _, id := range m.catalog.order {
		if containsIndicator(m.catalog.byID[id].Indicators, kw) {
			ids = append(ids, id)
		}
	}
	return ids
}

// MatchKeywords returns the union of MatchKeyword over all keywords,
// without duplicates. An empty keyword list yields no ids.
func (m *Matcher) MatchKeywords(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	hit := make(map[string]bool)
	for _, kw := range keywords {
		for _, id := range m.MatchKeyword(kw) {
			hit[id] = true
		}
	}

	ids := make([]string, 0, len(hit))
	for _, id := range m.catalog.order {
		if hit[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsIndicator(indicators []string, kw string) bool {
	for _, ind := range indicators {
		if strings.Contains(ind, kw) {
			return true
		}
	}
	return false
}
