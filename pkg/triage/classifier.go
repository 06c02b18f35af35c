// Package triage classifies alerts against the technique catalog, builds the
// analyst prompt and drives the model over a batch of alerts.
package triage

import (
	"strings"
	"unicode/utf8"

	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/mitre"
)

// minKeywordLen is the length a token must exceed to be used as a keyword
const minKeywordLen = 3

// Classifier maps an alert's free text onto catalog techniques
type Classifier struct {
	catalog *mitre.Catalog
	matcher *mitre.Matcher
}

// NewClassifier creates a classifier over the given catalog
func NewClassifier(c *mitre.Catalog) *Classifier {
	return &Classifier{catalog: c, matcher: mitre.NewMatcher(c)}
}

// Keywords returns the lowercase tokens of description and type that are
// long enough to be matched. Tokens may repeat.
func Keywords(a alert.Alert) []string {
	text := strings.ToLower(a.Description + " " + a.Kind())
	var keywords []string
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) > minKeywordLen {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// Classify returns the techniques whose indicators match the alert, in catalog order.
// Alerts without description or type classify to nothing.
func (c *Classifier) Classify(a alert.Alert) []mitre.Technique {
	ids := c.matcher.MatchKeywords(Keywords(a))
	techniques := make([]mitre.Technique, 0, len(ids))
	for _, id := range ids {
		t, ok := c.catalog.Get(id)
		if !ok {
			continue
		}
		techniques = append(techniques, t)
	}
	return techniques
}
