package mitre

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// SearchHit is a ranked full-text search result
type SearchHit struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Tactic string  `json:"tactic"`
	Score  float64 `json:"score"`
}

// searchDocument is what gets stored in the bleve index for one technique
type searchDocument struct {
	Name            string `json:"name"`
	Tactic          string `json:"tactic"`
	Description     string `json:"description"`
	Indicators      string `json:"indicators"`
	Recommendations string `json:"recommendations"`
	Type            string `json:"type"`
}

// SearchIndex is an in-memory full-text index over a catalog. It ranks
// techniques for analysts browsing the catalog and plays no part in alert
// classification.
type SearchIndex struct {
	catalog *Catalog
	index   bleve.Index
}

// NewSearchIndex indexes every technique of the catalog
func NewSearchIndex(c *Catalog) (*SearchIndex, error) {
	textField := bleve.NewTextFieldMapping()
	keywordField := bleve.NewKeywordFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", textField)
	docMapping.AddFieldMappingsAt("tactic", textField, keywordField)
	docMapping.AddFieldMappingsAt("description", textField)
	docMapping.AddFieldMappingsAt("indicators", textField)
	docMapping.AddFieldMappingsAt("recommendations", textField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("technique", docMapping)
	indexMapping.TypeField = "type"

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	batch := index.NewBatch()
	for _, t := range c.All() {
		doc := searchDocument{
			Name:            t.Name,
			Tactic:          t.Tactic,
			Description:     t.Description,
			Indicators:      strings.Join(t.Indicators, "\n"),
			Recommendations: strings.Join(t.Recommendations, "\n"),
			Type:            "technique",
		}
		if err := batch.Index(t.ID, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index %s: %w", t.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index catalog: %w", err)
	}

	return &SearchIndex{catalog: c, index: index}, nil
}

// Search runs a match query and returns at most size hits, best first
func (s *SearchIndex) Search(query string, size int) ([]SearchHit, error) {
	if size <= 0 {
		size = 10
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = size

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		t, ok := s.catalog.Get(h.ID)
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{ID: t.ID, Name: t.Name, Tactic: t.Tactic, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
