package mitre

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML layout of a technique catalog
type catalogFile struct {
	Techniques []Technique `yaml:"techniques"`
}

// LoadCatalogFile reads a YAML catalog file and builds a catalog from it
func LoadCatalogFile(path string) (*Catalog, error) {
	techniques, err := readCatalogFile(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(techniques)
}

// LoadCatalogDir merges every .yaml/.yml file of dir, in file name order
func LoadCatalogDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var all []Technique
	for _, name := range names {
		techniques, err := readCatalogFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, techniques...)
	}
	return NewCatalog(all)
}

// Load resolves a catalog path: empty means the built-in catalog,
// a directory is merged, anything else is read as a single file.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadCatalogDir(path)
	}
	return LoadCatalogFile(path)
}

// MarshalYAML renders the catalog in the format read by LoadCatalogFile
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return catalogFile{Techniques: c.All()}, nil
}

func readCatalogFile(path string) ([]Technique, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return f.Techniques, nil
}
