package feeds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category binds one output topic to its feed list and extended keyword set.
type Category struct {
	Name     string   `yaml:"name"`
	Feeds    []string `yaml:"feeds"`
	Keywords []string `yaml:"keywords"`
}

// Catalog is the full immutable feed configuration, constructed once at
// startup and passed into the pipeline. No ambient globals.
type Catalog struct {
	CoreKeywords []string          `yaml:"core_keywords"`
	ProperNouns  []string          `yaml:"proper_nouns"`
	Publishers   map[string]string `yaml:"publishers"`
	Categories   []Category        `yaml:"categories"`
}

// LoadCatalog reads and validates the catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var c Catalog
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &c, nil
}

// Validate rejects empty or partially filled catalogs before the first run.
func (c *Catalog) Validate() error {
	if len(c.CoreKeywords) == 0 {
		return fmt.Errorf("core_keywords must not be empty")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	seen := map[string]string{}
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if len(cat.Feeds) == 0 {
			return fmt.Errorf("category %q has no feeds", cat.Name)
		}
		for _, feed := range cat.Feeds {
			if feed == "" {
				return fmt.Errorf("category %q contains an empty feed URL", cat.Name)
			}
			if prev, dup := seen[feed]; dup {
				return fmt.Errorf("feed %s listed in both %q and %q", feed, prev, cat.Name)
			}
			seen[feed] = cat.Name
		}
	}
	return nil
}
