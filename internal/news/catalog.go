package news

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

//go:embed providers.toml
var providersTOML []byte

// Definition describes one upstream API.
type Definition struct {
	Title         string   `toml:"title"`
	BaseURL       string   `toml:"base_url"`
	HeadlinesPath string   `toml:"headlines_path"`
	SearchPath    string   `toml:"search_path"`
	KeyParam      string   `toml:"key_param"`
	RequiresKey   bool     `toml:"requires_key"`
	Categories    []string `toml:"categories"`
}

type Catalog struct {
	Default   string                `toml:"default"`
	Providers map[string]Definition `toml:"providers"`
}

// LoadCatalog parses the embedded provider definitions.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(providersTOML)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing provider catalog: %w", err)
	}
	if _, ok := c.Providers[c.Default]; !ok {
		return nil, fmt.Errorf("default provider %q not in catalog", c.Default)
	}
	for name, def := range c.Providers {
		if def.BaseURL == "" {
			return nil, fmt.Errorf("provider %q: base_url is required", name)
		}
		if len(def.Categories) == 0 {
			return nil, fmt.Errorf("provider %q: categories are required", name)
		}
	}
	return &c, nil
}
