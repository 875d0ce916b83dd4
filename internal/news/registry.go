package news

import (
	"fmt"
	"sort"
)

var builtins = map[string]func(Definition) Provider{
	"gnews":      func(d Definition) Provider { return NewGNews(d) },
	"newsapi":    func(d Definition) Provider { return NewNewsAPI(d) },
	"googlenews": func(d Definition) Provider { return NewGoogleNews(d) },
}

// Registry maps provider names to providers.
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

// NewRegistry returns a registry holding every provider of the embedded
// catalog that has a built-in implementation.
func NewRegistry() (*Registry, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}

	r := &Registry{
		providers:   make(map[string]Provider),
		defaultName: catalog.Default,
	}
	for name, def := range catalog.Providers {
		build, ok := builtins[name]
		if !ok {
			continue
		}
		r.Register(build(def))
	}
	return r, nil
}

// Register adds p, replacing any provider with the same name.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the named provider, or the default one when name is empty.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.defaultName
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", name, r.Names())
	}
	return p, nil
}

func (r *Registry) Default() string {
	return r.defaultName
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
