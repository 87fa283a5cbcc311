// Package model defines the minimal surface a fitted model exposes to the
// framework. Models are opaque values supplied by the caller; the framework
// never mutates them and never inspects them beyond these interfaces.
package model

import "github.com/prism-stats/prism/pkg/table"

// Model is any fitted-model value the framework can dispatch on. The type
// tag is the model's concrete kind, used as the registry key.
type Model interface {
	TypeTag() string
}

// Classer is implemented by models whose type belongs to a capability
// hierarchy. Classes returns every tag the model answers to, most specific
// first; adapter resolution walks the list and takes the first match.
type Classer interface {
	Classes() []string
}

// DataReconstructor is implemented by models that can rebuild an
// approximation of their original fitting data. Reconstruction is
// best-effort: columns unused by the model are typically unrecoverable and
// simply absent, which is not an error.
type DataReconstructor interface {
	ReconstructData() (*table.Table, error)
}

// TagsOf returns the dispatch tags of a model, most specific first
func TagsOf(m Model) []string {
	if c, ok := m.(Classer); ok {
		if tags := c.Classes(); len(tags) > 0 {
			return tags
		}
	}
	return []string{m.TypeTag()}
}
