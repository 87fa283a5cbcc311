// Package family provides the loader registry for serialized fitted models.
// Each model family registers a loader for its serialized form at load time;
// the CLI and tests decode model files through it without knowing any family
// concretely.
package family

import (
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/model"
)

// Loader decodes a family's serialized fitted-model payload
type Loader func(raw []byte) (model.Model, error)

var (
	mu      sync.RWMutex
	loaders = make(map[string]Loader)
)

// RegisterLoader registers or replaces the loader for a family name
func RegisterLoader(name string, loader Loader) {
	mu.Lock()
	defer mu.Unlock()
	loaders[name] = loader
}

// ListFamilies returns registered family names, sorted
func ListFamilies() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// envelope is the on-disk model file format
type envelope struct {
	Family string          `json:"family"`
	Model  json.RawMessage `json:"model"`
}

// Decode parses a model file: {"family": "linear", "model": {...}}
func Decode(data []byte) (model.Model, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed model file")
	}
	if env.Family == "" {
		return nil, errors.New(errors.ErrorTypeData, "model file does not name a family")
	}

	mu.RLock()
	loader, ok := loaders[env.Family]
	mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData, "unknown model family %q", env.Family)
	}

	return loader(env.Model)
}
