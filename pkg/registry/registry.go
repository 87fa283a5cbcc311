// Package registry maps a model's type tag to the adapter registered for
// each summarization kind. Model families register at load time, typically
// from init(); resolution is read-locked and walks the model's class
// hierarchy most-specific-first.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/prism-stats/prism/pkg/align"
	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/logger"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/table"
)

// GlanceFunc produces the one-row per-model view
type GlanceFunc func(m model.Model, opts *config.Options) (*table.Table, error)

// TidyFunc produces the per-component view
type TidyFunc func(m model.Model, opts *config.Options) (*table.Table, error)

// AugmentFunc produces the per-observation derivation; row alignment itself
// is the framework's job, not the adapter's.
type AugmentFunc func(m model.Model, opts *config.Options) (*align.Derivation, error)

// Registry manages adapter registration and resolution
type Registry struct {
	mu      sync.RWMutex
	glance  map[string]GlanceFunc
	tidy    map[string]TidyFunc
	augment map[string]AugmentFunc
	logger  *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	return &Registry{
		glance:  make(map[string]GlanceFunc),
		tidy:    make(map[string]TidyFunc),
		augment: make(map[string]AugmentFunc),
		logger:  logger.Get().With(zap.String("component", "adapter_registry")),
	}
}

// RegisterGlance registers or replaces the glance adapter for a type tag
func (r *Registry) RegisterGlance(typeTag string, fn GlanceFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.glance[typeTag]; exists {
		r.logger.Warn("replacing glance adapter", zap.String("type_tag", typeTag))
	}
	r.glance[typeTag] = fn
	r.logger.Debug("glance adapter registered", zap.String("type_tag", typeTag))
}

// RegisterTidy registers or replaces the tidy adapter for a type tag
func (r *Registry) RegisterTidy(typeTag string, fn TidyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tidy[typeTag]; exists {
		r.logger.Warn("replacing tidy adapter", zap.String("type_tag", typeTag))
	}
	r.tidy[typeTag] = fn
	r.logger.Debug("tidy adapter registered", zap.String("type_tag", typeTag))
}

// RegisterAugment registers or replaces the augment adapter for a type tag
func (r *Registry) RegisterAugment(typeTag string, fn AugmentFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.augment[typeTag]; exists {
		r.logger.Warn("replacing augment adapter", zap.String("type_tag", typeTag))
	}
	r.augment[typeTag] = fn
	r.logger.Debug("augment adapter registered", zap.String("type_tag", typeTag))
}

// noAdapter builds the miss error, naming the missing capability
func noAdapter(tags []string, kind convention.Kind) error {
	return errors.Newf(errors.ErrorTypeNoAdapter,
		"no %s adapter registered for type %q", kind, tags[0]).
		WithDetail("type_tags", tags).
		WithDetail("kind", string(kind))
}

// noTags rejects resolution against an empty tag list
func noTags(kind convention.Kind) error {
	return errors.Newf(errors.ErrorTypeInput, "no type tags to resolve a %s adapter against", kind).
		WithDetail("kind", string(kind))
}

// ResolveGlance finds the glance adapter for the most specific matching tag
func (r *Registry) ResolveGlance(tags []string) (GlanceFunc, error) {
	if len(tags) == 0 {
		return nil, noTags(convention.KindGlance)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tag := range tags {
		if fn, ok := r.glance[tag]; ok {
			return fn, nil
		}
	}
	return nil, noAdapter(tags, convention.KindGlance)
}

// ResolveTidy finds the tidy adapter for the most specific matching tag
func (r *Registry) ResolveTidy(tags []string) (TidyFunc, error) {
	if len(tags) == 0 {
		return nil, noTags(convention.KindTidy)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tag := range tags {
		if fn, ok := r.tidy[tag]; ok {
			return fn, nil
		}
	}
	return nil, noAdapter(tags, convention.KindTidy)
}

// ResolveAugment finds the augment adapter for the most specific matching tag
func (r *Registry) ResolveAugment(tags []string) (AugmentFunc, error) {
	if len(tags) == 0 {
		return nil, noTags(convention.KindAugment)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tag := range tags {
		if fn, ok := r.augment[tag]; ok {
			return fn, nil
		}
	}
	return nil, noAdapter(tags, convention.KindAugment)
}

// Kinds returns the summarization kinds registered for a type tag
func (r *Registry) Kinds(typeTag string) []convention.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var kinds []convention.Kind
	if _, ok := r.glance[typeTag]; ok {
		kinds = append(kinds, convention.KindGlance)
	}
	if _, ok := r.tidy[typeTag]; ok {
		kinds = append(kinds, convention.KindTidy)
	}
	if _, ok := r.augment[typeTag]; ok {
		kinds = append(kinds, convention.KindAugment)
	}
	return kinds
}

// ListTypeTags returns every type tag with at least one adapter, sorted
func (r *Registry) ListTypeTags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for tag := range r.glance {
		seen[tag] = struct{}{}
	}
	for tag := range r.tidy {
		seen[tag] = struct{}{}
	}
	for tag := range r.augment {
		seen[tag] = struct{}{}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Clear removes all registered adapters (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.glance = make(map[string]GlanceFunc)
	r.tidy = make(map[string]TidyFunc)
	r.augment = make(map[string]AugmentFunc)
}

// Global registry functions

// RegisterGlance registers a glance adapter in the global registry
func RegisterGlance(typeTag string, fn GlanceFunc) {
	globalRegistry.RegisterGlance(typeTag, fn)
}

// RegisterTidy registers a tidy adapter in the global registry
func RegisterTidy(typeTag string, fn TidyFunc) {
	globalRegistry.RegisterTidy(typeTag, fn)
}

// RegisterAugment registers an augment adapter in the global registry
func RegisterAugment(typeTag string, fn AugmentFunc) {
	globalRegistry.RegisterAugment(typeTag, fn)
}

// ResolveGlance resolves a glance adapter from the global registry
func ResolveGlance(tags []string) (GlanceFunc, error) {
	return globalRegistry.ResolveGlance(tags)
}

// ResolveTidy resolves a tidy adapter from the global registry
func ResolveTidy(tags []string) (TidyFunc, error) {
	return globalRegistry.ResolveTidy(tags)
}

// ResolveAugment resolves an augment adapter from the global registry
func ResolveAugment(tags []string) (AugmentFunc, error) {
	return globalRegistry.ResolveAugment(tags)
}

// Kinds returns the kinds registered for a type tag in the global registry
func Kinds(typeTag string) []convention.Kind {
	return globalRegistry.Kinds(typeTag)
}

// ListTypeTags lists type tags registered in the global registry
func ListTypeTags() []string {
	return globalRegistry.ListTypeTags()
}

// GetRegistry returns the global registry instance
func GetRegistry() *Registry {
	return globalRegistry
}
