// Package config provides the unified options record that every adapter
// receives. Callers may set only the fields they care about; the dispatcher
// normalizes and validates the record centrally before any adapter runs, so
// adapters never re-implement defaulting or precedence rules.
package config

import (
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/table"
)

// DefaultConfLevel is the confidence level used when intervals are requested
// without an explicit level.
const DefaultConfLevel = 0.95

// Options is the single options record for all three summarization kinds.
// Fields that do not apply to a kind are ignored by it.
type Options struct {
	// ConfInt requests conf.low / conf.high columns (tidy only). When false,
	// ConfLevel is silently ignored.
	ConfInt bool `json:"conf_int" yaml:"conf_int"`

	// ConfLevel is the confidence level in (0, 1). Meaningful only when
	// ConfInt is set.
	ConfLevel float64 `json:"conf_level" yaml:"conf_level"`

	// Exponentiate requests exponentiated estimates and interval bounds
	// (tidy only).
	Exponentiate bool `json:"exponentiate" yaml:"exponentiate"`

	// Quick requests the reduced-column fast path returning only the
	// component identifier and point-estimate columns (tidy only). Quick
	// takes precedence over ConfInt.
	Quick bool `json:"quick" yaml:"quick"`

	// Data is the original fitting dataset (augment only). When nil the
	// adapter reconstructs an approximation from the model, best-effort.
	Data *table.Table `json:"-" yaml:"-"`

	// NewData is a new dataset to predict on (augment only). When both Data
	// and NewData are set, NewData strictly takes precedence and Data is
	// ignored.
	NewData *table.Table `json:"-" yaml:"-"`

	// Extra carries family-specific options the core does not interpret
	Extra map[string]interface{} `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// DefaultOptions returns an options record with every default applied
func DefaultOptions() *Options {
	return &Options{
		ConfLevel: DefaultConfLevel,
	}
}

// Normalize returns a validated copy with defaults applied and the
// data/newData precedence rule resolved. The receiver is not modified; a nil
// receiver normalizes to the defaults.
func (o *Options) Normalize() (*Options, error) {
	if o == nil {
		return DefaultOptions(), nil
	}

	norm := *o
	if norm.ConfLevel == 0 {
		norm.ConfLevel = DefaultConfLevel
	}

	// Quick wins over ConfInt: the reduced column set has no room for
	// interval columns, so the request is dropped rather than left for every
	// adapter to contradict.
	if norm.Quick {
		norm.ConfInt = false
	}

	if norm.ConfInt && (norm.ConfLevel <= 0 || norm.ConfLevel >= 1) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"confidence level %v outside (0, 1)", norm.ConfLevel)
	}

	// NewData wins; drop Data so adapters see exactly one dataset argument.
	if norm.NewData != nil {
		norm.Data = nil
	}

	return &norm, nil
}

// ExtraString returns a family-specific string option
func (o *Options) ExtraString(key string) (string, bool) {
	if o == nil || o.Extra == nil {
		return "", false
	}
	v, ok := o.Extra[key].(string)
	return v, ok
}

// ExtraBool returns a family-specific bool option
func (o *Options) ExtraBool(key string) (bool, bool) {
	if o == nil || o.Extra == nil {
		return false, false
	}
	v, ok := o.Extra[key].(bool)
	return v, ok
}
