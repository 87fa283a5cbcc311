// Package prism provides a polymorphic model-summarization framework. Given
// an opaque fitted-model value produced by any registered model family, it
// returns one of three standardized tabular views of that model:
//
//   - Glance: exactly one row of model-level statistics
//   - Tidy: one row per model component (coefficient, cluster, ...)
//   - Augment: one row per observation, the input data plus derived columns
//
// All three views share a single column-naming, row-count and missing-data
// convention, so downstream tooling can treat the output of any model type
// uniformly.
//
// # Architecture
//
// The framework is a pure, synchronous data-transformation layer built from
// four core pieces:
//
// 1. Registry (pkg/registry): maps a model's type tag to the adapter
// registered for each summarization kind. Model families self-register at
// load time via init(), before any summarize call runs.
//
// 2. Dispatcher (pkg/summary): the generic entry point for each kind. It
// normalizes the options record, resolves the adapter, invokes it, and
// validates the returned table against the shape and naming conventions
// before handing it back to the caller.
//
// 3. RowAligner (pkg/align): merges per-observation derived vectors back
// into the input dataset by explicit row index, filling rows excluded from
// fitting with missing markers instead of dropping them.
//
// 4. ColumnConventions (pkg/convention): the static vocabulary of canonical
// column names, the reserved "." prefix for derived columns, and the
// canonical column order per kind.
//
// # Quick Start
//
// Summarize a fitted model:
//
//	import (
//	    "github.com/prism-stats/prism/pkg/config"
//	    "github.com/prism-stats/prism/pkg/summary"
//
//	    // Import model families to register their adapters
//	    _ "github.com/prism-stats/prism/pkg/family/linear"
//	)
//
//	opts := config.DefaultOptions()
//	opts.ConfInt = true
//	opts.ConfLevel = 0.99
//
//	tbl, err := summary.Tidy(model, opts)
//
// Model families outside this repository register the same way, through
// registry.RegisterTidy and friends.
package prism
