// Package summary is the generic entry point for the three summarization
// kinds. It normalizes the caller's options, resolves the adapter through the
// registry, invokes it, and validates the returned table against the shape
// and column conventions before returning it.
package summary

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/prism-stats/prism/pkg/align"
	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/logger"
	"github.com/prism-stats/prism/pkg/metrics"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/observability"
	"github.com/prism-stats/prism/pkg/registry"
	"github.com/prism-stats/prism/pkg/table"
)

var (
	logOnce sync.Once
	log     *zap.Logger
)

func dispatchLogger() *zap.Logger {
	logOnce.Do(func() {
		log = logger.Get().With(zap.String("component", "dispatcher"))
	})
	return log
}

// Glance returns the one-row per-model summary
func Glance(m model.Model, opts *config.Options) (*table.Table, error) {
	return run(convention.KindGlance, m, opts, glanceBody)
}

// Tidy returns the per-component summary
func Tidy(m model.Model, opts *config.Options) (*table.Table, error) {
	return run(convention.KindTidy, m, opts, tidyBody)
}

// Augment returns the input dataset with derived per-observation columns
// appended. Row count and row order are invariant: they equal the input's
// exactly, with missing markers filling rows the model excluded.
func Augment(m model.Model, opts *config.Options) (*table.Table, error) {
	return run(convention.KindAugment, m, opts, augmentBody)
}

// run is the shared dispatch skeleton: normalize, invoke, account
func run(kind convention.Kind, m model.Model, opts *config.Options,
	body func(tags []string, m model.Model, norm *config.Options) (*table.Table, error),
) (*table.Table, error) {
	tags := model.TagsOf(m)
	tag := tags[0]

	_, span := observability.StartSpan(context.Background(), "prism.summarize",
		attribute.String("kind", string(kind)),
		attribute.String("type_tag", tag),
	)
	timer := metrics.NewTimer(string(kind), tag)

	norm, err := opts.Normalize()
	var out *table.Table
	if err == nil {
		out, err = body(tags, m, norm)
	}

	timer.Stop()
	if err != nil {
		metrics.SummarizeCalls.WithLabelValues(string(kind), tag, "error").Inc()
		metrics.SummarizeErrors.WithLabelValues(string(kind), tag, string(errors.TypeOf(err))).Inc()
		observability.EndSpan(span, err)
		return nil, err
	}

	metrics.SummarizeCalls.WithLabelValues(string(kind), tag, "success").Inc()
	observability.EndSpan(span, nil)
	return out, nil
}

func glanceBody(tags []string, m model.Model, norm *config.Options) (*table.Table, error) {
	fn, err := registry.ResolveGlance(tags)
	if err != nil {
		return nil, err
	}

	out, err := fn(m, norm)
	if err != nil {
		return nil, err
	}

	if err := validateShapeGlance(tags[0], out); err != nil {
		return nil, err
	}
	if err := validateColumns(convention.KindGlance, tags[0], out); err != nil {
		return nil, err
	}

	out, err = canonicalize(convention.KindGlance, out)
	if err != nil {
		return nil, err
	}

	checkGlanceSchema(tags[0], out)
	return out, nil
}

func tidyBody(tags []string, m model.Model, norm *config.Options) (*table.Table, error) {
	fn, err := registry.ResolveTidy(tags)
	if err != nil {
		return nil, err
	}

	out, err := fn(m, norm)
	if err != nil {
		return nil, err
	}

	if err := validateShapeTidy(tags[0], out, norm); err != nil {
		return nil, err
	}
	if err := validateColumns(convention.KindTidy, tags[0], out); err != nil {
		return nil, err
	}

	return canonicalize(convention.KindTidy, out)
}

func augmentBody(tags []string, m model.Model, norm *config.Options) (*table.Table, error) {
	fn, err := registry.ResolveAugment(tags)
	if err != nil {
		return nil, err
	}

	d, err := fn(m, norm)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, contract(convention.KindAugment, tags[0], "adapter returned no derivation")
	}

	// The adapter must align against the dataset the caller chose. NewData
	// precedence was already resolved by Normalize.
	expected := norm.NewData
	if expected == nil {
		expected = norm.Data
	}
	if expected != nil && d.Data != expected {
		return nil, contract(convention.KindAugment, tags[0],
			"adapter substituted its own dataset for the caller's")
	}

	out, err := align.Align(d)
	if err != nil {
		return nil, err
	}

	if err := validateShapeAugment(tags[0], out, d.Data); err != nil {
		return nil, err
	}
	if err := validateAugmentColumns(tags[0], out, d.Data); err != nil {
		return nil, err
	}

	recordNAFills(tags[0], out, d.Data)
	return out, nil
}

// recordNAFills counts missing markers in the derived columns
func recordNAFills(tag string, out, input *table.Table) {
	fills := 0
	for _, col := range out.Columns() {
		if input.Has(col.Name()) || !convention.IsReserved(col.Name()) {
			continue
		}
		fills += col.NACount()
	}
	if fills > 0 {
		metrics.AlignedNAFills.WithLabelValues(tag).Add(float64(fills))
	}
}

// glanceSchemas remembers the glance column fingerprint per type tag. The
// convention documents that glance columns must not vary by input values;
// drift is surfaced as a warning rather than an error because existing
// adapters are not statically held to it.
var glanceSchemas sync.Map

func checkGlanceSchema(tag string, out *table.Table) {
	fp := convention.Fingerprint(out.ColumnNames())
	prev, loaded := glanceSchemas.LoadOrStore(tag, fp)
	if loaded && prev.(uint64) != fp {
		dispatchLogger().Warn("glance column set drifted across calls",
			zap.String("type_tag", tag),
			zap.Strings("columns", out.ColumnNames()))
		glanceSchemas.Store(tag, fp)
	}
}
