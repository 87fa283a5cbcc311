package summary

import (
	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/table"
)

// contract builds a ContractViolation error with full diagnostic context
func contract(kind convention.Kind, tag, invariant string) error {
	return errors.Newf(errors.ErrorTypeContract, "%s adapter for %q: %s", kind, tag, invariant).
		WithDetail("kind", string(kind)).
		WithDetail("type_tag", tag).
		WithDetail("invariant", invariant)
}

func validateShapeGlance(tag string, out *table.Table) error {
	if out == nil {
		return contract(convention.KindGlance, tag, "adapter returned no table")
	}
	if out.RowCount() != 1 {
		return contract(convention.KindGlance, tag, "output must have exactly one row")
	}
	return nil
}

func validateShapeTidy(tag string, out *table.Table, opts *config.Options) error {
	if out == nil {
		return contract(convention.KindTidy, tag, "adapter returned no table")
	}
	if out.RowCount() < 1 {
		return contract(convention.KindTidy, tag, "output must have one row per component")
	}
	if !out.Has(convention.Term) {
		return contract(convention.KindTidy, tag, "output lacks the term column")
	}
	if !out.Has(convention.Estimate) {
		return contract(convention.KindTidy, tag, "output lacks the estimate column")
	}

	hasLow, hasHigh := out.Has(convention.ConfLow), out.Has(convention.ConfHigh)
	if opts.ConfInt && !(hasLow && hasHigh) {
		return contract(convention.KindTidy, tag, "confidence interval requested but conf.low/conf.high missing")
	}
	if !opts.ConfInt && (hasLow || hasHigh) {
		return contract(convention.KindTidy, tag, "confidence columns returned without being requested")
	}

	if opts.Quick {
		for _, name := range out.ColumnNames() {
			if name != convention.Term && name != convention.Estimate {
				return contract(convention.KindTidy, tag, "quick mode permits only term and estimate columns")
			}
		}
	}
	return nil
}

func validateShapeAugment(tag string, out, input *table.Table) error {
	if out == nil {
		return contract(convention.KindAugment, tag, "alignment produced no table")
	}
	// The single most important correctness property of the framework.
	if out.RowCount() != input.RowCount() {
		return contract(convention.KindAugment, tag, "output row count differs from input row count")
	}
	return nil
}

// validateColumns checks glance/tidy column-name discipline: canonical names
// are free, reserved-prefixed names must be part of the recognized derived
// vocabulary, and unprefixed family-specific extras are allowed.
func validateColumns(kind convention.Kind, tag string, out *table.Table) error {
	for _, col := range out.Columns() {
		name := col.Name()
		if convention.IsReserved(name) && !convention.IsCanonical(name) {
			return contract(kind, tag, "unrecognized reserved column "+name)
		}
		if err := checkSemanticType(kind, tag, col); err != nil {
			return err
		}
	}
	return nil
}

// validateAugmentColumns checks that every output column is either an input
// column carried through unchanged or a reserved derived column.
func validateAugmentColumns(tag string, out, input *table.Table) error {
	for _, col := range out.Columns() {
		name := col.Name()
		if input.Has(name) {
			continue
		}
		if !convention.IsReserved(name) {
			return contract(convention.KindAugment, tag, "added column "+name+" lacks the reserved prefix")
		}
		if err := checkSemanticType(convention.KindAugment, tag, col); err != nil {
			return err
		}
	}
	return nil
}

// checkSemanticType verifies a canonical column carries its declared type
func checkSemanticType(kind convention.Kind, tag string, col *table.Column) error {
	spec, ok := convention.Lookup(col.Name())
	if !ok {
		return nil
	}

	valid := false
	switch spec.Type {
	case convention.TypeNumeric:
		valid = col.Type() == table.ColumnTypeFloat || col.Type() == table.ColumnTypeInt
	case convention.TypeInteger:
		valid = col.Type() == table.ColumnTypeInt || col.Type() == table.ColumnTypeFloat
	case convention.TypeString:
		valid = col.Type() == table.ColumnTypeString
	case convention.TypeLabel:
		valid = col.Type() == table.ColumnTypeLabel || col.Type() == table.ColumnTypeString
	}
	if !valid {
		return contract(kind, tag, "column "+col.Name()+" has type "+col.Type().String()+
			", convention requires "+string(spec.Type))
	}
	return nil
}

// canonicalize reorders recognized canonical columns into the conventional
// order for the kind; adapter-specific extras keep their relative order and
// follow the canonical set.
func canonicalize(kind convention.Kind, out *table.Table) (*table.Table, error) {
	names := out.ColumnNames()

	ordered := make([]string, 0, len(names))
	for _, canonical := range convention.CanonicalOrder(kind) {
		if out.Has(canonical) {
			ordered = append(ordered, canonical)
		}
	}
	for _, name := range names {
		if _, isCanonical := convention.Rank(kind, name); !isCanonical {
			ordered = append(ordered, name)
		}
	}

	if len(ordered) == len(names) && equalOrder(ordered, names) {
		return out, nil
	}
	return out.Reorder(ordered)
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
