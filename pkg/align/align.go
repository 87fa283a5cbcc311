// Package align merges model-derived per-observation vectors back into an
// input dataset by explicit row index. Its single correctness property: the
// output has exactly the input's rows, in the input's order. Rows the model
// excluded during fitting are filled with missing markers, never dropped.
package align

import (
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/table"
)

// Derivation is what an augment adapter produces: the dataset its vectors
// align against plus the derived columns themselves.
type Derivation struct {
	// Data is the resolved input dataset: the caller's newData or data, or
	// the adapter's best-effort reconstruction from the model.
	Data *table.Table

	// UsedRows maps the model's internal observation index to Data row
	// positions: the i-th element of every derived column belongs to row
	// UsedRows[i]. A nil UsedRows means the vectors cover every row in
	// order.
	UsedRows []int

	// Columns are the derived columns in adapter-defined order. Every name
	// must carry the reserved prefix. Each column's length must equal
	// len(UsedRows), or Data's row count when UsedRows is nil.
	Columns []*table.Column
}

// Align builds the augmented table: the input's columns unchanged and in
// order, followed by the derived columns scattered to their rows. Row labels
// on the input surface as a leading .rownames column.
func Align(d *Derivation) (*table.Table, error) {
	if d == nil || d.Data == nil {
		return nil, errors.New(errors.ErrorTypeAlignment,
			"no input dataset: none supplied and the model could not reconstruct one")
	}

	n := d.Data.RowCount()

	rowOf, err := checkUsedRows(d.UsedRows, n)
	if err != nil {
		return nil, err
	}

	vecLen := n
	if d.UsedRows != nil {
		vecLen = len(d.UsedRows)
	}

	for _, col := range d.Columns {
		if !convention.IsReserved(col.Name()) {
			return nil, errors.Newf(errors.ErrorTypeContract,
				"derived column %q lacks the %q prefix", col.Name(), convention.DerivedPrefix)
		}
		if d.Data.Has(col.Name()) {
			return nil, errors.Newf(errors.ErrorTypeInput,
				"input dataset already has a column named %q", col.Name())
		}
		if col.Len() != vecLen {
			return nil, errors.Newf(errors.ErrorTypeAlignment,
				"derived column %q has %d values for %d model observations",
				col.Name(), col.Len(), vecLen)
		}
	}

	out, err := table.New()
	if err != nil {
		return nil, err
	}

	if d.Data.HasRowLabels() && !d.Data.Has(convention.RowNames) {
		labels := table.Strings(convention.RowNames, d.Data.RowLabels()...)
		if err := out.AddColumn(labels); err != nil {
			return nil, err
		}
	}

	for _, col := range d.Data.Columns() {
		if err := out.AddColumn(col); err != nil {
			return nil, err
		}
	}

	for _, col := range d.Columns {
		scattered := col
		if d.UsedRows != nil {
			scattered = scatter(col, rowOf, n)
		}
		if err := out.AddColumn(scattered); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// checkUsedRows validates the index and inverts it to row -> vector position
func checkUsedRows(used []int, n int) (map[int]int, error) {
	if used == nil {
		return nil, nil
	}
	if len(used) > n {
		return nil, errors.Newf(errors.ErrorTypeAlignment,
			"model used %d observations but the input dataset has %d rows", len(used), n)
	}
	rowOf := make(map[int]int, len(used))
	for i, row := range used {
		if row < 0 || row >= n {
			return nil, errors.Newf(errors.ErrorTypeAlignment,
				"model observation %d maps to row %d, outside 0..%d", i, row, n-1)
		}
		if _, dup := rowOf[row]; dup {
			return nil, errors.Newf(errors.ErrorTypeAlignment,
				"row %d claimed by more than one model observation", row)
		}
		rowOf[row] = i
	}
	return rowOf, nil
}

// scatter spreads a model-length vector across all n rows, filling rows the
// model never saw with missing markers.
func scatter(col *table.Column, rowOf map[int]int, n int) *table.Column {
	out := table.NewColumn(col.Name(), col.Type())
	for row := 0; row < n; row++ {
		i, ok := rowOf[row]
		if !ok {
			out.AppendNA()
			continue
		}
		// Same type and a value that came out of the same column: cannot fail.
		_ = out.Append(col.Get(i))
	}
	return out
}
