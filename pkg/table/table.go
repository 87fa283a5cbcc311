// Package table provides the tabular value returned by every summarization:
// an ordered sequence of named columns of uniform semantic type sharing a
// single row count, with an explicit missing marker per cell. Tables are
// treated as immutable once returned to a caller.
package table

import (
	"fmt"

	"github.com/prism-stats/prism/pkg/errors"
)

// ColumnType represents the semantic type of a column
type ColumnType int

const (
	ColumnTypeFloat ColumnType = iota
	ColumnTypeInt
	ColumnTypeString
	ColumnTypeBool
	// ColumnTypeLabel holds categorical labels; stored as strings but
	// semantically an enumeration, not free text.
	ColumnTypeLabel
)

// String returns the name of the column type
func (t ColumnType) String() string {
	switch t {
	case ColumnTypeFloat:
		return "float"
	case ColumnTypeInt:
		return "int"
	case ColumnTypeString:
		return "string"
	case ColumnTypeBool:
		return "bool"
	case ColumnTypeLabel:
		return "label"
	default:
		return "unknown"
	}
}

// ParseColumnType parses a column type name
func ParseColumnType(s string) (ColumnType, error) {
	switch s {
	case "float", "numeric":
		return ColumnTypeFloat, nil
	case "int", "integer":
		return ColumnTypeInt, nil
	case "string":
		return ColumnTypeString, nil
	case "bool", "boolean":
		return ColumnTypeBool, nil
	case "label":
		return ColumnTypeLabel, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeData, "unknown column type %q", s)
	}
}

// Column is a named sequence of values of one semantic type. A nil cell is
// the explicit missing marker.
type Column struct {
	name   string
	typ    ColumnType
	values []interface{}
}

// NewColumn creates an empty column
func NewColumn(name string, typ ColumnType) *Column {
	return &Column{
		name:   name,
		typ:    typ,
		values: make([]interface{}, 0, 16),
	}
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Type returns the column's semantic type
func (c *Column) Type() ColumnType { return c.typ }

// Len returns the number of cells
func (c *Column) Len() int { return len(c.values) }

// Append adds a value, coercing compatible numeric kinds
func (c *Column) Append(value interface{}) error {
	if value == nil {
		c.values = append(c.values, nil)
		return nil
	}

	switch c.typ {
	case ColumnTypeFloat:
		switch v := value.(type) {
		case float64:
			c.values = append(c.values, v)
		case float32:
			c.values = append(c.values, float64(v))
		case int:
			c.values = append(c.values, float64(v))
		case int64:
			c.values = append(c.values, float64(v))
		default:
			return fmt.Errorf("column %q: expected float, got %T", c.name, value)
		}
	case ColumnTypeInt:
		switch v := value.(type) {
		case int:
			c.values = append(c.values, int64(v))
		case int64:
			c.values = append(c.values, v)
		case int32:
			c.values = append(c.values, int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("column %q: %v is not an integer", c.name, v)
			}
			c.values = append(c.values, int64(v))
		default:
			return fmt.Errorf("column %q: expected int, got %T", c.name, value)
		}
	case ColumnTypeString, ColumnTypeLabel:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("column %q: expected string, got %T", c.name, value)
		}
		c.values = append(c.values, v)
	case ColumnTypeBool:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("column %q: expected bool, got %T", c.name, value)
		}
		c.values = append(c.values, v)
	default:
		return fmt.Errorf("column %q: unknown column type %d", c.name, c.typ)
	}
	return nil
}

// AppendNA adds a missing cell
func (c *Column) AppendNA() {
	c.values = append(c.values, nil)
}

// Get returns the cell at i, nil when missing
func (c *Column) Get(i int) interface{} {
	return c.values[i]
}

// IsNA reports whether the cell at i is missing
func (c *Column) IsNA(i int) bool {
	return c.values[i] == nil
}

// NACount returns the number of missing cells
func (c *Column) NACount() int {
	n := 0
	for _, v := range c.values {
		if v == nil {
			n++
		}
	}
	return n
}

// Float creates a float column from values
func Float(name string, values ...float64) *Column {
	c := NewColumn(name, ColumnTypeFloat)
	for _, v := range values {
		c.values = append(c.values, v)
	}
	return c
}

// Int creates an int column from values
func Int(name string, values ...int64) *Column {
	c := NewColumn(name, ColumnTypeInt)
	for _, v := range values {
		c.values = append(c.values, v)
	}
	return c
}

// Strings creates a string column from values
func Strings(name string, values ...string) *Column {
	c := NewColumn(name, ColumnTypeString)
	for _, v := range values {
		c.values = append(c.values, v)
	}
	return c
}

// Labels creates a label column from values
func Labels(name string, values ...string) *Column {
	c := NewColumn(name, ColumnTypeLabel)
	for _, v := range values {
		c.values = append(c.values, v)
	}
	return c
}

// Bools creates a bool column from values
func Bools(name string, values ...bool) *Column {
	c := NewColumn(name, ColumnTypeBool)
	for _, v := range values {
		c.values = append(c.values, v)
	}
	return c
}

// Table is an ordered sequence of named columns sharing one row count.
// Column order is significant and stable.
type Table struct {
	cols   []*Column
	index  map[string]int
	labels []string
}

// New creates a table from columns, verifying uniform length and unique names
func New(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, col := range cols {
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column, verifying length and name uniqueness
func (t *Table) AddColumn(col *Column) error {
	if col.name == "" {
		return errors.New(errors.ErrorTypeInput, "column name must not be empty")
	}
	if _, exists := t.index[col.name]; exists {
		return errors.Newf(errors.ErrorTypeInput, "duplicate column %q", col.name)
	}
	if len(t.cols) > 0 && col.Len() != t.cols[0].Len() {
		return errors.Newf(errors.ErrorTypeInput,
			"column %q has %d rows, table has %d", col.name, col.Len(), t.cols[0].Len())
	}
	t.index[col.name] = len(t.cols)
	t.cols = append(t.cols, col)
	return nil
}

// RowCount returns the shared row count
func (t *Table) RowCount() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int { return len(t.cols) }

// Column returns the named column
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Has reports whether the named column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the columns in order. The slice is a copy; the columns
// are not.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// SetRowLabels attaches human-readable row labels
func (t *Table) SetRowLabels(labels []string) error {
	if len(labels) != t.RowCount() {
		return errors.Newf(errors.ErrorTypeInput,
			"%d row labels for %d rows", len(labels), t.RowCount())
	}
	t.labels = labels
	return nil
}

// RowLabels returns the row labels, nil when none are attached
func (t *Table) RowLabels() []string { return t.labels }

// HasRowLabels reports whether row labels are attached
func (t *Table) HasRowLabels() bool { return len(t.labels) > 0 }

// Reorder returns a new table with columns arranged per names. Every table
// column must appear in names exactly once; the row data is shared, not
// copied.
func (t *Table) Reorder(names []string) (*Table, error) {
	if len(names) != len(t.cols) {
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"reorder lists %d columns, table has %d", len(names), len(t.cols))
	}
	out := &Table{
		cols:   make([]*Column, 0, len(t.cols)),
		index:  make(map[string]int, len(t.cols)),
		labels: t.labels,
	}
	for _, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeInternal, "reorder references unknown column %q", name)
		}
		if err := out.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}
