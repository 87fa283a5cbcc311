package table

import (
	"encoding/csv"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/prism-stats/prism/pkg/errors"
)

// naToken is how missing cells appear in CSV output and input
const naToken = "NA"

// rowLabelColumn is the CSV column name recognized as row labels on read
const rowLabelColumn = ".rownames"

// WriteCSV writes the table with a header row. Missing cells render as NA.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}

	row := make([]string, len(t.cols))
	for i := 0; i < t.RowCount(); i++ {
		for j, col := range t.cols {
			row[j] = formatCell(col.Get(i))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return naToken
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return naToken
	}
}

// ReadCSV reads a table with a header row, inferring each column's type from
// its values (int, then float, then bool, then string). Empty cells and the
// NA token read as missing. A column named .rownames becomes row labels.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed CSV input")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrorTypeData, "CSV input has no header row")
	}

	header := records[0]
	rows := records[1:]

	var labels []string
	t := &Table{index: make(map[string]int, len(header))}

	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, errors.Newf(errors.ErrorTypeData, "row %d has %d fields, header has %d", i+1, len(rec), len(header))
			}
			raw[i] = rec[j]
		}

		if name == rowLabelColumn {
			labels = raw
			continue
		}

		col := inferColumn(name, raw)
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}

	if t.NumColumns() == 0 {
		return nil, errors.New(errors.ErrorTypeData, "CSV input has no data columns")
	}
	if labels != nil {
		if err := t.SetRowLabels(labels); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// inferColumn picks the narrowest type that fits every non-missing cell
func inferColumn(name string, raw []string) *Column {
	isInt, isFloat, isBool := true, true, true
	for _, s := range raw {
		if s == "" || s == naToken {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			isFloat = false
		}
		if _, err := strconv.ParseBool(s); err != nil {
			isBool = false
		}
	}

	var col *Column
	switch {
	case isInt:
		col = NewColumn(name, ColumnTypeInt)
	case isFloat:
		col = NewColumn(name, ColumnTypeFloat)
	case isBool:
		col = NewColumn(name, ColumnTypeBool)
	default:
		col = NewColumn(name, ColumnTypeString)
	}

	for _, s := range raw {
		if s == "" || s == naToken {
			col.AppendNA()
			continue
		}
		switch col.typ {
		case ColumnTypeInt:
			v, _ := strconv.ParseInt(s, 10, 64)
			col.values = append(col.values, v)
		case ColumnTypeFloat:
			v, _ := strconv.ParseFloat(s, 64)
			col.values = append(col.values, v)
		case ColumnTypeBool:
			v, _ := strconv.ParseBool(s)
			col.values = append(col.values, v)
		default:
			col.values = append(col.values, s)
		}
	}
	return col
}

// rows materializes the table as ordered row maps for JSON and YAML output
func (t *Table) rows() []map[string]interface{} {
	out := make([]map[string]interface{}, t.RowCount())
	for i := range out {
		row := make(map[string]interface{}, len(t.cols))
		for _, col := range t.cols {
			row[col.name] = col.Get(i)
		}
		out[i] = row
	}
	return out
}

// MarshalJSON renders the table as an array of row objects; missing cells
// render as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.rows())
}

// EncodeYAML renders the table as a YAML sequence of row mappings
func (t *Table) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(t.rows())
}

// frameJSON is the column-oriented serialized form accepted for input data
// embedded in model files.
type frameJSON struct {
	Columns []frameColumnJSON `json:"columns"`
	Labels  []string          `json:"row_labels,omitempty"`
}

type frameColumnJSON struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []interface{} `json:"values"`
}

// DecodeJSON parses a column-oriented serialized table:
//
//	{"columns": [{"name": "x", "type": "float", "values": [1, null, 3]}],
//	 "row_labels": ["a", "b", "c"]}
//
// null values read as missing.
func DecodeJSON(data []byte) (*Table, error) {
	var frame frameJSON
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed table JSON")
	}
	if len(frame.Columns) == 0 {
		return nil, errors.New(errors.ErrorTypeData, "table JSON has no columns")
	}

	t := &Table{index: make(map[string]int, len(frame.Columns))}
	for _, fc := range frame.Columns {
		typ, err := ParseColumnType(fc.Type)
		if err != nil {
			return nil, err
		}
		col := NewColumn(fc.Name, typ)
		for _, v := range fc.Values {
			if err := col.Append(v); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed table JSON")
			}
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}

	if frame.Labels != nil {
		if err := t.SetRowLabels(frame.Labels); err != nil {
			return nil, err
		}
	}
	return t, nil
}
