package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/prism-stats/prism/pkg/errors"
)

// arrowType maps a column's semantic type onto an Arrow data type
func arrowType(t ColumnType) arrow.DataType {
	switch t {
	case ColumnTypeFloat:
		return arrow.PrimitiveTypes.Float64
	case ColumnTypeInt:
		return arrow.PrimitiveTypes.Int64
	case ColumnTypeBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrow converts the table into an Arrow record batch. Missing cells become
// Arrow nulls; label columns export as strings. The caller owns the returned
// record and must Release it.
func (t *Table) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	fields := make([]arrow.Field, len(t.cols))
	for i, col := range t.cols {
		fields[i] = arrow.Field{
			Name:     col.Name(),
			Type:     arrowType(col.Type()),
			Nullable: true,
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i, col := range t.cols {
		fb := builder.Field(i)
		for r := 0; r < col.Len(); r++ {
			v := col.Get(r)
			if v == nil {
				fb.AppendNull()
				continue
			}
			switch b := fb.(type) {
			case *array.Float64Builder:
				b.Append(v.(float64))
			case *array.Int64Builder:
				b.Append(v.(int64))
			case *array.BooleanBuilder:
				b.Append(v.(bool))
			case *array.StringBuilder:
				b.Append(v.(string))
			default:
				return nil, errors.Newf(errors.ErrorTypeInternal,
					"unsupported arrow builder %T for column %q", fb, col.Name())
			}
		}
	}

	return builder.NewRecord(), nil
}
