package export

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/models"
)

// WriteParquet writes one table as a Snappy-compressed Parquet file,
// overwriting any existing file at path.
func WriteParquet(path string, table *models.Table) error {
	arrowSchema, err := tableToArrowSchema(table)
	if err != nil {
		return err
	}

	file, err := os.Create(path) //nolint:gosec // G304: path derives from validated config
	if err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to create parquet file").
			WithDetail("path", path)
	}
	defer file.Close()

	alloc := memory.NewGoAllocator()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(true),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(alloc),
	)

	writer, err := pqarrow.NewFileWriter(arrowSchema, file, props, arrowProps)
	if err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to create parquet writer").
			WithDetail("table", table.Name)
	}

	builder := array.NewRecordBuilder(alloc, arrowSchema)
	defer builder.Release()

	for rowIdx, row := range table.Rows {
		for colIdx, value := range row {
			if err := appendValue(builder.Field(colIdx), value); err != nil {
				return etlerrors.Wrap(err, etlerrors.ErrorTypeData, "failed to append value").
					WithDetail("table", table.Name).
					WithDetail("column", table.Fields[colIdx].Name).
					WithDetail("row", rowIdx)
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	if err := writer.Write(record); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to write record batch").
			WithDetail("table", table.Name)
	}

	if err := writer.Close(); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to close parquet writer").
			WithDetail("table", table.Name)
	}

	return file.Close()
}

// tableToArrowSchema maps the table's fields to an Arrow schema. Columns
// are always nullable on the Arrow side: MySQL NOT NULL metadata is not
// trustworthy through views, and a spurious null is better surfaced in the
// data than as a write failure.
func tableToArrowSchema(table *models.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(table.Fields))
	for i, field := range table.Fields {
		arrowType, err := arrowTypeFor(field.Type)
		if err != nil {
			return nil, etlerrors.Wrap(err, etlerrors.ErrorTypeData, "failed to map column type").
				WithDetail("table", table.Name).
				WithDetail("column", field.Name)
		}
		fields[i] = arrow.Field{
			Name:     field.Name,
			Type:     arrowType,
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowTypeFor(fieldType models.FieldType) (arrow.DataType, error) {
	switch fieldType {
	case models.FieldTypeString:
		return arrow.BinaryTypes.String, nil
	case models.FieldTypeInt:
		return arrow.PrimitiveTypes.Int64, nil
	case models.FieldTypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case models.FieldTypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case models.FieldTypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	case models.FieldTypeBytes:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, etlerrors.New(etlerrors.ErrorTypeData, "unsupported field type: "+string(fieldType))
	}
}

// appendValue coerces one cell into the column builder. MySQL DECIMAL
// arrives from the driver as []byte, so the numeric builders also accept
// byte slices and parse them. A Go type the column's builder does not
// recognize is an error, not a null: nulls only come from genuine SQL
// NULLs.
func appendValue(builder array.Builder, value interface{}) error {
	if value == nil {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		switch v := value.(type) {
		case bool:
			b.Append(v)
		case int64:
			b.Append(v != 0)
		default:
			return unsupportedValue("boolean", value)
		}

	case *array.Int64Builder:
		switch v := value.(type) {
		case int:
			b.Append(int64(v))
		case int32:
			b.Append(int64(v))
		case int64:
			b.Append(v)
		case uint64:
			b.Append(int64(v))
		case []byte:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return err
			}
			b.Append(n)
		default:
			return unsupportedValue("integer", value)
		}

	case *array.Float64Builder:
		switch v := value.(type) {
		case float32:
			b.Append(float64(v))
		case float64:
			b.Append(v)
		case int64:
			b.Append(float64(v))
		case []byte:
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return err
			}
			b.Append(f)
		default:
			return unsupportedValue("float", value)
		}

	case *array.StringBuilder:
		switch v := value.(type) {
		case string:
			b.Append(v)
		case []byte:
			b.Append(string(v))
		default:
			b.Append(models.ValueToString(value))
		}

	case *array.TimestampBuilder:
		switch v := value.(type) {
		case time.Time:
			b.Append(arrow.Timestamp(v.UnixNano()))
		case string:
			t, err := parseTimestamp(v)
			if err != nil {
				return err
			}
			b.Append(arrow.Timestamp(t.UnixNano()))
		case []byte:
			t, err := parseTimestamp(string(v))
			if err != nil {
				return err
			}
			b.Append(arrow.Timestamp(t.UnixNano()))
		default:
			return unsupportedValue("timestamp", value)
		}

	case *array.BinaryBuilder:
		switch v := value.(type) {
		case []byte:
			b.Append(v)
		case string:
			b.Append([]byte(v))
		default:
			return unsupportedValue("binary", value)
		}

	default:
		return etlerrors.New(etlerrors.ErrorTypeData, "unsupported builder type")
	}

	return nil
}

func unsupportedValue(column string, value interface{}) error {
	return etlerrors.New(etlerrors.ErrorTypeData,
		fmt.Sprintf("unsupported %T value for %s column", value, column))
}

// parseTimestamp accepts the MySQL text forms for DATETIME and DATE.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, etlerrors.New(etlerrors.ErrorTypeData, "unrecognized timestamp: "+s)
}
