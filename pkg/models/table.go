// Package models provides the in-memory tabular dataset produced by the
// extractor and consumed by the exporters. A Table keeps column order as
// returned by the source and rows in scan order; values are the driver's
// native Go representations.
package models

import (
	"database/sql"
	"strings"
)

// FieldType represents the data type of a column.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeBytes     FieldType = "bytes"
)

// Field describes one column of a Table.
type Field struct {
	Name     string
	Type     FieldType
	Nullable bool
}

// Table is a fully materialized result set. Rows hold one value per field,
// in field order.
type Table struct {
	Name   string
	Fields []Field
	Rows   [][]interface{}
}

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = f.Name
	}
	return cols
}

// NumRows returns the number of materialized rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// FieldFromColumnType maps a driver column description to a Field.
// MySQL reports the upstream SQL type name; anything unrecognized is kept
// as a string so no value is dropped.
func FieldFromColumnType(ct *sql.ColumnType) Field {
	nullable, ok := ct.Nullable()
	if !ok {
		nullable = true
	}

	return Field{
		Name:     ct.Name(),
		Type:     fieldTypeForDatabaseType(ct.DatabaseTypeName()),
		Nullable: nullable,
	}
}

func fieldTypeForDatabaseType(dbType string) FieldType {
	switch strings.ToUpper(dbType) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT",
		"UNSIGNED INT", "UNSIGNED BIGINT":
		return FieldTypeInt
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE":
		return FieldTypeFloat
	case "BOOL", "BOOLEAN":
		return FieldTypeBool
	case "DATE", "DATETIME", "TIMESTAMP":
		return FieldTypeTimestamp
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return FieldTypeBytes
	default:
		// CHAR, VARCHAR, TEXT, ENUM, SET, TIME, JSON and anything else
		return FieldTypeString
	}
}
