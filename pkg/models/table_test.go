package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableColumns(t *testing.T) {
	tbl := &Table{
		Name: "dim_customer",
		Fields: []Field{
			{Name: "customer_id", Type: FieldTypeInt},
			{Name: "email", Type: FieldTypeString},
			{Name: "signup_date", Type: FieldTypeTimestamp},
		},
		Rows: [][]interface{}{
			{int64(1), "a@example.com", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{int64(2), "b@example.com", nil},
		},
	}

	assert.Equal(t, []string{"customer_id", "email", "signup_date"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())
}

func TestFieldTypeForDatabaseType(t *testing.T) {
	tests := []struct {
		dbType string
		want   FieldType
	}{
		{"BIGINT", FieldTypeInt},
		{"UNSIGNED INT", FieldTypeInt},
		{"TINYINT", FieldTypeInt},
		{"DECIMAL", FieldTypeFloat},
		{"DOUBLE", FieldTypeFloat},
		{"DATETIME", FieldTypeTimestamp},
		{"DATE", FieldTypeTimestamp},
		{"VARCHAR", FieldTypeString},
		{"TEXT", FieldTypeString},
		{"JSON", FieldTypeString},
		{"BLOB", FieldTypeBytes},
		{"GEOMETRY", FieldTypeString}, // unknown types stay string
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldTypeForDatabaseType(tt.dbType))
		})
	}
}

func TestValueToString(t *testing.T) {
	ts := time.Date(2024, 6, 15, 13, 45, 30, 0, time.UTC)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil is empty", nil, ""},
		{"string", "widget", "widget"},
		{"int64", int64(42), "42"},
		{"float64", 19.99, "19.99"},
		{"float64 integral", 20.0, "20"},
		{"bool", true, "true"},
		{"bytes", []byte("129.99"), "129.99"},
		{"timestamp", ts, "2024-06-15 13:45:30"},
		{"uint64", uint64(7), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueToString(tt.value))
		})
	}
}
