package models

import (
	"fmt"
	"strconv"
	"time"
)

// timestampLayout matches the MySQL text form of DATETIME/TIMESTAMP values,
// which is also what the downstream analytics tooling expects in CSV.
const timestampLayout = "2006-01-02 15:04:05"

// ValueToString converts a cell value to its CSV text form. NULL renders
// as an empty field. This replaces fmt.Sprintf("%v", value) in the export
// hot path.
func ValueToString(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(timestampLayout)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", value)
	}
}
