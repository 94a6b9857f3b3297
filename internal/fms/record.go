package fms

import (
	"fmt"
	"strconv"
	"time"
)

// timeLayout matches how Postgres timestamps are usually displayed.
const timeLayout = "2006-01-02 15:04:05.999999-07:00"

// Record is one row of a dataset: column names in select order plus the value
// the driver produced for each column (string, int64, float64, bool,
// time.Time or nil).
type Record struct {
	columns []string
	values  map[string]any
}

// NewRecord builds a Record from parallel column and value slices.
// Missing values are nil; surplus values are ignored.
func NewRecord(columns []string, values []any) Record {
	r := Record{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]any, len(columns)),
	}
	for i, col := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.Set(col, v)
	}
	return r
}

// Set assigns a column value. A new column is appended to the column order,
// an existing one keeps its position.
func (r *Record) Set(column string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Columns returns the column names in order.
func (r Record) Columns() []string {
	return r.columns
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.columns)
}

// Lookup returns the value stored under column and whether the column exists.
func (r Record) Lookup(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Get returns the value under column, or def when the column is absent or null.
func (r Record) Get(column string, def any) any {
	if v, ok := r.values[column]; ok && v != nil {
		return v
	}
	return def
}

// String returns the value under column as text, or def when the column is
// absent or null.
func (r Record) String(column, def string) string {
	v, ok := r.values[column]
	if !ok || v == nil {
		return def
	}
	return Text(v)
}

// Values returns the record's values in column order.
func (r Record) Values() []any {
	out := make([]any, len(r.columns))
	for i, col := range r.columns {
		out[i] = r.values[col]
	}
	return out
}

// Text renders a cell value as text. Null renders as the empty string.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(timeLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
