package relational

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Row is one result row keyed by column label.
type Row map[string]any

// Reader reads the columns projected under prefix.
func (r Row) Reader(prefix string) *ColumnReader {
	return &ColumnReader{row: r, prefix: prefix}
}

// AllNull reports whether every listed column under prefix is null or absent.
func (r Row) AllNull(prefix string, columns []string) bool {
	for _, column := range columns {
		if v, ok := r[label(prefix, column)]; ok && v != nil {
			return false
		}
	}
	return true
}

func label(prefix, column string) string {
	return prefix + "_" + column
}

// ColumnReader keeps the first conversion error so a mapper can read every
// field and check once at the end.
type ColumnReader struct {
	row    Row
	prefix string
	err    error
}

func (r *ColumnReader) Err() error {
	return r.err
}

// Get reads prefix_column converted to T.
// A missing column or a null value yields nil.
func Get[T any](r *ColumnReader, column string) *T {
	name := label(r.prefix, column)
	raw, ok := r.row[name]
	if !ok || raw == nil {
		return nil
	}
	v, err := Convert[T](raw)
	if err != nil {
		if r.err == nil {
			r.err = errors.Wrapf(err, "column %s", name)
		}
		return nil
	}
	return &v
}

// Convert turns a driver value into T. Types implementing sql.Scanner
// convert themselves.
func Convert[T any](raw any) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case sql.Scanner:
		err = p.Scan(raw)
	case *int64:
		*p, err = toInt64(raw)
	case *int32:
		var v int64
		v, err = toInt64(raw)
		if err == nil && (v < math.MinInt32 || v > math.MaxInt32) {
			err = fmt.Errorf("%d overflows int32", v)
		}
		*p = int32(v)
	case *int:
		var v int64
		v, err = toInt64(raw)
		if err == nil && int64(int(v)) != v {
			err = fmt.Errorf("%d overflows int", v)
		}
		*p = int(v)
	case *string:
		*p, err = toString(raw)
	case *bool:
		*p, err = toBool(raw)
	case *float64:
		*p, err = toFloat64(raw)
	case *time.Time:
		*p, err = ToTime(raw)
	default:
		err = fmt.Errorf("unsupported target type %T", out)
	}
	return out, err
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("cannot convert %v to integer", v)
		}
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to integer", raw)
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", raw)
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case []byte:
		return strconv.ParseBool(string(v))
	case string:
		return strconv.ParseBool(v)
	}
	return false, fmt.Errorf("cannot convert %T to bool", raw)
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to float", raw)
}

var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ToTime accepts native times and the textual forms drivers return for dates.
func ToTime(raw any) (time.Time, error) {
	var s string
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", raw)
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}
