package joinery

import (
	sqlDriver "database/sql/driver"
	"fmt"
	"strings"
)

// Source describes one position of a joined row: the sub-record read from
// Columns consecutive result columns.
type Source struct {
	Name    string
	Columns int
	Scan    func(Scanner) (any, error)
}

// ScanInto builds a Source for a struct type. fields returns pointers to
// the struct fields in select-list order; the scanned value is a T.
func ScanInto[T any](name string, fields func(*T) []any) Source {
	var probe T
	return Source{
		Name:    name,
		Columns: len(fields(&probe)),
		Scan: func(sc Scanner) (any, error) {
			var v T
			if err := sc.Scan(fields(&v)...); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Record is a generic sub-record used when no Go type describes the table,
// for instance when the join comes from a definition file.
type Record struct {
	Table   string
	Key     []string
	Columns []string
	Values  []any
}

// RecordSource reads the given columns into a *Record identified by the key
// columns. An empty key uses the first column.
func RecordSource(table string, key []string, columns ...string) Source {
	if len(key) == 0 && len(columns) > 0 {
		key = columns[:1]
	}
	return Source{
		Name:    table,
		Columns: len(columns),
		Scan: func(sc Scanner) (any, error) {
			r := &Record{Table: table, Key: key, Columns: columns, Values: make([]any, len(columns))}
			dest := make([]any, len(columns))
			for i := range r.Values {
				dest[i] = &r.Values[i]
			}
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			for i, v := range r.Values {
				if b, ok := v.([]byte); ok {
					r.Values[i] = string(b)
				}
			}
			return r, nil
		},
	}
}

func (r *Record) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Identity returns the key column value, or a string joining every key
// column for composite keys.
func (r *Record) Identity() any {
	if len(r.Key) == 1 {
		v, _ := r.Get(r.Key[0])
		return keyValue(v)
	}
	parts := make([]string, len(r.Key))
	for i, k := range r.Key {
		v, _ := r.Get(k)
		parts[i] = fmt.Sprintf("%T:%v", v, keyValue(v))
	}
	return strings.Join(parts, "\x1f")
}

// keyValue reduces driver types such as pgtype.Numeric, which hold pointers,
// to the plain value they encode.
func keyValue(v any) any {
	if valuer, ok := v.(sqlDriver.Valuer); ok {
		if dv, err := valuer.Value(); err == nil {
			v = dv
		}
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return orderedJSON(r.Columns, r.Values)
}
