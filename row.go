package joinery

import "reflect"

// Row is one flat tuple produced by a join query. Position i holds the
// sub-record of the i-th joined table, or nil when the outer join produced
// no match for it.
type Row []any

func (r Row) at(i int) (any, bool) {
	v := r[i]
	if absent(v) {
		return nil, false
	}
	return v, true
}

// absent reports whether v stands for a missing sub-record: untyped nil or a
// nil pointer, map, slice or interface.
func absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
