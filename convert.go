package joinery

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// convertAssign stores src into the pointer dest following database/sql
// conversion rules, extended for the value types pgx returns.
func convertAssign(dest, src any) error {
	if src == nil {
		return setZero(dest)
	}

	if scanner, ok := dest.(sql.Scanner); ok {
		if dv := reflect.ValueOf(dest); dv.Kind() == reflect.Pointer && reflect.TypeOf(src).AssignableTo(dv.Elem().Type()) {
			dv.Elem().Set(reflect.ValueOf(src))
			return nil
		}
		switch raw := src.(type) {
		case [16]byte:
			src = raw[:]
		case uuid.UUID:
			src = raw[:]
		}
		return scanner.Scan(src)
	}

	switch d := dest.(type) {
	case *any:
		*d = src
		return nil
	case *string:
		return assignString(d, src)
	case *[]byte:
		return assignBytes(d, src)
	case *bool:
		return assignBool(d, src)
	case *time.Time:
		return assignTime(d, src)
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dest)
	}
	switch dv.Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return assignInt(dv.Elem(), src)
	case reflect.Float32, reflect.Float64:
		return assignFloat(dv.Elem(), src)
	}

	return reflectAssign(dv.Elem(), src)
}

func assignString(d *string, src any) error {
	switch s := src.(type) {
	case string:
		*d = s
	case []byte:
		*d = string(s)
	case [16]byte:
		*d = uuid.UUID(s).String()
	case fmt.Stringer:
		*d = s.String()
	default:
		*d = fmt.Sprint(src)
	}
	return nil
}

func assignBytes(d *[]byte, src any) error {
	switch s := src.(type) {
	case []byte:
		*d = append([]byte(nil), s...)
	case string:
		*d = []byte(s)
	default:
		return fmt.Errorf("cannot convert %T to []byte", src)
	}
	return nil
}

func assignBool(d *bool, src any) error {
	switch s := src.(type) {
	case bool:
		*d = s
	case int64:
		*d = s != 0
	case string:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("cannot parse %q as bool", s)
		}
		*d = b
	default:
		return fmt.Errorf("cannot convert %T to bool", src)
	}
	return nil
}

func assignTime(d *time.Time, src any) error {
	switch s := src.(type) {
	case time.Time:
		*d = s
	case string:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			t, err = time.Parse("2006-01-02 15:04:05", s)
		}
		if err != nil {
			return fmt.Errorf("cannot parse %q as time.Time", s)
		}
		*d = t
	default:
		return fmt.Errorf("cannot convert %T to time.Time", src)
	}
	return nil
}

func assignInt(dv reflect.Value, src any) error {
	var n int64
	switch s := src.(type) {
	case int64:
		n = s
	case int:
		n = int64(s)
	case int32:
		n = int64(s)
	case int16:
		n = int64(s)
	case int8:
		n = int64(s)
	case float64:
		n = int64(s)
	case []byte:
		parsed, err := strconv.ParseInt(string(s), 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as %s", s, dv.Type())
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as %s", s, dv.Type())
		}
		n = parsed
	default:
		return reflectAssign(dv, src)
	}
	if dv.OverflowInt(n) {
		return fmt.Errorf("value %d overflows %s", n, dv.Type())
	}
	dv.SetInt(n)
	return nil
}

func assignFloat(dv reflect.Value, src any) error {
	var f float64
	switch s := src.(type) {
	case float64:
		f = s
	case float32:
		f = float64(s)
	case int64:
		f = float64(s)
	case int32:
		f = float64(s)
	case []byte:
		parsed, err := strconv.ParseFloat(string(s), 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as %s", s, dv.Type())
		}
		f = parsed
	default:
		return reflectAssign(dv, src)
	}
	if dv.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
		return fmt.Errorf("value %g overflows float32", f)
	}
	dv.SetFloat(f)
	return nil
}

// reflectAssign handles assignable and convertible values, and records
// handed over by pointer where the destination holds the record itself.
func reflectAssign(dv reflect.Value, src any) error {
	sv := reflect.ValueOf(src)
	for {
		if sv.Type().AssignableTo(dv.Type()) {
			dv.Set(sv)
			return nil
		}
		if sv.Kind() != reflect.Pointer || sv.IsNil() {
			break
		}
		sv = sv.Elem()
	}
	if dv.Kind() == reflect.Pointer {
		p := reflect.New(dv.Type().Elem())
		if err := convertAssign(p.Interface(), sv.Interface()); err != nil {
			return err
		}
		dv.Set(p)
		return nil
	}
	if sv.Type().ConvertibleTo(dv.Type()) && sv.Kind() != reflect.Slice {
		dv.Set(sv.Convert(dv.Type()))
		return nil
	}
	return fmt.Errorf("cannot convert %T to %s", src, dv.Type())
}

func setZero(dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dest)
	}
	dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
	return nil
}
