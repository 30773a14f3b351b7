package joinery

import (
	"fmt"
	"reflect"
	"strings"
)

// Bind copies a reconstructed value into dest, which must be a non-nil
// pointer.
//
// An *Object binds to a struct (fields matched by `join:"name"` tag, then by
// case-insensitive field name), a map with string keys, or an interface.
// A list binds to a slice; absent values leave the zero value. Records
// found in the rows are assigned with the same conversion rules used when
// scanning columns.
func Bind(dest any, v any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("%w: destination must be a non-nil pointer, got %T", ErrBind, dest)
	}
	return bindValue(dv.Elem(), v, "")
}

func bindValue(dv reflect.Value, v any, path string) error {
	if v == nil {
		dv.Set(reflect.Zero(dv.Type()))
		return nil
	}
	if dv.Kind() == reflect.Interface && reflect.TypeOf(v).AssignableTo(dv.Type()) {
		dv.Set(reflect.ValueOf(v))
		return nil
	}

	switch src := v.(type) {
	case *Object:
		return bindObject(dv, src, path)
	case []any:
		return bindList(dv, src, path)
	}

	if err := convertAssign(dv.Addr().Interface(), v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBind, describe(path), err)
	}
	return nil
}

func bindObject(dv reflect.Value, obj *Object, path string) error {
	switch dv.Kind() {
	case reflect.Pointer:
		p := reflect.New(dv.Type().Elem())
		if err := bindObject(p.Elem(), obj, path); err != nil {
			return err
		}
		dv.Set(p)
		return nil

	case reflect.Map:
		if dv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: %s: map key must be a string, got %s", ErrBind, describe(path), dv.Type())
		}
		m := reflect.MakeMapWithSize(dv.Type(), len(obj.Fields))
		for _, f := range obj.Fields {
			elem := reflect.New(dv.Type().Elem()).Elem()
			if err := bindValue(elem, f.Value, joinPath(path, f.Name)); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(f.Name).Convert(dv.Type().Key()), elem)
		}
		dv.Set(m)
		return nil

	case reflect.Struct:
		for _, f := range obj.Fields {
			idx, ok := structField(dv.Type(), f.Name)
			if !ok {
				return fmt.Errorf("%w: %s: %s has no field for %q", ErrBind, describe(path), dv.Type(), f.Name)
			}
			if err := bindValue(dv.Field(idx), f.Value, joinPath(path, f.Name)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s: cannot bind %s into %s", ErrBind, describe(path), obj.Type, dv.Type())
}

func bindList(dv reflect.Value, list []any, path string) error {
	switch dv.Kind() {
	case reflect.Pointer:
		p := reflect.New(dv.Type().Elem())
		if err := bindList(p.Elem(), list, path); err != nil {
			return err
		}
		dv.Set(p)
		return nil

	case reflect.Slice:
		s := reflect.MakeSlice(dv.Type(), len(list), len(list))
		for i, item := range list {
			if err := bindValue(s.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		dv.Set(s)
		return nil
	}
	return fmt.Errorf("%w: %s: cannot bind a list into %s", ErrBind, describe(path), dv.Type())
}

// structField finds the exported field for name: an exact `join` tag match
// wins over a case-insensitive name match.
func structField(t reflect.Type, name string) (int, bool) {
	fold := -1
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("join")
		if tag == "-" {
			continue
		}
		if tag == name {
			return i, true
		}
		if tag == "" && fold == -1 && strings.EqualFold(sf.Name, name) {
			fold = i
		}
	}
	return fold, fold != -1
}

func describe(path string) string {
	if path == "" {
		return "value"
	}
	return path
}
