package joinery

import (
	sqlDriver "database/sql/driver"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Identifiable is implemented by records that expose their primary key.
// The returned value must be comparable.
type Identifiable interface {
	Identity() any
}

// KeyFunc returns the deduplication key of a record.
type KeyFunc func(record any) (any, error)

// DefaultKey uses Identifiable when implemented and the record value itself
// otherwise. Pointers are dereferenced before the comparability check so
// that two copies of the same row collapse to one entry.
func DefaultKey(record any) (any, error) {
	if id, ok := record.(Identifiable); ok {
		return comparableKey(id.Identity(), record)
	}
	rv := reflect.ValueOf(record)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return comparableKey(rv.Interface(), record)
}

func comparableKey(key, record any) (any, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: %T returned a nil identity", ErrIdentity, record)
	}
	// The dynamic value decides: a struct with an interface field holding a
	// slice has a comparable type but cannot be hashed.
	if reflect.ValueOf(key).Comparable() {
		return key, nil
	}
	if s, ok := key.(fmt.Stringer); ok {
		return fmt.Sprintf("%T:%s", key, s.String()), nil
	}
	return nil, fmt.Errorf("%w: identity of %T has non-comparable type %T", ErrIdentity, record, key)
}

// ID is a UUID primary key tagged with the type it identifies, so that a
// user id cannot be passed where a post id is expected. It is comparable and
// can be returned from Identity directly.
type ID[T any] struct {
	uuid uuid.UUID
}

func NewID[T any]() ID[T] {
	return ID[T]{uuid: uuid.New()}
}

func ParseID[T any](s string) (ID[T], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID[T]{}, fmt.Errorf("parse id: %w", err)
	}
	return ID[T]{uuid: u}, nil
}

func (id ID[T]) UUID() uuid.UUID { return id.uuid }
func (id ID[T]) String() string  { return id.uuid.String() }
func (id ID[T]) IsZero() bool    { return id.uuid == uuid.Nil }

func (id ID[T]) MarshalText() ([]byte, error) {
	return id.uuid.MarshalText()
}

func (id *ID[T]) UnmarshalText(text []byte) error {
	return id.uuid.UnmarshalText(text)
}

func (id *ID[T]) Scan(src any) error {
	return id.uuid.Scan(src)
}

func (id ID[T]) Value() (sqlDriver.Value, error) {
	return id.uuid.Value()
}
