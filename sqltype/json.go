package sqltype

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrJSON = errors.New("invalid JSON column")

// Json is a non-NULL json or jsonb column decoded into T. Scanning NULL is
// an error; use Nullable for nullable columns.
type Json[T any] struct {
	Data T
}

func (j *Json[T]) Scan(src any) error {
	if src == nil {
		return fmt.Errorf("%w: unexpected NULL", ErrJSON)
	}
	return decodeJSON(src, &j.Data)
}

func (j Json[T]) Value() (driver.Value, error) {
	return encodeJSON(j.Data)
}

// Nullable is a nullable json or jsonb column. A NULL column leaves Valid
// false; the JSON literal null decodes into a valid zero T.
type Nullable[T any] struct {
	Data  T
	Valid bool
}

func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Data: v, Valid: true}
}

func (n *Nullable[T]) Scan(src any) error {
	if src == nil {
		var zero T
		n.Data, n.Valid = zero, false
		return nil
	}
	if err := decodeJSON(src, &n.Data); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return encodeJSON(n.Data)
}

// decodeJSON accepts the text forms lib/pq returns and the decoded values
// pgx returns for json columns.
func decodeJSON(src, dst any) error {
	var raw []byte
	switch s := src.(type) {
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	case map[string]any, []any, float64, bool:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrJSON, err)
		}
		raw = b
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrJSON, src)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrJSON, err)
	}
	return nil
}

func encodeJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSON, err)
	}
	return b, nil
}
