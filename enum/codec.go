package enum

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

var ErrUnknownVariant = errors.New("unknown enum variant")

// Variant declares one enum value. Name is the Go-side name the rename rule
// is applied to; Rename, when set, is used verbatim instead.
type Variant[E comparable] struct {
	Value  E
	Name   string
	Rename string
}

// Codec is a fixed two-way table between values and labels. It is safe for
// concurrent use once built.
type Codec[E comparable] struct {
	labels map[E]string
	values map[string]E
	order  []E
}

func NewCodec[E comparable](rule RenameRule, variants ...Variant[E]) (*Codec[E], error) {
	c := &Codec[E]{
		labels: make(map[E]string, len(variants)),
		values: make(map[string]E, len(variants)),
	}
	for _, v := range variants {
		label := v.Rename
		if label == "" {
			name := v.Name
			if name == "" {
				name = fmt.Sprint(v.Value)
			}
			label = rule.Apply(name)
		}
		if _, dup := c.labels[v.Value]; dup {
			return nil, fmt.Errorf("duplicate enum value %v", v.Value)
		}
		if _, dup := c.values[label]; dup {
			return nil, fmt.Errorf("duplicate enum label %q", label)
		}
		c.labels[v.Value] = label
		c.values[label] = v.Value
		c.order = append(c.order, v.Value)
	}
	return c, nil
}

// MustCodec is NewCodec for package-level declarations.
func MustCodec[E comparable](rule RenameRule, variants ...Variant[E]) *Codec[E] {
	c, err := NewCodec(rule, variants...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec[E]) Encode(v E) (string, error) {
	label, ok := c.labels[v]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownVariant, v)
	}
	return label, nil
}

func (c *Codec[E]) Decode(b []byte) (E, error) {
	v, ok := c.values[string(b)]
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: %q", ErrUnknownVariant, b)
	}
	return v, nil
}

// Labels returns the labels in declaration order.
func (c *Codec[E]) Labels() []string {
	out := make([]string, len(c.order))
	for i, v := range c.order {
		out[i] = c.labels[v]
	}
	return out
}

// Scanner reads a label column into dst.
func (c *Codec[E]) Scanner(dst *E) sql.Scanner {
	return &column[E]{codec: c, dst: dst}
}

// Valuer writes v as its label.
func (c *Codec[E]) Valuer(v E) driver.Valuer {
	return &column[E]{codec: c, dst: &v}
}

type column[E comparable] struct {
	codec *Codec[E]
	dst   *E
}

func (col *column[E]) Scan(src any) error {
	var raw []byte
	switch s := src.(type) {
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	case nil:
		return fmt.Errorf("%w: NULL", ErrUnknownVariant)
	default:
		return fmt.Errorf("cannot scan %T into an enum", src)
	}
	v, err := col.codec.Decode(raw)
	if err != nil {
		return err
	}
	*col.dst = v
	return nil
}

func (col *column[E]) Value() (driver.Value, error) {
	return col.codec.Encode(*col.dst)
}
