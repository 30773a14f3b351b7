package joinery

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Quantity is the declared cardinality of a reconstructed field.
type Quantity int

const (
	_ Quantity = iota // zero value is not a valid quantity

	MaybeOne
	One
	AssumeOne
	AtLeastZero
	AtLeastOne
)

var quantityNames = map[Quantity]string{
	MaybeOne:    "Option",
	One:         "One",
	AssumeOne:   "AssumeOne",
	AtLeastZero: "Vec0",
	AtLeastOne:  "Vec",
}

// Quantities lists every valid quantity in declaration order.
func Quantities() []Quantity {
	return []Quantity{MaybeOne, One, AssumeOne, AtLeastZero, AtLeastOne}
}

// ParseQuantity parses one of the spellings Option, One, AssumeOne, Vec0, Vec.
func ParseQuantity(s string) (Quantity, error) {
	for _, q := range Quantities() {
		if quantityNames[q] == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown quantity `%s`: expected `Option`, `One`, `AssumeOne`, `Vec0` or `Vec`",
		ErrInvalidShape, s)
}

func (q Quantity) String() string {
	if name, ok := quantityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// Valid reports whether q is one of the declared quantities.
func (q Quantity) Valid() bool {
	_, ok := quantityNames[q]
	return ok
}

// IsList reports whether q presents as a list (Vec0 and Vec).
func (q Quantity) IsList() bool {
	return q == AtLeastZero || q == AtLeastOne
}

// IsSingular reports whether q presents as a single value, possibly absent.
func (q Quantity) IsSingular() bool {
	return q == MaybeOne || q == One || q == AssumeOne
}

func (q Quantity) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: invalid quantity %d", ErrInvalidShape, int(q))
	}
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantity(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (q Quantity) MarshalYAML() (any, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: invalid quantity %d", ErrInvalidShape, int(q))
	}
	return q.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Only scalar spellings are accepted.
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: quantity must be a scalar, got %v at line %d", ErrInvalidShape, node.Kind, node.Line)
	}
	return q.UnmarshalText([]byte(node.Value))
}
