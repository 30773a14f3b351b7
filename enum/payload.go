package enum

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shuldan/joinery/sqltype"
)

// ErrPayload reports a payload column or variant data that does not decode.
var ErrPayload = sqltype.ErrJSON

// Payload is a JSON(B) column holding the data of a variant. A NULL column
// leaves Valid false.
type Payload[P any] = sqltype.Nullable[P]

// Tagged decodes variants whose data lives in a separate column. Variants
// registered without a factory carry no data and store an empty object.
type Tagged[E comparable] struct {
	codec     *Codec[E]
	factories map[E]func() any
}

func NewTagged[E comparable](codec *Codec[E]) *Tagged[E] {
	return &Tagged[E]{codec: codec, factories: make(map[E]func() any)}
}

// Register sets the constructor of the payload of variant. factory must
// return a pointer for json.Unmarshal to fill.
func (t *Tagged[E]) Register(variant E, factory func() any) *Tagged[E] {
	t.factories[variant] = factory
	return t
}

var emptyObject = []byte("{}")

// Decode reads the discriminator label and the payload column.
func (t *Tagged[E]) Decode(label, data []byte) (E, any, error) {
	v, err := t.codec.Decode(label)
	if err != nil {
		return v, nil, err
	}
	factory, ok := t.factories[v]
	if !ok {
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && !bytes.Equal(trimmed, emptyObject) && !bytes.Equal(trimmed, []byte("null")) {
			return v, nil, fmt.Errorf("%w: variant %q carries no data", ErrPayload, label)
		}
		return v, nil, nil
	}
	payload := factory()
	if err := json.Unmarshal(data, payload); err != nil {
		return v, nil, fmt.Errorf("%w: variant %q: %w", ErrPayload, label, err)
	}
	return v, payload, nil
}

// Encode returns the label and JSON data to store for variant.
func (t *Tagged[E]) Encode(variant E, payload any) (string, []byte, error) {
	label, err := t.codec.Encode(variant)
	if err != nil {
		return "", nil, err
	}
	if _, ok := t.factories[variant]; !ok {
		if payload != nil {
			return "", nil, fmt.Errorf("%w: variant %q carries no data", ErrPayload, label)
		}
		return label, emptyObject, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: variant %q: %w", ErrPayload, label, err)
	}
	return label, data, nil
}
