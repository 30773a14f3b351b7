package joinery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is one reconstructed aggregate. Fields keep the declaration order
// of the shape.
type Object struct {
	Type   string
	Fields []Attr
}

// Attr is one named value of an Object.
type Attr struct {
	Name  string
	Value any
}

func (o *Object) Get(name string) (any, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields as a JSON object in declaration order.
func (o *Object) MarshalJSON() ([]byte, error) {
	names := make([]string, len(o.Fields))
	values := make([]any, len(o.Fields))
	for i, f := range o.Fields {
		names[i], values[i] = f.Name, f.Value
	}
	return orderedJSON(names, values)
}

func orderedJSON(names []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(values[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
