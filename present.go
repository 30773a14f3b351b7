package joinery

import "fmt"

// present flattens the accumulated map of a level into the value its
// quantity calls for. Children are fully presented before their parent
// object is built, and the first error aborts the whole tree.
func present(t *Transformation, path string, groups *orderedMap[*node]) (any, error) {
	where := path
	if where == "" {
		where = t.Type
	}

	if t.Quantity.IsList() {
		out := make([]any, 0, groups.len())
		for _, n := range groups.list() {
			obj, err := build(t, path, n)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		}
		return out, nil
	}

	switch groups.len() {
	case 0:
		if t.Quantity == MaybeOne {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, where)
	case 1:
		return build(t, path, groups.list()[0])
	default:
		return nil, fmt.Errorf("%w: %w: %s is %s but %d identities were found",
			ErrInvalidShape, ErrAmbiguous, where, t.Quantity, groups.len())
	}
}

func build(t *Transformation, path string, n *node) (*Object, error) {
	obj := &Object{Type: t.Type, Fields: make([]Attr, len(t.Entries))}
	for i, e := range t.Entries {
		entryPath := joinPath(path, e.Name)
		s := &n.slots[i]

		var v any
		var err error
		if e.Nested != nil {
			v, err = present(e.Nested, entryPath, s.groups)
		} else {
			v, err = presentColumn(e.Column, entryPath, s)
		}
		if err != nil {
			return nil, err
		}
		obj.Fields[i] = Attr{Name: e.Name, Value: v}
	}
	return obj, nil
}

func presentColumn(c *Column, path string, s *slot) (any, error) {
	switch c.Quantity {
	case MaybeOne, One:
		return s.value, nil
	case AssumeOne:
		if !s.present {
			return nil, fmt.Errorf("%w: `AssumeOne` value is null: %s", ErrDeserialization, path)
		}
		return s.value, nil
	default:
		return s.items.list(), nil
	}
}
