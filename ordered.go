package joinery

// orderedMap keeps values in first-insertion order. Lookups go through the
// index map, iteration through the keys slice.
type orderedMap[V any] struct {
	keys   []any
	values map[any]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[any]V)}
}

func (m *orderedMap[V]) get(key any) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// insert stores v under key unless the key is already present. It returns
// the stored value either way.
func (m *orderedMap[V]) insert(key any, v V) V {
	if existing, ok := m.values[key]; ok {
		return existing
	}
	m.keys = append(m.keys, key)
	m.values[key] = v
	return v
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}

func (m *orderedMap[V]) list() []V {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[k]
	}
	return out
}
