package joinery

import "fmt"

// slot is the partial state of one entry of a level for one identity.
// Which fields are used depends on the entry: value/present for singular
// columns, items for list columns, groups for nested levels.
type slot struct {
	value   any
	present bool
	items   *orderedMap[any]
	groups  *orderedMap[*node]
}

// node is the accumulator of one identity at one level, one slot per entry.
type node struct {
	slots []slot
}

type accumulator struct {
	key KeyFunc
	row int
}

func (a *accumulator) identity(record any) (any, error) {
	k, err := a.key(record)
	if err != nil {
		return nil, err
	}
	return comparableKey(k, record)
}

// accumulate folds all rows into the top-level map. Rows are consumed once,
// in order; the first row that reaches an identity decides its position.
func accumulate(rows []Row, shape *Transformation, key KeyFunc) (*orderedMap[*node], error) {
	width := shape.Width()
	groups := newOrderedMap[*node]()
	a := &accumulator{key: key}
	for i, row := range rows {
		if len(row) < width {
			return nil, fmt.Errorf("%w: row %d has %d positions, shape reads %d",
				ErrInvalidShape, i, len(row), width)
		}
		a.row = i
		if err := a.level(shape, "", groups, row); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (a *accumulator) level(t *Transformation, path string, groups *orderedMap[*node], row Row) error {
	di, disc := t.discriminator()
	record, ok := row.at(disc.Index)
	if !ok {
		if t.Quantity.IsList() || t.Quantity == MaybeOne {
			return nil
		}
		return fmt.Errorf("%w: row %d: %s is null but identifies a %s level",
			ErrDeserialization, a.row, joinPath(path, t.Entries[di].Name), t.Quantity)
	}

	id, err := a.identity(record)
	if err != nil {
		return fmt.Errorf("row %d: %s: %w", a.row, joinPath(path, t.Entries[di].Name), err)
	}

	n, found := groups.get(id)
	if !found {
		n, err = a.seed(t, path, row)
		if err != nil {
			return err
		}
		groups.insert(id, n)
	}

	for i, e := range t.Entries {
		entryPath := joinPath(path, e.Name)
		s := &n.slots[i]
		if e.Nested != nil {
			if err := a.level(e.Nested, entryPath, s.groups, row); err != nil {
				return err
			}
			continue
		}
		if err := a.update(e.Column, entryPath, s, row); err != nil {
			return err
		}
	}
	return nil
}

// seed builds the state of an identity seen for the first time.
func (a *accumulator) seed(t *Transformation, path string, row Row) (*node, error) {
	n := &node{slots: make([]slot, len(t.Entries))}
	for i, e := range t.Entries {
		s := &n.slots[i]
		if e.Nested != nil {
			s.groups = newOrderedMap[*node]()
			continue
		}
		switch e.Column.Quantity {
		case One:
			v, ok := row.at(e.Column.Index)
			if !ok {
				return nil, fmt.Errorf("%w: row %d: `One` value %s is null",
					ErrDeserialization, a.row, joinPath(path, e.Name))
			}
			s.value, s.present = v, true
		case AssumeOne:
			s.value, s.present = row.at(e.Column.Index)
		case AtLeastZero, AtLeastOne:
			s.items = newOrderedMap[any]()
		}
	}
	return n, nil
}

func (a *accumulator) update(c *Column, path string, s *slot, row Row) error {
	v, ok := row.at(c.Index)
	switch c.Quantity {
	case MaybeOne:
		if ok {
			s.value, s.present = v, true
		}
	case AssumeOne:
		if ok && !s.present {
			s.value, s.present = v, true
		}
	case AtLeastZero, AtLeastOne:
		if !ok {
			return nil
		}
		return a.insertItem(path, s, v)
	}
	return nil
}

func (a *accumulator) insertItem(path string, s *slot, v any) error {
	id, err := a.identity(v)
	if err != nil {
		return fmt.Errorf("row %d: %s: %w", a.row, path, err)
	}
	s.items.insert(id, v)
	return nil
}
