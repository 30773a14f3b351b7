package joinery

import "fmt"

// Mapping ties the select list of a join query to the shape of its result.
// Sources are listed in select-list order; Shape indexes them by position.
type Mapping struct {
	Sources []Source
	Shape   *Transformation
	Key     KeyFunc
}

func (m Mapping) validate() error {
	if len(m.Sources) == 0 {
		return fmt.Errorf("%w: mapping has no sources", ErrInvalidShape)
	}
	for i, src := range m.Sources {
		if src.Columns <= 0 {
			return fmt.Errorf("%w: source %d (%s) reads no columns", ErrInvalidShape, i, src.Name)
		}
		if src.Scan == nil {
			return fmt.Errorf("%w: source %d (%s) has no scan function", ErrInvalidShape, i, src.Name)
		}
	}
	return m.Shape.Validate(len(m.Sources))
}

func (m Mapping) columns() int {
	n := 0
	for _, src := range m.Sources {
		n += src.Columns
	}
	return n
}

// rows turns raw result rows into joined rows.
func (m Mapping) rows(raw [][]any) ([]Row, error) {
	want := m.columns()
	out := make([]Row, 0, len(raw))
	for i, values := range raw {
		if len(values) != want {
			return nil, fmt.Errorf("%w: row %d has %d columns, sources read %d",
				ErrInvalidShape, i, len(values), want)
		}
		row, err := splitRow(m.Sources, values)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, row)
	}
	return out, nil
}
