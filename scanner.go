package joinery

import "fmt"

// Scanner is the part of *sql.Row a Source needs: the columns of one
// sub-record, in order.
type Scanner interface {
	Scan(dest ...any) error
}

type valuesScanner struct {
	source string
	values []any
}

func (s *valuesScanner) Scan(dest ...any) error {
	if len(dest) != len(s.values) {
		return fmt.Errorf("scan %s: expected %d destinations, got %d", s.source, len(s.values), len(dest))
	}
	for i, src := range s.values {
		if err := convertAssign(dest[i], src); err != nil {
			return fmt.Errorf("scan %s column %d: %w", s.source, i, err)
		}
	}
	return nil
}

// splitRow cuts one raw result row into positions, one per source. A
// segment whose columns are all NULL is an absent sub-record.
func splitRow(sources []Source, raw []any) (Row, error) {
	row := make(Row, len(sources))
	offset := 0
	for i, src := range sources {
		segment := raw[offset : offset+src.Columns]
		offset += src.Columns
		if allNull(segment) {
			continue
		}
		record, err := src.Scan(&valuesScanner{source: src.Name, values: segment})
		if err != nil {
			return nil, err
		}
		row[i] = record
	}
	return row, nil
}

func allNull(values []any) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}
