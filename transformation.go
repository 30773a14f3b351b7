package joinery

import (
	"fmt"
	"strings"
)

// Transformation describes one level of the nested output: the quantity the
// level is presented with, the name of the type it builds and its entries.
type Transformation struct {
	Quantity Quantity
	Type     string
	Entries  []Entry
}

// Entry is a named field of a Transformation. Exactly one of Column and
// Nested is set.
type Entry struct {
	Name   string
	Column *Column
	Nested *Transformation
}

// Column reads one position of the row.
type Column struct {
	Quantity Quantity
	Index    int
}

// Nest builds a level of quantity q. Its first column entry is the
// discriminator that identifies each item.
func Nest(q Quantity, typ string, entries ...Entry) *Transformation {
	return &Transformation{Quantity: q, Type: typ, Entries: entries}
}

// Field binds the source at index to name with quantity q.
func Field(name string, q Quantity, index int) Entry {
	return Entry{Name: name, Column: &Column{Quantity: q, Index: index}}
}

// Group nests a child level under name.
func Group(name string, t *Transformation) Entry {
	return Entry{Name: name, Nested: t}
}

// Validate checks the shape recursively. A width of zero or less disables
// the row-width check.
func (t *Transformation) Validate(width int) error {
	if t == nil {
		return fmt.Errorf("%w: nil transformation", ErrInvalidShape)
	}
	return t.validate("", width)
}

func (t *Transformation) validate(path string, width int) error {
	where := path
	if where == "" {
		where = t.Type
	}
	if !t.Quantity.Valid() {
		return fmt.Errorf("%w: %s: invalid quantity %d", ErrInvalidShape, where, int(t.Quantity))
	}
	if len(t.Entries) == 0 {
		return fmt.Errorf("%w: %s: no entries", ErrInvalidShape, where)
	}

	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.Name == "" {
			return fmt.Errorf("%w: %s: entry without a name", ErrInvalidShape, where)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: %s: duplicate entry %q", ErrInvalidShape, where, e.Name)
		}
		seen[e.Name] = true

		entryPath := joinPath(path, e.Name)
		switch {
		case e.Column != nil && e.Nested != nil:
			return fmt.Errorf("%w: %s: entry is both a column and a nested level", ErrInvalidShape, entryPath)
		case e.Column != nil:
			if err := e.Column.validate(entryPath, width); err != nil {
				return err
			}
		case e.Nested != nil:
			if err := e.Nested.validate(entryPath, width); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s: entry is neither a column nor a nested level", ErrInvalidShape, entryPath)
		}
	}

	_, disc := t.discriminator()
	if disc == nil {
		return fmt.Errorf("%w: %s: no column entry to identify the level", ErrInvalidShape, where)
	}
	if !disc.Quantity.IsSingular() {
		return fmt.Errorf("%w: %s: first column entry must be singular, got %s",
			ErrInvalidShape, where, disc.Quantity)
	}
	return nil
}

func (c *Column) validate(path string, width int) error {
	if !c.Quantity.Valid() {
		return fmt.Errorf("%w: %s: invalid quantity %d", ErrInvalidShape, path, int(c.Quantity))
	}
	if c.Index < 0 {
		return fmt.Errorf("%w: %s: negative row index %d", ErrInvalidShape, path, c.Index)
	}
	if width > 0 && c.Index >= width {
		return fmt.Errorf("%w: %s: row index %d out of range for %d positions", ErrInvalidShape, path, c.Index, width)
	}
	return nil
}

// discriminator returns the first column entry and its position in Entries.
// Its value is the identity key of the level.
func (t *Transformation) discriminator() (int, *Column) {
	for i, e := range t.Entries {
		if e.Column != nil {
			return i, e.Column
		}
	}
	return -1, nil
}

// Width is the minimum number of row positions the shape reads.
func (t *Transformation) Width() int {
	width := 0
	for _, e := range t.Entries {
		switch {
		case e.Column != nil:
			width = max(width, e.Column.Index+1)
		case e.Nested != nil:
			width = max(width, e.Nested.Width())
		}
	}
	return width
}

// String renders the shape in template notation, e.g.
// Vec<UserWithPosts{user: One<0>, posts: Vec0<Post{post: One<1>}>}>.
func (t *Transformation) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Transformation) write(b *strings.Builder) {
	b.WriteString(t.Quantity.String())
	b.WriteByte('<')
	b.WriteString(t.Type)
	b.WriteByte('{')
	for i, e := range t.Entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Name)
		b.WriteString(": ")
		switch {
		case e.Column != nil:
			fmt.Fprintf(b, "%s<%d>", e.Column.Quantity, e.Column.Index)
		case e.Nested != nil:
			e.Nested.write(b)
		default:
			b.WriteByte('?')
		}
	}
	b.WriteString("}>")
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
