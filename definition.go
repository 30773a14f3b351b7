package joinery

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is a join described in YAML:
//
//	sources:
//	  - name: users
//	    key: id
//	    columns: [id, name]
//	  - name: posts
//	    key: id
//	    columns: [id, user_id, title]
//	shape:
//	  quantity: Vec
//	  type: UserWithPosts
//	  entries:
//	    - name: user
//	      quantity: One
//	      source: users
//	    - name: posts
//	      quantity: Vec0
//	      type: Post
//	      entries:
//	        - name: post
//	          quantity: One
//	          source: posts
//
// Every source becomes a RecordSource; columns are selected in the order the
// sources are listed.
type Definition struct {
	Sources []SourceDefinition `yaml:"sources"`
	Shape   ShapeDefinition    `yaml:"shape"`
}

type SourceDefinition struct {
	Name    string     `yaml:"name"`
	Key     KeyColumns `yaml:"key,omitempty"`
	Columns []string   `yaml:"columns"`
}

// ShapeDefinition is either a nested level (Entries set) or a column entry
// referencing a source by name or by index.
type ShapeDefinition struct {
	Name     string            `yaml:"name,omitempty"`
	Quantity Quantity          `yaml:"quantity"`
	Type     string            `yaml:"type,omitempty"`
	Source   string            `yaml:"source,omitempty"`
	Index    *int              `yaml:"index,omitempty"`
	Entries  []ShapeDefinition `yaml:"entries,omitempty"`
}

// KeyColumns accepts either a single column name or a list of them.
type KeyColumns []string

func (k *KeyColumns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*k = nil
			return nil
		}
		*k = KeyColumns{node.Value}
		return nil
	case yaml.SequenceNode:
		var cols []string
		if err := node.Decode(&cols); err != nil {
			return err
		}
		*k = cols
		return nil
	default:
		return fmt.Errorf("key must be a column or a list of columns (line %d)", node.Line)
	}
}

func (k KeyColumns) MarshalYAML() (any, error) {
	if len(k) == 1 {
		return k[0], nil
	}
	return []string(k), nil
}

// LoadDefinition reads and parses a definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return ParseDefinition(data)
}

func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse definition YAML: %w", err)
	}
	applyDefaults(&d)
	return &d, nil
}

func applyDefaults(d *Definition) {
	for i := range d.Sources {
		s := &d.Sources[i]
		if len(s.Key) == 0 && len(s.Columns) > 0 {
			s.Key = KeyColumns{s.Columns[0]}
		}
	}
}

// Marshal serializes the definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Mapping compiles the definition and validates the result.
func (d *Definition) Mapping() (Mapping, error) {
	index := make(map[string]int, len(d.Sources))
	sources := make([]Source, len(d.Sources))
	for i, s := range d.Sources {
		if s.Name == "" {
			return Mapping{}, fmt.Errorf("%w: source %d has no name", ErrInvalidShape, i)
		}
		if _, dup := index[s.Name]; dup {
			return Mapping{}, fmt.Errorf("%w: duplicate source %q", ErrInvalidShape, s.Name)
		}
		index[s.Name] = i
		sources[i] = RecordSource(s.Name, s.Key, s.Columns...)
	}

	shape, err := d.Shape.compile("", index)
	if err != nil {
		return Mapping{}, err
	}
	m := Mapping{Sources: sources, Shape: shape}
	if err := m.validate(); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

func (s ShapeDefinition) compile(path string, index map[string]int) (*Transformation, error) {
	t := &Transformation{Quantity: s.Quantity, Type: s.Type, Entries: make([]Entry, 0, len(s.Entries))}
	if t.Type == "" {
		t.Type = s.Name
	}
	for _, e := range s.Entries {
		entryPath := joinPath(path, e.Name)
		if len(e.Entries) > 0 {
			nested, err := e.compile(entryPath, index)
			if err != nil {
				return nil, err
			}
			t.Entries = append(t.Entries, Group(e.Name, nested))
			continue
		}
		i, err := e.position(entryPath, index)
		if err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, Field(e.Name, e.Quantity, i))
	}
	return t, nil
}

func (s ShapeDefinition) position(path string, index map[string]int) (int, error) {
	switch {
	case s.Source != "" && s.Index != nil:
		return 0, fmt.Errorf("%w: %s: set either source or index, not both", ErrInvalidShape, path)
	case s.Source != "":
		i, ok := index[s.Source]
		if !ok {
			return 0, fmt.Errorf("%w: %s: unknown source %q", ErrInvalidShape, path, s.Source)
		}
		return i, nil
	case s.Index != nil:
		return *s.Index, nil
	}
	return 0, fmt.Errorf("%w: %s: column entry needs a source or an index", ErrInvalidShape, path)
}
