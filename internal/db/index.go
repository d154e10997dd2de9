package db

import (
	"errors"
	"fmt"
)

// FieldKind is the attribute type of an indexed JSON path.
type FieldKind int

const (
	// FieldTag is an exact-match TAG attribute. Values are case-sensitive.
	FieldTag FieldKind = iota + 1
	// FieldNumeric is a NUMERIC attribute used for range filters and sorting.
	FieldNumeric
	// FieldVector is a FLOAT32 HNSW attribute compared by COSINE distance.
	FieldVector
)

func (k FieldKind) String() string {
	switch k {
	case FieldTag:
		return "TAG"
	case FieldNumeric:
		return "NUMERIC"
	case FieldVector:
		return "VECTOR"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// HNSW configures a vector attribute.
// Zero M or EFConstruction leaves the server default in place.
type HNSW struct {
	Dim            int
	M              int
	EFConstruction int
}

// IndexField maps a JSONPath to the attribute name queries use.
type IndexField struct {
	Path  string
	Alias string
	Kind  FieldKind
	HNSW  HNSW
}

// IndexDefinition describes an FT index over RedisJSON documents whose keys
// share one prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (d *IndexDefinition) Validate() error {
	switch {
	case d.Name == "":
		return errors.New("index name is required")
	case !IsValidIdentifier(d.Name):
		return fmt.Errorf("index name %q contains invalid characters", d.Name)
	case d.Prefix == "":
		return fmt.Errorf("index %s: key prefix is required", d.Name)
	case len(d.Fields) == 0:
		return fmt.Errorf("index %s: at least one field is required", d.Name)
	}

	aliases := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		if err := d.Fields[i].validate(); err != nil {
			return fmt.Errorf("index %s: %w", d.Name, err)
		}
		a := d.Fields[i].Alias
		if _, dup := aliases[a]; dup {
			return fmt.Errorf("index %s: duplicate attribute %q", d.Name, a)
		}
		aliases[a] = struct{}{}
	}
	return nil
}

func (f *IndexField) validate() error {
	if f.Path == "" {
		return errors.New("field path is required")
	}
	if f.Alias == "" {
		return fmt.Errorf("field %s requires an alias", f.Path)
	}
	switch f.Kind {
	case FieldTag, FieldNumeric:
		return nil
	case FieldVector:
		if f.HNSW.Dim <= 0 {
			return fmt.Errorf("vector field %s requires a positive dimension", f.Path)
		}
		return nil
	default:
		return fmt.Errorf("field %s: unknown kind %s", f.Path, f.Kind)
	}
}

// VectorField returns the vector attribute of the definition, if any.
func (d *IndexDefinition) VectorField() (IndexField, bool) {
	for _, f := range d.Fields {
		if f.Kind == FieldVector {
			return f, true
		}
	}
	return IndexField{}, false
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}
