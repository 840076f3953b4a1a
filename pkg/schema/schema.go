package schema

import (
	"errors"
	"fmt"
)

// Kind identifies the wire type of a field.
type Kind int

// Field kinds. Nested fields carry their own Type.
const (
	String Kind = iota
	Int32
	Int64
	Float32
	Float64
	Bool
	Nested
)

// String returns the kind name as used in diagnostics.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case Nested:
		return "nested"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one field of a message type.
type Field struct {
	// Name is the logical field name, used as the key in decoded values.
	Name string

	// XMLName is the XML element name. Defaults to Name when empty.
	XMLName string

	// Kind is the wire type.
	Kind Kind

	// Optional marks the field as omittable. A missing required field
	// is a decode error.
	Optional bool

	// Schema is the nested message type. Required when Kind is Nested.
	Schema *Type
}

// ElementName returns the XML element name for the field.
func (f Field) ElementName() string {
	if f.XMLName != "" {
		return f.XMLName
	}
	return f.Name
}

// Type is an ordered sequence of fields describing a message payload.
type Type struct {
	Fields []Field

	// Namespace is the optional target namespace for the type's elements.
	Namespace string
}

// Validate checks the structural invariants: every field is named,
// element names are unique within the type, and nested fields carry a
// schema. Nested types are validated recursively.
func (t *Type) Validate() error {
	if t == nil {
		return errors.New("nil type schema")
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for i, f := range t.Fields {
		if f.Name == "" {
			return fmt.Errorf("field %d: missing name", i)
		}
		el := f.ElementName()
		if _, dup := seen[el]; dup {
			return fmt.Errorf("field %q: duplicate element name <%s>", f.Name, el)
		}
		seen[el] = struct{}{}
		if f.Kind == Nested {
			if f.Schema == nil {
				return fmt.Errorf("field %q: nested kind without schema", f.Name)
			}
			if err := f.Schema.Validate(); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		} else if f.Schema != nil {
			return fmt.Errorf("field %q: schema set on non-nested kind %s", f.Name, f.Kind)
		}
	}
	return nil
}
