package codec

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/getsoapd/soapd/pkg/schema"
)

// Encode builds the XML element for v according to t. The root
// element is named name and, when namespace is non-empty, qualified
// with it through a tns prefix so that the field elements below stay
// unqualified. Fields are emitted in schema order; absent optional
// fields are omitted.
//
// Encode failures indicate a value that does not conform to its
// schema (a handler bug), so they return plain errors rather than
// decode faults; the dispatcher classifies them as server errors.
func Encode(v Value, t *schema.Type, name, namespace string) (*etree.Element, error) {
	root := etree.NewElement(name)
	if namespace != "" {
		root.Space = "tns"
		root.CreateAttr("xmlns:tns", namespace)
	}
	if err := encodeFields(root, v, t); err != nil {
		return nil, err
	}
	return root, nil
}

func encodeFields(parent *etree.Element, v Value, t *schema.Type) error {
	for _, f := range t.Fields {
		val, ok := v[f.Name]
		if !ok {
			if f.Optional {
				continue
			}
			return fmt.Errorf("field %q: required value is absent", f.Name)
		}

		child := parent.CreateElement(f.ElementName())
		if f.Kind == schema.Nested {
			nested, ok := val.(Value)
			if !ok {
				return fmt.Errorf("field %q: expected nested value, got %T", f.Name, val)
			}
			// A nested type with its own target namespace qualifies
			// its subtree; everything else stays unqualified.
			if f.Schema.Namespace != "" {
				child.CreateAttr("xmlns", f.Schema.Namespace)
			}
			if err := encodeFields(child, nested, f.Schema); err != nil {
				return err
			}
			continue
		}

		text, err := formatScalar(f, val)
		if err != nil {
			return err
		}
		child.SetText(text)
	}
	return nil
}

// formatScalar renders a scalar with fixed, locale-independent
// formatting: base-10 integers without grouping separators, floats
// with '.' as the decimal point, booleans as "true"/"false".
func formatScalar(f schema.Field, val any) (string, error) {
	switch f.Kind {
	case schema.String:
		s, ok := val.(string)
		if !ok {
			return "", typeErr(f, "string", val)
		}
		return s, nil
	case schema.Int32:
		n, ok := val.(int32)
		if !ok {
			return "", typeErr(f, "int32", val)
		}
		return strconv.FormatInt(int64(n), 10), nil
	case schema.Int64:
		n, ok := val.(int64)
		if !ok {
			return "", typeErr(f, "int64", val)
		}
		return strconv.FormatInt(n, 10), nil
	case schema.Float32:
		n, ok := val.(float32)
		if !ok {
			return "", typeErr(f, "float32", val)
		}
		return strconv.FormatFloat(float64(n), 'f', -1, 32), nil
	case schema.Float64:
		n, ok := val.(float64)
		if !ok {
			return "", typeErr(f, "float64", val)
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	case schema.Bool:
		b, ok := val.(bool)
		if !ok {
			return "", typeErr(f, "bool", val)
		}
		if b {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("field %q: unsupported kind %s", f.Name, f.Kind)
	}
}

func typeErr(f schema.Field, want string, val any) error {
	return fmt.Errorf("field %q: expected %s, got %T", f.Name, want, val)
}
