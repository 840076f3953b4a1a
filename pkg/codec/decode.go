package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/getsoapd/soapd/pkg/fault"
	"github.com/getsoapd/soapd/pkg/schema"
)

// Decode reads the children of el according to t. Children are matched
// by XML element name with any namespace prefix stripped; children not
// named in the schema are ignored. A missing required field, or text
// that does not parse as the field's kind, yields a *fault.DecodeError
// naming the field.
func Decode(el *etree.Element, t *schema.Type) (Value, error) {
	v := make(Value, len(t.Fields))
	for _, f := range t.Fields {
		child := childByLocalName(el, f.ElementName())
		if child == nil {
			if f.Optional {
				continue
			}
			return nil, &fault.DecodeError{
				Field:  f.Name,
				Reason: fmt.Sprintf("required element <%s> is missing", f.ElementName()),
			}
		}

		if f.Kind == schema.Nested {
			nested, err := Decode(child, f.Schema)
			if err != nil {
				return nil, err
			}
			v[f.Name] = nested
			continue
		}

		scalar, err := parseScalar(f, strings.TrimSpace(child.Text()))
		if err != nil {
			return nil, err
		}
		v[f.Name] = scalar
	}
	return v, nil
}

// parseScalar converts element text to the field's kind. Booleans
// accept "true"/"false"/"1"/"0"; numbers use base-10 with '.' as the
// decimal point, no locale variants.
func parseScalar(f schema.Field, text string) (any, error) {
	switch f.Kind {
	case schema.String:
		return text, nil
	case schema.Int32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, decodeErr(f, text)
		}
		return int32(n), nil
	case schema.Int64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, decodeErr(f, text)
		}
		return n, nil
	case schema.Float32:
		n, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, decodeErr(f, text)
		}
		return float32(n), nil
	case schema.Float64:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, decodeErr(f, text)
		}
		return n, nil
	case schema.Bool:
		switch text {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		default:
			return nil, decodeErr(f, text)
		}
	default:
		return nil, &fault.DecodeError{
			Field:  f.Name,
			Reason: fmt.Sprintf("unsupported kind %s", f.Kind),
		}
	}
}

func decodeErr(f schema.Field, text string) error {
	return &fault.DecodeError{
		Field:  f.Name,
		Reason: fmt.Sprintf("cannot parse %q as %s", text, f.Kind),
	}
}

// childByLocalName returns the first child element with the given
// local name, ignoring any namespace prefix.
func childByLocalName(parent *etree.Element, localName string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == localName {
			return child
		}
	}
	return nil
}
