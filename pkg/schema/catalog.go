package schema

import "fmt"

// Catalog is the set of named types referenced by a service. It is
// built once during registration and read-only afterwards, so
// concurrent readers need no locking.
//
// Iteration order is insertion order; the WSDL generator depends on
// this for byte-stable output.
type Catalog struct {
	names []string
	types map[string]*Type
	byPtr map[*Type]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[string]*Type),
		byPtr: make(map[*Type]string),
	}
}

// Add registers t under name. The type is validated on entry. Adding a
// name twice, or a nil type, is an error. Adding the same *Type under
// a second name is a no-op; the first name wins.
func (c *Catalog) Add(name string, t *Type) error {
	if name == "" {
		return fmt.Errorf("catalog: empty type name")
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("catalog: type %q: %w", name, err)
	}
	if _, ok := c.byPtr[t]; ok {
		return nil
	}
	if _, ok := c.types[name]; ok {
		return fmt.Errorf("catalog: duplicate type name %q", name)
	}
	c.names = append(c.names, name)
	c.types[name] = t
	c.byPtr[t] = name
	return nil
}

// Get returns the type registered under name.
func (c *Catalog) Get(name string) (*Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// NameOf returns the name a type was first registered under.
func (c *Catalog) NameOf(t *Type) (string, bool) {
	name, ok := c.byPtr[t]
	return name, ok
}

// Names returns the registered type names in insertion order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	return len(c.names)
}
