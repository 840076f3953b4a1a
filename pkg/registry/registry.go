// Package registry holds the operation table for one service: the
// service descriptor, the request/response schema per operation, and
// the handler bound to it.
//
// The registry is populated by the binding layer before any request is
// served and is read-only afterwards, so the dispatcher and the WSDL
// generator can read it concurrently without locking.
package registry

import (
	"context"
	"fmt"
	"strconv"

	"github.com/getsoapd/soapd/pkg/codec"
	"github.com/getsoapd/soapd/pkg/schema"
)

// Service identifies the service: its namespace URI, WSDL service and
// port names, and the path the transport binds it at. Fixed at
// construction.
type Service struct {
	Namespace   string
	ServiceName string
	PortName    string
	BindPath    string
}

// Handler is the business function bound to an operation. The context
// is passed through from the transport untouched; the engine imposes
// no timeout of its own.
type Handler func(ctx context.Context, req codec.Value) (codec.Value, error)

// Operation binds a name to its message schemas and handler. The name
// matches the request body element's tag. Immutable once registered.
type Operation struct {
	Name     string
	Request  *schema.Type
	Response *schema.Type
	Handler  Handler
}

// Registry is the name -> operation lookup table plus the catalog of
// every type the registered operations reference.
type Registry struct {
	service Service
	ops     map[string]*Operation
	order   []*Operation
	catalog *schema.Catalog
}

// New returns an empty registry for the given service.
func New(service Service) *Registry {
	return &Registry{
		service: service,
		ops:     make(map[string]*Operation),
		catalog: schema.NewCatalog(),
	}
}

// Register adds an operation. Schemas are validated and entered into
// the catalog under <name>Request / <name>Response; nested types are
// cataloged under their element names. Registering an existing name
// is rejected with an error rather than overwriting: a duplicate is a
// wiring bug and silently replacing a handler would hide it.
func (r *Registry) Register(name string, req, resp *schema.Type, h Handler) error {
	if name == "" {
		return fmt.Errorf("register: empty operation name")
	}
	if h == nil {
		return fmt.Errorf("register %s: nil handler", name)
	}
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("register %s: operation already registered", name)
	}
	if err := r.catalogType(name+"Request", req); err != nil {
		return fmt.Errorf("register %s: request schema: %w", name, err)
	}
	if err := r.catalogType(name+"Response", resp); err != nil {
		return fmt.Errorf("register %s: response schema: %w", name, err)
	}

	op := &Operation{Name: name, Request: req, Response: resp, Handler: h}
	r.ops[name] = op
	r.order = append(r.order, op)
	return nil
}

// catalogType enters t and, recursively, its nested types into the
// catalog. A type already cataloged (shared between operations) keeps
// its first name. Name collisions between distinct nested types are
// resolved with a numeric suffix, deterministically for a fixed
// registration order.
func (r *Registry) catalogType(base string, t *schema.Type) error {
	if _, ok := r.catalog.NameOf(t); ok {
		return nil
	}
	name := base
	for i := 2; ; i++ {
		if _, taken := r.catalog.Get(name); !taken {
			break
		}
		name = base + strconv.Itoa(i)
	}
	if err := r.catalog.Add(name, t); err != nil {
		return err
	}
	for _, f := range t.Fields {
		if f.Kind != schema.Nested {
			continue
		}
		if err := r.catalogType(f.ElementName(), f.Schema); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Operations returns all operations in registration order.
func (r *Registry) Operations() []*Operation {
	out := make([]*Operation, len(r.order))
	copy(out, r.order)
	return out
}

// Service returns the service descriptor.
func (r *Registry) Service() Service {
	return r.service
}

// Catalog returns the catalog of registered types.
func (r *Registry) Catalog() *schema.Catalog {
	return r.catalog
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.order)
}
