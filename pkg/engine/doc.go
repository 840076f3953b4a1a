// Package engine is the SOAP dispatch core: it accepts a raw envelope,
// resolves the operation, decodes the body into a typed value, invokes
// the registered handler, and returns the response or fault document.
//
// # Basic Usage
//
// Build a registry, register operations, and construct the engine:
//
//	reg := registry.New(registry.Service{
//	    Namespace:   "http://example.com/calculator",
//	    ServiceName: "CalculatorService",
//	    PortName:    "CalculatorPort",
//	    BindPath:    "/soap/calculator",
//	})
//
//	addReq := &schema.Type{Fields: []schema.Field{
//	    {Name: "Operand1", Kind: schema.Int32},
//	    {Name: "Operand2", Kind: schema.Int32},
//	}}
//	addResp := &schema.Type{Fields: []schema.Field{
//	    {Name: "Result", Kind: schema.Int32},
//	}}
//
//	err := reg.Register("Add", addReq, addResp,
//	    func(ctx context.Context, req codec.Value) (codec.Value, error) {
//	        a := req["Operand1"].(int32)
//	        b := req["Operand2"].(int32)
//	        return codec.Value{"Result": a + b}, nil
//	    })
//
//	eng, err := engine.New(reg, engine.WithLogger(logger))
//
// A transport layer then feeds request bodies through Handle and
// serves eng.WSDL() for contract queries:
//
//	response := eng.Handle(ctx, body, soapActionHeader)
//
// # Error Handling
//
// Handle never returns malformed output: parse, resolution, and decode
// failures become soap:Client faults, handler and encode failures
// become soap:Server faults, each with the error message as the
// faultstring. Handlers can attach structured detail XML by returning
// a *fault.HandlerError with Detail set.
//
// # Concurrency
//
// The engine carries no per-request state and takes no locks; the
// registry and catalog are read-only after startup. One engine value
// serves any number of concurrent callers.
package engine
