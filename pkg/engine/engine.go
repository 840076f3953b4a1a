package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/getsoapd/soapd/pkg/codec"
	"github.com/getsoapd/soapd/pkg/envelope"
	"github.com/getsoapd/soapd/pkg/fault"
	"github.com/getsoapd/soapd/pkg/logging"
	"github.com/getsoapd/soapd/pkg/metrics"
	"github.com/getsoapd/soapd/pkg/registry"
	"github.com/getsoapd/soapd/pkg/wsdl"
)

// Engine dispatches raw SOAP envelopes to registered operation
// handlers. The registry must be fully populated before the first
// call to Handle; after that the engine holds only read-only state
// and is safe for concurrent use.
type Engine struct {
	reg    *registry.Registry
	logger *slog.Logger

	// wsdlData is generated once at construction; the generator is a
	// pure function of the registry, which no longer changes.
	wsdlData []byte
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over a fully populated registry. The WSDL
// document is generated here, so schema problems surface at startup
// rather than on the first contract request.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		reg:    reg,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	data, err := wsdl.Generate(reg.Service(), reg.Operations(), reg.Catalog())
	if err != nil {
		return nil, fmt.Errorf("generate WSDL: %w", err)
	}
	e.wsdlData = data
	return e, nil
}

// Handle processes one request: parse the envelope, resolve the
// operation, decode the request value, invoke the handler once, and
// encode the response. Any failure along the way is converted to a
// SOAP fault document, so the return value is always well-formed SOAP
// XML. The action hint, when non-empty, selects the operation only if
// it names a registered one; otherwise the body element's tag decides.
func (e *Engine) Handle(ctx context.Context, raw []byte, action string) []byte {
	start := time.Now()
	log := e.logger.With("request_id", uuid.NewString())

	req, err := envelope.Parse(raw)
	if err != nil {
		return e.respondFault(log, "", err, start)
	}

	op, err := e.resolve(action, req.Operation)
	if err != nil {
		return e.respondFault(log, req.Operation, err, start)
	}

	in, err := codec.Decode(req.Payload, op.Request)
	if err != nil {
		return e.respondFault(log, op.Name, err, start)
	}

	out, err := op.Handler(ctx, in)
	if err != nil {
		return e.respondFault(log, op.Name, asHandlerError(err), start)
	}

	respEl, err := codec.Encode(out, op.Response, op.Name+"Response", e.reg.Service().Namespace)
	if err != nil {
		wrapped := &fault.HandlerError{Err: fmt.Errorf("encode response: %w", err)}
		return e.respondFault(log, op.Name, wrapped, start)
	}

	resp := wrapBody(respEl)
	_ = metrics.RequestsTotal.Inc(op.Name, "ok")
	log.Debug("request handled",
		"operation", op.Name,
		"duration_ms", time.Since(start).Milliseconds())
	return resp
}

// WSDL returns the service contract document. The content is
// generated once and never changes.
func (e *Engine) WSDL() []byte {
	return e.wsdlData
}

// ContentType is the media type for both responses and the WSDL
// document.
const ContentType = "text/xml; charset=utf-8"

// resolve picks the operation for a request. An action hint wins only
// when it names a registered operation; an unrecognized hint falls
// back to the body tag rather than failing.
func (e *Engine) resolve(action, bodyTag string) (*registry.Operation, error) {
	if action != "" {
		if op, ok := e.reg.Lookup(action); ok {
			return op, nil
		}
	}
	if op, ok := e.reg.Lookup(bodyTag); ok {
		return op, nil
	}
	return nil, &fault.UnknownOperationError{Name: bodyTag}
}

// respondFault builds the fault document for err and records it.
func (e *Engine) respondFault(log *slog.Logger, operation string, err error, start time.Time) []byte {
	code := fault.Classify(err)
	_ = metrics.RequestsTotal.Inc(operation, "fault")
	_ = metrics.FaultsTotal.Inc(code)
	log.Warn("request failed",
		"operation", operation,
		"faultcode", code,
		"error", err,
		"duration_ms", time.Since(start).Milliseconds())
	return fault.Build(err)
}

// asHandlerError keeps an explicit *fault.HandlerError (it may carry
// detail XML) and wraps anything else.
func asHandlerError(err error) error {
	if he, ok := err.(*fault.HandlerError); ok {
		return he
	}
	return &fault.HandlerError{Err: err}
}

// wrapBody serializes el inside the standard response envelope.
func wrapBody(el *etree.Element) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := doc.CreateElement("soap:Envelope")
	env.CreateAttr("xmlns:soap", fault.Namespace)
	body := env.CreateElement("soap:Body")
	body.AddChild(el)
	out, err := doc.WriteToBytes()
	if err != nil {
		// Writing to a buffer cannot fail; keep the boundary contract
		// anyway.
		return fault.Build(&fault.HandlerError{Err: err})
	}
	return out
}
