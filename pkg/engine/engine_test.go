package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/getsoapd/soapd/pkg/codec"
	"github.com/getsoapd/soapd/pkg/fault"
	"github.com/getsoapd/soapd/pkg/registry"
	"github.com/getsoapd/soapd/pkg/schema"
)

func calculatorEngine(t *testing.T) *Engine {
	t.Helper()
	reg := registry.New(registry.Service{
		Namespace:   "http://example.com/calculator",
		ServiceName: "CalculatorService",
		PortName:    "CalculatorPort",
		BindPath:    "/soap/calculator",
	})

	addReq := &schema.Type{Fields: []schema.Field{
		{Name: "Operand1", Kind: schema.Int32},
		{Name: "Operand2", Kind: schema.Int32},
	}}
	addResp := &schema.Type{Fields: []schema.Field{
		{Name: "Result", Kind: schema.Int32},
	}}
	err := reg.Register("Add", addReq, addResp,
		func(ctx context.Context, req codec.Value) (codec.Value, error) {
			a := req["Operand1"].(int32)
			b := req["Operand2"].(int32)
			return codec.Value{"Result": a + b}, nil
		})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	divReq := &schema.Type{Fields: []schema.Field{
		{Name: "Dividend", Kind: schema.Int32},
		{Name: "Divisor", Kind: schema.Int32},
	}}
	divResp := &schema.Type{Fields: []schema.Field{
		{Name: "Quotient", Kind: schema.Int32},
	}}
	err = reg.Register("Divide", divReq, divResp,
		func(ctx context.Context, req codec.Value) (codec.Value, error) {
			divisor := req["Divisor"].(int32)
			if divisor == 0 {
				return nil, &fault.HandlerError{
					Err:    errors.New("division by zero"),
					Detail: "<reason>divisor must be non-zero</reason>",
				}
			}
			return codec.Value{"Quotient": req["Dividend"].(int32) / divisor}, nil
		})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	eng, err := New(reg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return eng
}

func envelopeWith(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soap:Body>` + body + `</soap:Body></soap:Envelope>`)
}

func parseResponse(t *testing.T, out []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("response is not well-formed XML: %v\n%s", err, out)
	}
	return doc
}

func TestHandle_Add(t *testing.T) {
	eng := calculatorEngine(t)
	out := eng.Handle(context.Background(),
		envelopeWith(`<Add><Operand1>15</Operand1><Operand2>25</Operand2></Add>`), "")

	doc := parseResponse(t, out)
	result := doc.FindElement("//tns:AddResponse/Result")
	if result == nil {
		t.Fatalf("AddResponse/Result not found in:\n%s", out)
	}
	if result.Text() != "40" {
		t.Errorf("Result = %q, want 40", result.Text())
	}
	if doc.FindElement("//soap:Fault") != nil {
		t.Error("success response must not contain a fault")
	}
}

func TestHandle_UnknownOperation(t *testing.T) {
	eng := calculatorEngine(t)
	out := eng.Handle(context.Background(),
		envelopeWith(`<Subtract><Operand1>5</Operand1></Subtract>`), "")

	doc := parseResponse(t, out)
	code := doc.FindElement("//soap:Fault/faultcode")
	if code == nil || code.Text() != fault.CodeClient {
		t.Fatalf("expected %s fault, got:\n%s", fault.CodeClient, out)
	}
	fs := doc.FindElement("//faultstring")
	if fs == nil || !strings.Contains(fs.Text(), "Subtract") {
		t.Error("faultstring must name the unknown operation")
	}
}

func TestHandle_MissingRequiredField(t *testing.T) {
	eng := calculatorEngine(t)
	out := eng.Handle(context.Background(),
		envelopeWith(`<Add><Operand1>15</Operand1></Add>`), "")

	doc := parseResponse(t, out)
	code := doc.FindElement("//faultcode")
	if code == nil || code.Text() != fault.CodeClient {
		t.Fatalf("expected client fault, got:\n%s", out)
	}
	fs := doc.FindElement("//faultstring")
	if fs == nil || !strings.Contains(fs.Text(), "Operand2") {
		t.Error("faultstring must reference the missing field")
	}
}

func TestHandle_MalformedEnvelope(t *testing.T) {
	eng := calculatorEngine(t)

	for _, raw := range []string{
		"this is not xml",
		"<Envelope><Body></Body></Envelope>",
		"<NotAnEnvelope/>",
	} {
		out := eng.Handle(context.Background(), []byte(raw), "")
		doc := parseResponse(t, out)
		code := doc.FindElement("//faultcode")
		if code == nil || code.Text() != fault.CodeClient {
			t.Errorf("input %q: expected client fault, got:\n%s", raw, out)
		}
	}
}

func TestHandle_HandlerFault(t *testing.T) {
	eng := calculatorEngine(t)
	out := eng.Handle(context.Background(),
		envelopeWith(`<Divide><Dividend>10</Dividend><Divisor>0</Divisor></Divide>`), "")

	doc := parseResponse(t, out)
	code := doc.FindElement("//faultcode")
	if code == nil || code.Text() != fault.CodeServer {
		t.Fatalf("handler failure must map to a server fault, got:\n%s", out)
	}
	fs := doc.FindElement("//faultstring")
	if fs == nil || fs.Text() != "division by zero" {
		t.Error("faultstring must carry the handler's message verbatim")
	}
	detail := doc.FindElement("//detail/reason")
	if detail == nil || detail.Text() != "divisor must be non-zero" {
		t.Error("handler detail must be carried into the fault")
	}
}

func TestHandle_ActionHint(t *testing.T) {
	eng := calculatorEngine(t)
	body := envelopeWith(`<Add><Operand1>2</Operand1><Operand2>3</Operand2></Add>`)

	// A registered hint selects the operation.
	out := eng.Handle(context.Background(), body, "Add")
	doc := parseResponse(t, out)
	if doc.FindElement("//tns:AddResponse") == nil {
		t.Errorf("registered hint must dispatch, got:\n%s", out)
	}

	// An unrecognized hint falls back to the body tag.
	out = eng.Handle(context.Background(), body, "NoSuchOperation")
	doc = parseResponse(t, out)
	if doc.FindElement("//tns:AddResponse") == nil {
		t.Errorf("unknown hint must fall back to body tag, got:\n%s", out)
	}
}

func TestHandle_HintOverridesBodyTag(t *testing.T) {
	eng := calculatorEngine(t)

	// Body element named Divide, hint Add: the registered hint wins,
	// and Add's schema then rejects the Divide payload.
	out := eng.Handle(context.Background(),
		envelopeWith(`<Divide><Dividend>10</Dividend><Divisor>2</Divisor></Divide>`), "Add")
	doc := parseResponse(t, out)
	fs := doc.FindElement("//faultstring")
	if fs == nil || !strings.Contains(fs.Text(), "Operand1") {
		t.Errorf("expected Add schema to apply under the hint, got:\n%s", out)
	}
}

func TestHandle_NamespaceVariants(t *testing.T) {
	eng := calculatorEngine(t)
	payload := `<Add><Operand1>15</Operand1><Operand2>25</Operand2></Add>`
	variants := []string{
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` + payload + `</soap:Body></soap:Envelope>`,
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body>` + payload + `</SOAP-ENV:Body></SOAP-ENV:Envelope>`,
		`<Envelope><Body>` + payload + `</Body></Envelope>`,
	}

	var outputs [][]byte
	for _, v := range variants {
		outputs = append(outputs, eng.Handle(context.Background(), []byte(v), ""))
	}
	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Errorf("variant %d decoded differently:\n%s\nvs\n%s", i, outputs[0], outputs[i])
		}
	}
}

func TestHandle_AlwaysWellFormed(t *testing.T) {
	eng := calculatorEngine(t)
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("<"),
		[]byte("<Envelope/>"),
		envelopeWith(`<Add><Operand1>x</Operand1><Operand2>1</Operand2></Add>`),
	}
	for _, in := range inputs {
		out := eng.Handle(context.Background(), in, "")
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(out); err != nil {
			t.Errorf("input %q: output not well-formed: %v", in, err)
		}
	}
}

func TestWSDL_StableAndServed(t *testing.T) {
	eng := calculatorEngine(t)

	first := eng.WSDL()
	second := eng.WSDL()
	if !bytes.Equal(first, second) {
		t.Error("WSDL must be stable across calls")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(first); err != nil {
		t.Fatalf("WSDL is not well-formed XML: %v", err)
	}
	if doc.FindElement("//portType/operation[@name='Add']") == nil {
		t.Error("WSDL must describe the Add operation")
	}

	// Two engines over identically built registries produce identical
	// documents.
	other := calculatorEngine(t)
	if !bytes.Equal(eng.WSDL(), other.WSDL()) {
		t.Error("identical registries must yield byte-identical WSDL")
	}
}

func TestHandle_ResponseNamespace(t *testing.T) {
	eng := calculatorEngine(t)
	out := eng.Handle(context.Background(),
		envelopeWith(`<Add><Operand1>1</Operand1><Operand2>2</Operand2></Add>`), "")

	doc := parseResponse(t, out)
	resp := doc.FindElement("//tns:AddResponse")
	if resp == nil {
		t.Fatalf("expected tns-qualified response element, got:\n%s", out)
	}
	if got := resp.SelectAttrValue("xmlns:tns", ""); got != "http://example.com/calculator" {
		t.Errorf("response namespace = %q", got)
	}
}
