// Package wsdl generates a WSDL 1.1 contract document from a service
// descriptor, its registered operations, and the schema catalog.
//
// Generation is a pure function of its inputs: for a fixed
// registration order the output is byte-identical across runs, so
// callers may cache the document or regenerate it per request.
package wsdl

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/getsoapd/soapd/pkg/registry"
	"github.com/getsoapd/soapd/pkg/schema"
)

// WSDL and XSD namespaces.
const (
	DefinitionsNamespace = "http://schemas.xmlsoap.org/wsdl/"
	SOAPBindingNamespace = "http://schemas.xmlsoap.org/wsdl/soap/"
	XSDNamespace         = "http://www.w3.org/2001/XMLSchema"
	HTTPTransport        = "http://schemas.xmlsoap.org/soap/http"
)

// Generate builds the WSDL document for the service. Section order is
// fixed: types, messages, portType, binding, service. Operations
// appear in the order given; the catalog's insertion order drives the
// complexType order.
func Generate(svc registry.Service, ops []*registry.Operation, cat *schema.Catalog) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	def := doc.CreateElement("definitions")
	def.CreateAttr("xmlns", DefinitionsNamespace)
	def.CreateAttr("xmlns:tns", svc.Namespace)
	def.CreateAttr("xmlns:soap", SOAPBindingNamespace)
	def.CreateAttr("xmlns:xsd", XSDNamespace)
	def.CreateAttr("name", svc.ServiceName)
	def.CreateAttr("targetNamespace", svc.Namespace)

	if err := writeTypes(def, svc, ops, cat); err != nil {
		return nil, err
	}
	writeMessages(def, ops)
	writePortType(def, svc, ops)
	writeBinding(def, svc, ops)
	writeService(def, svc)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeTypes emits the xsd:schema with one named complexType per
// distinct cataloged type plus the request/response elements the
// document/literal messages reference.
func writeTypes(def *etree.Element, svc registry.Service, ops []*registry.Operation, cat *schema.Catalog) error {
	types := def.CreateElement("types")
	xs := types.CreateElement("xsd:schema")
	xs.CreateAttr("targetNamespace", svc.Namespace)

	for _, name := range cat.Names() {
		t, _ := cat.Get(name)
		ct := xs.CreateElement("xsd:complexType")
		ct.CreateAttr("name", name)
		seq := ct.CreateElement("xsd:sequence")
		for _, f := range t.Fields {
			el := seq.CreateElement("xsd:element")
			el.CreateAttr("name", f.ElementName())
			xt, err := xsdType(f, cat)
			if err != nil {
				return fmt.Errorf("type %s: %w", name, err)
			}
			el.CreateAttr("type", xt)
			if f.Optional {
				el.CreateAttr("minOccurs", "0")
			}
		}
	}

	for _, op := range ops {
		reqName, err := typeRef(op.Request, cat)
		if err != nil {
			return fmt.Errorf("operation %s: %w", op.Name, err)
		}
		respName, err := typeRef(op.Response, cat)
		if err != nil {
			return fmt.Errorf("operation %s: %w", op.Name, err)
		}

		reqEl := xs.CreateElement("xsd:element")
		reqEl.CreateAttr("name", op.Name)
		reqEl.CreateAttr("type", reqName)

		respEl := xs.CreateElement("xsd:element")
		respEl.CreateAttr("name", op.Name+"Response")
		respEl.CreateAttr("type", respName)
	}
	return nil
}

func writeMessages(def *etree.Element, ops []*registry.Operation) {
	for _, op := range ops {
		in := def.CreateElement("message")
		in.CreateAttr("name", op.Name+"Request")
		inPart := in.CreateElement("part")
		inPart.CreateAttr("name", "parameters")
		inPart.CreateAttr("element", "tns:"+op.Name)

		out := def.CreateElement("message")
		out.CreateAttr("name", op.Name+"Response")
		outPart := out.CreateElement("part")
		outPart.CreateAttr("name", "parameters")
		outPart.CreateAttr("element", "tns:"+op.Name+"Response")
	}
}

func writePortType(def *etree.Element, svc registry.Service, ops []*registry.Operation) {
	pt := def.CreateElement("portType")
	pt.CreateAttr("name", svc.ServiceName+"PortType")
	for _, op := range ops {
		opEl := pt.CreateElement("operation")
		opEl.CreateAttr("name", op.Name)
		opEl.CreateElement("input").CreateAttr("message", "tns:"+op.Name+"Request")
		opEl.CreateElement("output").CreateAttr("message", "tns:"+op.Name+"Response")
	}
}

func writeBinding(def *etree.Element, svc registry.Service, ops []*registry.Operation) {
	b := def.CreateElement("binding")
	b.CreateAttr("name", svc.ServiceName+"Binding")
	b.CreateAttr("type", "tns:"+svc.ServiceName+"PortType")

	sb := b.CreateElement("soap:binding")
	sb.CreateAttr("style", "document")
	sb.CreateAttr("transport", HTTPTransport)

	for _, op := range ops {
		opEl := b.CreateElement("operation")
		opEl.CreateAttr("name", op.Name)
		so := opEl.CreateElement("soap:operation")
		so.CreateAttr("soapAction", soapAction(svc.Namespace, op.Name))
		opEl.CreateElement("input").CreateElement("soap:body").CreateAttr("use", "literal")
		opEl.CreateElement("output").CreateElement("soap:body").CreateAttr("use", "literal")
	}
}

func writeService(def *etree.Element, svc registry.Service) {
	s := def.CreateElement("service")
	s.CreateAttr("name", svc.ServiceName)
	port := s.CreateElement("port")
	port.CreateAttr("name", svc.PortName)
	port.CreateAttr("binding", "tns:"+svc.ServiceName+"Binding")
	addr := port.CreateElement("soap:address")
	addr.CreateAttr("location", svc.BindPath)
}

// xsdType maps a field kind to its XSD type reference. Nested fields
// reference their cataloged complexType; unknown kinds fall back to
// xsd:string.
func xsdType(f schema.Field, cat *schema.Catalog) (string, error) {
	switch f.Kind {
	case schema.Int32:
		return "xsd:int", nil
	case schema.Int64:
		return "xsd:long", nil
	case schema.Float32:
		return "xsd:float", nil
	case schema.Float64:
		return "xsd:double", nil
	case schema.Bool:
		return "xsd:boolean", nil
	case schema.String:
		return "xsd:string", nil
	case schema.Nested:
		return typeRef(f.Schema, cat)
	default:
		return "xsd:string", nil
	}
}

// typeRef returns the tns-qualified reference to a cataloged type.
func typeRef(t *schema.Type, cat *schema.Catalog) (string, error) {
	name, ok := cat.NameOf(t)
	if !ok {
		return "", fmt.Errorf("type not present in catalog")
	}
	return "tns:" + name, nil
}

// soapAction derives the action URI for an operation.
func soapAction(namespace, operation string) string {
	return strings.TrimSuffix(namespace, "/") + "/" + operation
}
