// Package fault defines the engine's error taxonomy and builds SOAP
// 1.1 fault documents from it. Parse, resolution, and decode failures
// classify as client faults; handler failures as server faults. Every
// error reaching the dispatch boundary becomes a fault envelope, so no
// failure escapes as a non-XML response.
package fault

import (
	"bytes"
	"errors"
	"strings"
)

// SOAP 1.1 envelope namespace.
const Namespace = "http://schemas.xmlsoap.org/soap/envelope/"

// Fault codes, qualified with the envelope prefix used in the fault
// document.
const (
	CodeClient          = "soap:Client"
	CodeServer          = "soap:Server"
	CodeVersionMismatch = "soap:VersionMismatch"
)

// Fault is a SOAP fault ready for serialization.
type Fault struct {
	Code    string
	Message string
	Detail  string // raw XML, emitted inside <detail> when non-empty
}

// Classify maps an error to its fault code. Malformed envelopes,
// unknown operations, and decode failures are the caller's fault;
// everything else, handler errors included, is the server's.
func Classify(err error) string {
	var (
		malformed *MalformedEnvelopeError
		unknown   *UnknownOperationError
		decode    *DecodeError
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &unknown), errors.As(err, &decode):
		return CodeClient
	default:
		return CodeServer
	}
}

// FromError builds the Fault for an error. The faultstring is the
// error's message verbatim; a HandlerError's structured detail is
// carried through.
func FromError(err error) *Fault {
	f := &Fault{
		Code:    Classify(err),
		Message: err.Error(),
	}
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		f.Detail = handlerErr.Detail
	}
	return f
}

// Bytes serializes the fault inside the standard envelope/body shape:
// Envelope > Body > Fault{faultcode, faultstring, detail?}.
func (f *Fault) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString(`<soap:Envelope xmlns:soap="` + Namespace + `">`)
	buf.WriteString(`<soap:Body>`)
	buf.WriteString(`<soap:Fault>`)
	buf.WriteString(`<faultcode>` + escapeXML(f.Code) + `</faultcode>`)
	buf.WriteString(`<faultstring>` + escapeXML(f.Message) + `</faultstring>`)
	if f.Detail != "" {
		buf.WriteString(`<detail>` + f.Detail + `</detail>`)
	}
	buf.WriteString(`</soap:Fault>`)
	buf.WriteString(`</soap:Body>`)
	buf.WriteString(`</soap:Envelope>`)
	return buf.Bytes()
}

// Build is shorthand for FromError(err).Bytes().
func Build(err error) []byte {
	return FromError(err).Bytes()
}

// escapeXML escapes special XML characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
