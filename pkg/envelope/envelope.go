// Package envelope extracts the request payload from a raw SOAP
// envelope.
//
// Parsing is deliberately lenient about namespaces: Envelope and Body
// are located by local name, so soap:Body, SOAP-ENV:Body, and a bare
// Body are all accepted, and namespace declarations are not otherwise
// validated. Real SOAP clients disagree on prefixes far more often
// than they disagree on structure.
package envelope

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/getsoapd/soapd/pkg/fault"
)

// Request is the parsed form of one inbound envelope. Payload is the
// sole element child of Body; Operation is its local tag name.
type Request struct {
	Operation string
	Payload   *etree.Element

	// Namespace is the default xmlns declared on the payload element,
	// when present. Informational only; it is not validated.
	Namespace string
}

// Parse reads a raw envelope and returns the request payload. Any
// structural problem is reported as a *fault.MalformedEnvelopeError
// with a human-readable reason.
func Parse(raw []byte) (*Request, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &fault.MalformedEnvelopeError{Reason: "invalid XML: " + err.Error()}
	}

	root := doc.Root()
	if root == nil {
		return nil, &fault.MalformedEnvelopeError{Reason: "empty document"}
	}
	if root.Tag != "Envelope" {
		return nil, &fault.MalformedEnvelopeError{
			Reason: fmt.Sprintf("root element must be Envelope, got <%s>", root.Tag),
		}
	}

	body := childByLocalName(root, "Body")
	if body == nil {
		return nil, &fault.MalformedEnvelopeError{Reason: "Body element not found"}
	}

	// ChildElements skips text nodes, so whitespace between elements
	// does not count as content.
	children := body.ChildElements()
	if len(children) == 0 {
		return nil, &fault.MalformedEnvelopeError{Reason: "Body has no element child"}
	}

	payload := children[0]
	return &Request{
		Operation: payload.Tag,
		Payload:   payload,
		Namespace: payload.SelectAttrValue("xmlns", ""),
	}, nil
}

// childByLocalName returns the first child element whose local name
// matches, regardless of namespace prefix. etree splits "soap:Body"
// into Space "soap" and Tag "Body", so matching on Tag alone is the
// prefix-stripping pass.
func childByLocalName(parent *etree.Element, localName string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == localName {
			return child
		}
	}
	return nil
}
