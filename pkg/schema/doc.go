// Package schema defines the type metadata that drives XML decoding,
// encoding, and WSDL generation.
//
// A Type is an ordered list of Fields; each Field maps a logical name
// to an XML element name and a wire Kind. Nested fields reference
// another Type, forming a tree. A Catalog collects the named types of
// one service and preserves insertion order so that generated WSDL is
// deterministic.
//
// Types and catalogs are built once at startup, validated, and treated
// as immutable from then on.
package schema
