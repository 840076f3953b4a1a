// Package codec converts between XML element trees and typed values
// under the control of a schema.Type.
//
// A decoded Value maps logical field names to Go scalars (int32,
// int64, float32, float64, string, bool) or, for nested fields, to
// another Value. Absent optional fields have no key. Decoding matches
// children by XML element name with namespace prefixes ignored, and
// skips unknown children for forward compatibility. Encoding emits
// fields in schema order with locale-independent scalar formatting,
// so identical values always serialize identically.
package codec

// Value is a typed message value keyed by logical field name.
type Value map[string]any
