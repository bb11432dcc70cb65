// Package codec implements the flat payload format used on the host boundary.
//
// A payload is a map of string keys to string values serialized as
//
//	key1=value1&key2=value2
//
// with keys and values percent-escaped. Scalars are stored as text (booleans as "1"/"0",
// numbers in canonical decimal form), a nested record is stored as the encoded payload of
// that record under a single key, and a tagged union stores its tag under a discriminator
// key next to the fields of the active variant.
//
// Decoding never fails: unknown keys are ignored and missing or malformed values resolve
// to the zero value of the requested type, so peers on an older or newer schema still
// interoperate.
package codec
