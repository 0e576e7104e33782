// Package canon provides the canonical byte encodings used to fingerprint
// ledger payloads.
//
// A payload is opaque to the ledger, but its fingerprint must be reproducible:
// two equal values always encode to the same bytes, in this process or in any
// other implementation following the same rules.
//
// Every string in a payload, map keys and struct field values included, must
// be valid UTF-8. Marshal rejects anything else with ErrInvalidUTF8 rather
// than letting two different byte strings collapse into one encoding.
//
// # JSON
//
// The default encoding. The value is marshalled with encoding/json and then
// normalised:
//   - object keys are sorted by the byte order of their UTF-8 form, at every depth
//   - struct fields count as object keys, under their JSON names
//   - no insignificant whitespace and no trailing newline
//   - HTML characters are not escaped
//   - numbers keep the literal text produced by encoding/json
//
// # CBOR
//
// RFC 8949 core deterministic encoding (shortest integer forms, map keys
// sorted bytewise by their encoded form).
//
// # Decoding
//
// Decode turns canonical bytes back into fresh generic values, and Transcode
// moves a payload from one encoding to the other through them.
package canon
