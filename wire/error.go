// Package wire implements the deterministic binary codec shared by every
// on-wire message and by the cryptographic layer's canonical input.
package wire

import "errors"

// Error is the single opaque failure kind for the wire codec: a short
// buffer, a length prefix that would overflow, an unknown discriminant, or
// trailing bytes after a whole-message decode all surface as this sentinel
// (wrapped with context via fmt.Errorf("%w: ...", wire.Error)).
var Error = errors.New("wire: malformed input")
