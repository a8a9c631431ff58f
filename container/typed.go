// Package container implements the typed cryptographic containers that
// bind a payload's type UUID (and, for signatures, its signer) into every
// AEAD or signature operation, so ciphertext or a signature produced for
// one payload type can never be mistaken for another's (spec.md §4.3).
package container

import "meshwire.dev/core/wire"

// Typed is implemented by every payload type that can be sealed or
// encrypted: it declares the 16-byte domain tag mixed into the
// corresponding cryptographic operation.
type Typed interface {
	TypeUUID() wire.UUID
}
