package wire

import "fmt"

// UUIDWireSize is the fixed wire size of a UUID: 16 raw bytes.
const UUIDWireSize = 16

// UUID is a 16-byte type tag mixed into signatures and AEAD associated
// data to prevent cross-type confusion (spec.md Glossary: "Type UUID").
// It is a plain public value type; equality is constant-time since UUIDs
// sometimes derive from or gate secret material indirectly (signer
// binding), and constant-time comparison here costs nothing.
type UUID [16]byte

// WireWrite writes the UUID's 16 raw bytes.
func (u UUID) WireWrite(w *Writer) {
	w.PutSlice(u[:])
}

// WireSize is always UUIDWireSize.
func (UUID) WireSize() int { return UUIDWireSize }

// ReadUUID reads a fixed 16-byte UUID.
func ReadUUID(r *Reader) (UUID, error) {
	b, err := r.ReadExact(UUIDWireSize)
	if err != nil {
		return UUID{}, err
	}
	var u UUID
	copy(u[:], b)
	return u, nil
}

// SkipUUID advances past a UUID without decoding it.
func SkipUUID(r *Reader) error {
	return SkipFixed(r, UUIDWireSize)
}

// Equal compares two UUIDs in constant time.
func (u UUID) Equal(other UUID) bool {
	return ConstantTimeEqual(u[:], other[:])
}

// String renders the UUID in canonical 8-4-4-4-12 hex form.
func (u UUID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}
