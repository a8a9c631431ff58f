package container

import (
	"fmt"

	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

// Encrypted is an AEAD-sealed payload: a nonce, the ciphertext, and a
// detached authentication tag. It decrypts only under the key and
// associated data (the payload's type UUID, the nonce, and the caller's
// extra context) used to encrypt it (spec.md §3).
type Encrypted struct {
	Nonce      cryptox.Nonce
	Ciphertext []byte
	Tag        cryptox.Tag
}

// WireWrite writes Nonce, a length-prefixed Ciphertext, and Tag in that
// order (the struct's field order, per spec.md §4.1).
func (e Encrypted) WireWrite(w *wire.Writer) {
	e.Nonce.WireWrite(w)
	wire.PutVarLen(w, e.Ciphertext)
	e.Tag.WireWrite(w)
}

// WireSize is the sum of the nonce, length-prefixed ciphertext, and tag.
func (e Encrypted) WireSize() int {
	return cryptox.NonceWireSize + wire.USizeWireSize + len(e.Ciphertext) + cryptox.TagWireSize
}

// ReadEncrypted reads an Encrypted container.
func ReadEncrypted(r *wire.Reader) (Encrypted, error) {
	nonce, err := cryptox.ReadNonce(r)
	if err != nil {
		return Encrypted{}, err
	}
	ciphertext, err := wire.ReadVarLen(r)
	if err != nil {
		return Encrypted{}, err
	}
	tag, err := cryptox.ReadTag(r)
	if err != nil {
		return Encrypted{}, err
	}
	// ciphertext aliases the Reader's backing array; copy so the returned
	// value owns independent storage, matching Encrypted's value semantics.
	owned := append([]byte(nil), ciphertext...)
	return Encrypted{Nonce: nonce, Ciphertext: owned, Tag: tag}, nil
}

// SkipEncrypted advances past an encoded Encrypted container without
// decoding it.
func SkipEncrypted(r *wire.Reader) error {
	if err := cryptox.SkipNonce(r); err != nil {
		return err
	}
	if _, err := wire.SkipVarLen(r); err != nil {
		return err
	}
	return cryptox.SkipTag(r)
}

// Encryptable is any Typed, wire-serializable payload that can be sealed
// with Encrypt/Decrypt. A read function is supplied explicitly (Go has no
// static-return-type dispatch the way the original's Rust trait did),
// mirroring the pattern every NestedRead/ReadSequence caller already uses
// in this module.
type Encryptable interface {
	Typed
	wire.Serializable
}

// Encrypt computes AEAD associated data = wire(TYPE_UUID) || wire(nonce) ||
// wire(extra), serializes payload, encrypts it in place under key and
// nonce, and returns the resulting Encrypted container.
func Encrypt[T Encryptable](payload T, key cryptox.AEADKey, nonce cryptox.Nonce, extra wire.Serializable) (Encrypted, error) {
	associated := prepareAssociated(payload.TypeUUID(), nonce, extra)
	buffer := wire.Serialize(payload)
	tag, err := key.EncryptInPlace(nonce, associated, buffer)
	if err != nil {
		return Encrypted{}, fmt.Errorf("container: encrypt: %w", err)
	}
	return Encrypted{Nonce: nonce, Ciphertext: buffer, Tag: tag}, nil
}

// Decrypt recomputes associated data from typeUUID, enc.Nonce, and extra,
// AEAD-decrypts enc's ciphertext under key, and wire-deserializes the
// plaintext with read, requiring zero trailing bytes.
func Decrypt[T any](enc Encrypted, key cryptox.AEADKey, extra wire.Serializable, typeUUID wire.UUID, read func(*wire.Reader) (T, error)) (T, error) {
	var zero T
	associated := prepareAssociated(typeUUID, enc.Nonce, extra)
	buffer := append([]byte(nil), enc.Ciphertext...)
	if err := key.DecryptInPlace(enc.Nonce, associated, buffer, enc.Tag); err != nil {
		return zero, fmt.Errorf("container: decrypt: %w", err)
	}
	value, err := wire.Deserialize(buffer, read)
	if err != nil {
		return zero, fmt.Errorf("container: decrypt: decode plaintext: %w", err)
	}
	return value, nil
}

func prepareAssociated(typeUUID wire.UUID, nonce cryptox.Nonce, extra wire.Serializable) []byte {
	size := wire.UUIDWireSize + cryptox.NonceWireSize
	if extra != nil {
		size += extra.WireSize()
	}
	w := wire.NewWriter(size)
	typeUUID.WireWrite(w)
	nonce.WireWrite(w)
	if extra != nil {
		extra.WireWrite(w)
	}
	return w.Bytes()
}
