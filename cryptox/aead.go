package cryptox

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"meshwire.dev/core/wire"
)

// Fixed wire sizes for the AEAD layer, per spec.md §6.
const (
	AEADKeyWireSize = 32
	NonceWireSize   = chacha20poly1305.NonceSizeX // 24
	TagWireSize     = 16
)

// AEADKey is a secret XChaCha20-Poly1305 key. It must be zeroized with
// Destroy once no more messages will be encrypted or decrypted under it.
type AEADKey struct {
	secret secret32
}

// Nonce is the public 24-byte XChaCha20-Poly1305 nonce. Callers are
// responsible for never reusing a Nonce under the same Key; reuse voids
// confidentiality and integrity (spec.md §3).
type Nonce [24]byte

// Tag is the public 16-byte detached Poly1305 authentication tag.
type Tag [16]byte

// GenerateAEADKey draws 32 random bytes and returns an AEAD key.
func GenerateAEADKey() (AEADKey, error) {
	var raw [32]byte
	if _, err := io.ReadFull(rand.Reader, raw[:]); err != nil {
		return AEADKey{}, fmt.Errorf("cryptox: generate aead key: %w", err)
	}
	return AEADKey{secret: newSecret32(raw)}, nil
}

// AEADKeyFromBytes adopts raw as a key's backing bytes, e.g. after HKDF
// derivation.
func AEADKeyFromBytes(raw [32]byte) AEADKey {
	return AEADKey{secret: newSecret32(raw)}
}

// Destroy zeroizes the key's backing buffer.
func (k AEADKey) Destroy() { k.secret.destroy() }

// GenerateNonce draws 24 random bytes. Most callers should instead derive
// nonces deterministically (e.g. from a monotonic counter) to make the
// spec's "caller-unique per key" invariant enforceable; GenerateNonce exists
// for callers that accept random-nonce collision probability at their
// message volume.
func GenerateNonce() (Nonce, error) {
	var n Nonce
	if _, err := io.ReadFull(rand.Reader, n[:]); err != nil {
		return Nonce{}, fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	return n, nil
}

// EncryptInPlace encrypts buffer in place under key and nonce, binding
// associated (which may be nil, equivalent to empty) as AEAD associated
// data, and returns the detached authentication tag.
func (k AEADKey) EncryptInPlace(nonce Nonce, associated, buffer []byte) (Tag, error) {
	raw := k.secret.bytes()
	aead, err := chacha20poly1305.NewX(raw[:])
	if err != nil {
		return Tag{}, fmt.Errorf("cryptox: new xchacha20poly1305: %w", err)
	}
	sealed := aead.Seal(buffer[:0], nonce[:], buffer, associated)
	if len(sealed) != len(buffer)+TagWireSize {
		return Tag{}, fmt.Errorf("cryptox: unexpected sealed length %d", len(sealed))
	}
	// Seal reuses buffer's array only when its capacity has room for the
	// tag; otherwise the ciphertext lands in a fresh array and is copied back.
	copy(buffer, sealed[:len(buffer)])
	var tag Tag
	copy(tag[:], sealed[len(buffer):])
	return tag, nil
}

// DecryptInPlace verifies and decrypts buffer in place under key, nonce,
// associated, and the detached tag. On any mismatch — ciphertext, tag,
// nonce, or associated data bit flip — it returns a non-nil error and
// leaves buffer's contents unspecified.
func (k AEADKey) DecryptInPlace(nonce Nonce, associated, buffer []byte, tag Tag) error {
	raw := k.secret.bytes()
	aead, err := chacha20poly1305.NewX(raw[:])
	if err != nil {
		return fmt.Errorf("cryptox: new xchacha20poly1305: %w", err)
	}
	sealed := make([]byte, 0, len(buffer)+TagWireSize)
	sealed = append(sealed, buffer...)
	sealed = append(sealed, tag[:]...)
	opened, err := aead.Open(buffer[:0], nonce[:], sealed, associated)
	if err != nil {
		return fmt.Errorf("cryptox: aead decrypt: authentication failed")
	}
	copy(buffer, opened)
	return nil
}

// WireWrite writes the nonce's 24 raw bytes.
func (n Nonce) WireWrite(w *wire.Writer) { w.PutSlice(n[:]) }

// WireSize is always NonceWireSize.
func (Nonce) WireSize() int { return NonceWireSize }

// ReadNonce reads a fixed 24-byte nonce.
func ReadNonce(r *wire.Reader) (Nonce, error) {
	b, err := r.ReadExact(NonceWireSize)
	if err != nil {
		return Nonce{}, err
	}
	var n Nonce
	copy(n[:], b)
	return n, nil
}

// SkipNonce advances past an encoded nonce without decoding it.
func SkipNonce(r *wire.Reader) error { return wire.SkipFixed(r, NonceWireSize) }

// WireWrite writes the tag's 16 raw bytes.
func (t Tag) WireWrite(w *wire.Writer) { w.PutSlice(t[:]) }

// WireSize is always TagWireSize.
func (Tag) WireSize() int { return TagWireSize }

// ReadTag reads a fixed 16-byte authentication tag.
func ReadTag(r *wire.Reader) (Tag, error) {
	b, err := r.ReadExact(TagWireSize)
	if err != nil {
		return Tag{}, err
	}
	var t Tag
	copy(t[:], b)
	return t, nil
}

// SkipTag advances past an encoded tag without decoding it.
func SkipTag(r *wire.Reader) error { return wire.SkipFixed(r, TagWireSize) }
