package cryptox

import (
	stded25519 "crypto/ed25519"
	"crypto/rand"
	"fmt"

	"meshwire.dev/core/wire"
)

// Fixed wire sizes for the signature layer, per spec.md §6.
const (
	SigPrivateKeyWireSize = 32
	SigPublicKeyWireSize  = 32
	SignatureWireSize     = 64
)

// SigPrivateKey is a secret Ed25519 seed (the 32-byte form; the expanded
// 64-byte stdlib representation is derived on demand and never persisted).
type SigPrivateKey struct {
	secret secret32
}

// SigPublicKey is the public Ed25519 verification key.
type SigPublicKey [32]byte

// Signature is a detached 64-byte Ed25519 signature.
type Signature [64]byte

// GenerateSigPrivateKey draws a fresh Ed25519 seed.
func GenerateSigPrivateKey() (SigPrivateKey, error) {
	_, priv, err := stded25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigPrivateKey{}, fmt.Errorf("cryptox: generate sig private key: %w", err)
	}
	var seed [32]byte
	copy(seed[:], priv.Seed())
	return SigPrivateKey{secret: newSecret32(seed)}, nil
}

// SigPrivateKeyFromSeed adopts raw as an Ed25519 seed.
func SigPrivateKeyFromSeed(raw [32]byte) SigPrivateKey {
	return SigPrivateKey{secret: newSecret32(raw)}
}

// Destroy zeroizes the private key's backing buffer.
func (k SigPrivateKey) Destroy() { k.secret.destroy() }

func (k SigPrivateKey) expanded() stded25519.PrivateKey {
	seed := k.secret.bytes()
	return stded25519.NewKeyFromSeed(seed[:])
}

// PublicKey derives the public Ed25519 verification key for this private
// key.
func (k SigPrivateKey) PublicKey() SigPublicKey {
	pub := k.expanded().Public().(stded25519.PublicKey)
	var out SigPublicKey
	copy(out[:], pub)
	return out
}

// Sign produces a detached Ed25519 signature over msg.
func (k SigPrivateKey) Sign(msg []byte) Signature {
	sig := stded25519.Sign(k.expanded(), msg)
	var out Signature
	copy(out[:], sig)
	return out
}

// Verify reports whether sig is a valid Ed25519 signature over msg under
// this public key.
func (k SigPublicKey) Verify(msg []byte, sig Signature) error {
	if !stded25519.Verify(stded25519.PublicKey(k[:]), msg, sig[:]) {
		return fmt.Errorf("cryptox: ed25519 signature verification failed")
	}
	return nil
}

// WireWrite writes the public key's 32 raw bytes.
func (k SigPublicKey) WireWrite(w *wire.Writer) { w.PutSlice(k[:]) }

// WireSize is always SigPublicKeyWireSize.
func (SigPublicKey) WireSize() int { return SigPublicKeyWireSize }

// ReadSigPublicKey reads a fixed 32-byte Ed25519 public key.
func ReadSigPublicKey(r *wire.Reader) (SigPublicKey, error) {
	b, err := r.ReadExact(SigPublicKeyWireSize)
	if err != nil {
		return SigPublicKey{}, err
	}
	var k SigPublicKey
	copy(k[:], b)
	return k, nil
}

// SkipSigPublicKey advances past an encoded public key without decoding it.
func SkipSigPublicKey(r *wire.Reader) error { return wire.SkipFixed(r, SigPublicKeyWireSize) }

// Equal compares two public keys in constant time.
func (k SigPublicKey) Equal(other SigPublicKey) bool {
	return wire.ConstantTimeEqual(k[:], other[:])
}

// WireWrite writes the signature's 64 raw bytes.
func (s Signature) WireWrite(w *wire.Writer) { w.PutSlice(s[:]) }

// WireSize is always SignatureWireSize.
func (Signature) WireSize() int { return SignatureWireSize }

// ReadSignature reads a fixed 64-byte signature.
func ReadSignature(r *wire.Reader) (Signature, error) {
	b, err := r.ReadExact(SignatureWireSize)
	if err != nil {
		return Signature{}, err
	}
	var s Signature
	copy(s[:], b)
	return s, nil
}

// SkipSignature advances past an encoded signature without decoding it.
func SkipSignature(r *wire.Reader) error { return wire.SkipFixed(r, SignatureWireSize) }
