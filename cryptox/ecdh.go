package cryptox

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"meshwire.dev/core/wire"
)

// ECDHPrivateKeyWireSize is the fixed wire size of an X25519 private key.
const ECDHPrivateKeyWireSize = 32

// ECDHPublicKeyWireSize is the fixed wire size of an X25519 public key.
const ECDHPublicKeyWireSize = 32

// SharedSecretWireSize is the fixed wire size of an ECDH shared secret.
const SharedSecretWireSize = 32

// ECDHPrivateKey is a secret X25519 scalar. It owns a heap buffer and must
// be zeroized with Destroy when no longer needed.
type ECDHPrivateKey struct {
	secret secret32
}

// ECDHPublicKey is the public X25519 point: a plain, copyable value.
type ECDHPublicKey [32]byte

// SharedSecret is the raw output of an X25519 Diffie-Hellman exchange. It
// is secret and must be zeroized with Destroy after deriving a session key
// from it via HKDF.
type SharedSecret struct {
	secret secret32
}

// GenerateECDHPrivateKey draws 32 random bytes and returns a X25519
// private key.
func GenerateECDHPrivateKey() (ECDHPrivateKey, error) {
	var raw [32]byte
	if _, err := io.ReadFull(rand.Reader, raw[:]); err != nil {
		return ECDHPrivateKey{}, fmt.Errorf("cryptox: generate ecdh private key: %w", err)
	}
	return ECDHPrivateKey{secret: newSecret32(raw)}, nil
}

// ECDHPrivateKeyFromBytes adopts raw as a private key's backing bytes.
// Unlike the spec's Rust reference, X25519 clamping in this implementation
// is performed by curve25519.X25519 itself at scalar-multiplication time,
// not at construction time, so raw is stored byte-for-byte.
func ECDHPrivateKeyFromBytes(raw [32]byte) ECDHPrivateKey {
	return ECDHPrivateKey{secret: newSecret32(raw)}
}

// Destroy zeroizes the private key's backing buffer.
func (k ECDHPrivateKey) Destroy() { k.secret.destroy() }

// PublicKey derives the public X25519 point for this private key.
func (k ECDHPrivateKey) PublicKey() (ECDHPublicKey, error) {
	raw := k.secret.bytes()
	var pub [32]byte
	out, err := curve25519.X25519(raw[:], curve25519.Basepoint)
	if err != nil {
		return ECDHPublicKey{}, fmt.Errorf("cryptox: derive ecdh public key: %w", err)
	}
	copy(pub[:], out)
	return ECDHPublicKey(pub), nil
}

// DiffieHellman computes the X25519 shared point between this private key
// and peer's public key.
//
// Contributory-behavior policy (spec.md §4.2, §9): this implementation
// REJECTS an all-zero result, which only a malicious or degenerate peer
// public key can produce. This is the conservative of the two policies
// the spec allows and the one it recommends by default; curve25519.X25519
// already enforces it (it returns an error for a low-order input point),
// so no separate check is needed here.
func (k ECDHPrivateKey) DiffieHellman(peer ECDHPublicKey) (SharedSecret, error) {
	raw := k.secret.bytes()
	out, err := curve25519.X25519(raw[:], peer[:])
	if err != nil {
		return SharedSecret{}, fmt.Errorf("cryptox: ecdh: %w", err)
	}
	var shared [32]byte
	copy(shared[:], out)
	return SharedSecret{secret: newSecret32(shared)}, nil
}

// Destroy zeroizes the shared secret's backing buffer.
func (s SharedSecret) Destroy() { s.secret.destroy() }

// WireWrite writes the public key's 32 raw bytes.
func (k ECDHPublicKey) WireWrite(w *wire.Writer) { w.PutSlice(k[:]) }

// WireSize is always ECDHPublicKeyWireSize.
func (ECDHPublicKey) WireSize() int { return ECDHPublicKeyWireSize }

// ReadECDHPublicKey reads a fixed 32-byte X25519 public key.
func ReadECDHPublicKey(r *wire.Reader) (ECDHPublicKey, error) {
	b, err := r.ReadExact(ECDHPublicKeyWireSize)
	if err != nil {
		return ECDHPublicKey{}, err
	}
	var k ECDHPublicKey
	copy(k[:], b)
	return k, nil
}

// SkipECDHPublicKey advances past an encoded public key without decoding it.
func SkipECDHPublicKey(r *wire.Reader) error {
	return wire.SkipFixed(r, ECDHPublicKeyWireSize)
}

// Equal compares two public keys in constant time.
func (k ECDHPublicKey) Equal(other ECDHPublicKey) bool {
	return wire.ConstantTimeEqual(k[:], other[:])
}
