// Package cryptox implements the typed cryptographic primitives the
// protocol builds on: X25519 ECDH, BLAKE2s-based HKDF, XChaCha20-Poly1305
// AEAD, Ed25519 signatures, and a keyed BLAKE2s digest. Every key, nonce,
// tag, seed, and shared secret is a distinct Go type so the compiler (not a
// code review) catches a nonce passed where a key was expected.
package cryptox

import "runtime"

// secret32 is the shared heap-owned, zeroize-on-destroy storage for every
// 32-byte secret type (ECDH/signature private keys, AEAD keys, HKDF seeds,
// shared secrets). Go has no destructors, so callers MUST call Destroy
// explicitly when done with a secret; a finalizer is registered as a
// backstop that zeroizes if Destroy was never called, mirroring the
// garbage-collected-target strategy spec.md §9 calls out.
type secret32 struct {
	b *[32]byte
}

func newSecret32(b [32]byte) secret32 {
	s := secret32{b: new([32]byte)}
	*s.b = b
	runtime.SetFinalizer(s.b, zeroize32)
	return s
}

func zeroize32(b *[32]byte) {
	for i := range b {
		b[i] = 0
	}
}

// destroy zeroizes the secret immediately. Safe to call more than once; the
// backing pointer is left pointing at zeroed memory either way.
func (s secret32) destroy() {
	if s.b != nil {
		zeroize32(s.b)
	}
}

// bytes returns the live 32-byte value. Callers must not retain the
// returned array's address past the secret's lifetime.
func (s secret32) bytes() [32]byte {
	return *s.b
}
