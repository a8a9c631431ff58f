package cryptox

import (
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/hkdf"
)

// SeedWireSize is the fixed wire size of an HKDF pseudorandom key (seed).
const SeedWireSize = 32

// Seed is the secret pseudorandom key produced by HKDF-Extract. It must be
// zeroized with Destroy once every Expand/ExpandInto call derived from it
// is done.
type Seed struct {
	secret secret32
}

// SeedFromKeyMaterial performs HKDF-Extract (BLAKE2s) over salt and input
// keying material, returning the resulting pseudorandom key as a Seed.
func SeedFromKeyMaterial(salt, inputKeyMaterial []byte) (Seed, error) {
	raw, err := hkdf.Extract(newBlake2s256, inputKeyMaterial, salt)
	if err != nil {
		return Seed{}, fmt.Errorf("cryptox: hkdf extract: %w", err)
	}
	if len(raw) != 32 {
		return Seed{}, fmt.Errorf("cryptox: hkdf extract: unexpected prk length %d", len(raw))
	}
	var out [32]byte
	copy(out[:], raw)
	return Seed{secret: newSecret32(out)}, nil
}

// Destroy zeroizes the seed's backing buffer.
func (s Seed) Destroy() { s.secret.destroy() }

// Generate performs HKDF-Expand (BLAKE2s) with the given info, returning a
// fixed 32-byte SharedSecret — the common case of deriving a single
// session-keyed value from a seed.
func (s Seed) Generate(info []byte) (SharedSecret, error) {
	var out [32]byte
	if err := s.ExpandInto(info, out[:]); err != nil {
		return SharedSecret{}, err
	}
	return SharedSecret{secret: newSecret32(out)}, nil
}

// ExpandInto performs HKDF-Expand (BLAKE2s), writing len(out) bytes of
// derived key material into out. len(out) may be any length the
// expand-output limit of the underlying hash allows.
func (s Seed) ExpandInto(info []byte, out []byte) error {
	raw := s.secret.bytes()
	reader := hkdf.Expand(newBlake2s256, raw[:], info)
	if _, err := io.ReadFull(reader, out); err != nil {
		return fmt.Errorf("cryptox: hkdf expand: %w", err)
	}
	return nil
}

func newBlake2s256() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		// blake2s.New256 only errors when the key exceeds its max size;
		// nil is always a valid (unkeyed) key.
		panic(fmt.Sprintf("cryptox: blake2s.New256(nil): %v", err))
	}
	return h
}
