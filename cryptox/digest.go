package cryptox

import (
	"fmt"

	"golang.org/x/crypto/blake2s"
	"meshwire.dev/core/wire"
)

// DigestWireSize is the fixed wire size of a keyed BLAKE2s digest.
const DigestWireSize = 32

// Digest is the public 32-byte output of keyed BLAKE2s. The key is always
// a UUID used purely for domain separation (spec.md §4.2, §4.6), not as a
// secret — Digest carries no confidentiality.
type Digest [32]byte

// ComputeDigest computes the keyed BLAKE2s digest of data, using typeUUID
// (padded to BLAKE2s's 32-byte max key size) as the key.
func ComputeDigest(typeUUID wire.UUID, data []byte) Digest {
	var key [32]byte
	copy(key[:], typeUUID[:])
	h, err := blake2s.New256(key[:])
	if err != nil {
		// blake2s.New256 only errors when the key exceeds 32 bytes; ours is
		// always exactly 32.
		panic(fmt.Sprintf("cryptox: blake2s.New256(key): %v", err))
	}
	h.Write(data)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// WireWrite writes the digest's 32 raw bytes.
func (d Digest) WireWrite(w *wire.Writer) { w.PutSlice(d[:]) }

// WireSize is always DigestWireSize.
func (Digest) WireSize() int { return DigestWireSize }

// ReadDigest reads a fixed 32-byte digest.
func ReadDigest(r *wire.Reader) (Digest, error) {
	b, err := r.ReadExact(DigestWireSize)
	if err != nil {
		return Digest{}, err
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// SkipDigest advances past an encoded digest without decoding it.
func SkipDigest(r *wire.Reader) error { return wire.SkipFixed(r, DigestWireSize) }

// Equal compares two digests in constant time.
func (d Digest) Equal(other Digest) bool {
	return wire.ConstantTimeEqual(d[:], other[:])
}
