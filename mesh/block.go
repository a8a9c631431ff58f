package mesh

import (
	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

// BlockSize is the fixed size of a Block: 2^20 = 1,048,576 bytes.
const BlockSize = 1 << 20

// BlockWireSize equals BlockSize; a Block is written and read raw.
const BlockWireSize = BlockSize

// blockTypeUUID keys BlockID's digest, providing domain separation from
// any other use of keyed BLAKE2s over block-sized data in this protocol.
var blockTypeUUID = wire.UUID{
	0x6d, 0x65, 0x73, 0x68, 0x77, 0x69, 0x72, 0x65,
	0x2e, 0x62, 0x6c, 0x6f, 0x63, 0x6b, 0x2e, 0x76,
}

// Block is a fixed-size, content-addressed chunk of data.
type Block [BlockSize]byte

// WireWrite writes the block's raw bytes.
func (b *Block) WireWrite(w *wire.Writer) { w.PutSlice(b[:]) }

// WireSize is always BlockWireSize.
func (*Block) WireSize() int { return BlockWireSize }

// ReadBlock reads a fixed BlockSize-byte block.
func ReadBlock(r *wire.Reader) (*Block, error) {
	raw, err := r.ReadExact(BlockSize)
	if err != nil {
		return nil, err
	}
	var b Block
	copy(b[:], raw)
	return &b, nil
}

// SkipBlock advances past an encoded block without decoding it.
func SkipBlock(r *wire.Reader) error { return wire.SkipFixed(r, BlockSize) }

// BlockIDWireSize is the fixed wire size of a BlockID: a 32-byte digest.
const BlockIDWireSize = cryptox.DigestWireSize

// BlockID is the content address of a Block: a keyed digest over its bytes.
type BlockID struct {
	Digest cryptox.Digest
}

// ComputeBlockID deterministically derives a block's content address.
func ComputeBlockID(b *Block) BlockID {
	return BlockID{Digest: cryptox.ComputeDigest(blockTypeUUID, b[:])}
}

// WireWrite writes the underlying digest's raw bytes.
func (id BlockID) WireWrite(w *wire.Writer) { id.Digest.WireWrite(w) }

// WireSize is always BlockIDWireSize.
func (BlockID) WireSize() int { return BlockIDWireSize }

// ReadBlockID reads a fixed 32-byte BlockID.
func ReadBlockID(r *wire.Reader) (BlockID, error) {
	d, err := cryptox.ReadDigest(r)
	if err != nil {
		return BlockID{}, err
	}
	return BlockID{Digest: d}, nil
}

// SkipBlockID advances past an encoded BlockID without decoding it.
func SkipBlockID(r *wire.Reader) error { return wire.SkipFixed(r, BlockIDWireSize) }

// Equal compares two block IDs in constant time.
func (id BlockID) Equal(other BlockID) bool { return id.Digest.Equal(other.Digest) }
