// Package mesh implements the protocol's domain types: entities, time
// values, priorities, content-addressed blocks, attestations, envelopes,
// and the Message tagged union they compose into.
package mesh

import (
	"fmt"

	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

// EntityType classifies an Entity's role in the overlay.
type EntityType uint16

const (
	EntityTypeEndpoint EntityType = 0
	EntityTypeNode     EntityType = 1
	EntityTypeZone     EntityType = 2
)

// EntityTypeWireSize is the fixed wire size of an EntityType: a u16 code.
const EntityTypeWireSize = 2

func (t EntityType) String() string {
	switch t {
	case EntityTypeEndpoint:
		return "Endpoint"
	case EntityTypeNode:
		return "Node"
	case EntityTypeZone:
		return "Zone"
	default:
		return fmt.Sprintf("EntityType(%d)", uint16(t))
	}
}

// WireWrite writes the entity type's u16 code.
func (t EntityType) WireWrite(w *wire.Writer) { wire.PutU16(w, uint16(t)) }

// WireSize is always EntityTypeWireSize.
func (EntityType) WireSize() int { return EntityTypeWireSize }

// ReadEntityType reads a u16 code and rejects any value outside
// {Endpoint, Node, Zone}.
func ReadEntityType(r *wire.Reader) (EntityType, error) {
	code, err := wire.ReadU16(r)
	if err != nil {
		return 0, err
	}
	t := EntityType(code)
	switch t {
	case EntityTypeEndpoint, EntityTypeNode, EntityTypeZone:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: unknown entity type code 0x%04x", wire.Error, code)
	}
}

// SkipEntityType advances past an encoded EntityType without validating it.
func SkipEntityType(r *wire.Reader) error { return wire.SkipFixed(r, EntityTypeWireSize) }

// EntityWireSize is the fixed wire size of an Entity: 2 + 32 bytes.
const EntityWireSize = EntityTypeWireSize + cryptox.SigPublicKeyWireSize

// Entity identifies a principal by its role and its signature verification
// key.
type Entity struct {
	Type      EntityType
	PublicKey cryptox.SigPublicKey
}

// WireWrite writes Type followed by PublicKey.
func (e Entity) WireWrite(w *wire.Writer) {
	e.Type.WireWrite(w)
	e.PublicKey.WireWrite(w)
}

// WireSize is always EntityWireSize.
func (Entity) WireSize() int { return EntityWireSize }

// ReadEntity reads a fixed-size Entity.
func ReadEntity(r *wire.Reader) (Entity, error) {
	t, err := ReadEntityType(r)
	if err != nil {
		return Entity{}, err
	}
	pub, err := cryptox.ReadSigPublicKey(r)
	if err != nil {
		return Entity{}, err
	}
	return Entity{Type: t, PublicKey: pub}, nil
}

// SkipEntity advances past an encoded Entity without decoding it.
func SkipEntity(r *wire.Reader) error { return wire.SkipFixed(r, EntityWireSize) }

// Equal compares two entities field-by-field (Type plainly, PublicKey in
// constant time).
func (e Entity) Equal(other Entity) bool {
	return e.Type == other.Type && e.PublicKey.Equal(other.PublicKey)
}
