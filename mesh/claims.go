package mesh

import "meshwire.dev/core/wire"

// Claim is an opaque, application-tagged assertion body. The core does not
// interpret Tag; it is an application-assigned namespace so Attestation has
// a concrete, round-trippable payload without this module inventing
// upper-layer claim semantics (spec.md leaves the claim shape out of
// scope; see DESIGN.md).
type Claim struct {
	Tag  uint16
	Body []byte
}

// WireWrite writes Tag followed by a length-prefixed Body.
func (c Claim) WireWrite(w *wire.Writer) {
	wire.PutU16(w, c.Tag)
	wire.PutVarLen(w, c.Body)
}

// WireSize is the sum of the tag and the length-prefixed body.
func (c Claim) WireSize() int {
	return 2 + wire.USizeWireSize + len(c.Body)
}

// ReadClaim reads a single Claim.
func ReadClaim(r *wire.Reader) (Claim, error) {
	tag, err := wire.ReadU16(r)
	if err != nil {
		return Claim{}, err
	}
	body, err := wire.ReadVarLen(r)
	if err != nil {
		return Claim{}, err
	}
	return Claim{Tag: tag, Body: append([]byte(nil), body...)}, nil
}

// Claims is a length-prefixed sequence of Claim, carried by Attestation.
type Claims []Claim

// WireWrite writes the sequence's count followed by each claim in order.
func (c Claims) WireWrite(w *wire.Writer) { wire.WriteSequence(w, []Claim(c)) }

// WireSize is the sequence's count prefix plus each claim's own size.
func (c Claims) WireSize() int { return wire.SequenceWireSize([]Claim(c)) }

// ReadClaims reads a length-prefixed sequence of Claim.
func ReadClaims(r *wire.Reader) (Claims, error) {
	items, err := wire.ReadSequence(r, ReadClaim)
	if err != nil {
		return nil, err
	}
	return Claims(items), nil
}
