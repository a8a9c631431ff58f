package mesh

import (
	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

// attestationTypeUUID binds Attestation into every seal/unseal operation,
// keeping it cryptographically distinct from Envelope despite the two
// sharing the Entity+payload shape.
var attestationTypeUUID = wire.UUID{
	0x6d, 0x65, 0x73, 0x68, 0x77, 0x69, 0x72, 0x65,
	0x2e, 0x61, 0x74, 0x74, 0x65, 0x73, 0x74, 0x2e,
}

// Attestation is a signed claim set issued by an entity at a point in time.
// Its signer is always the attestor's own public key.
type Attestation struct {
	Attestor Entity
	Time     Instant
	Claims   Claims
}

// TypeUUID implements container.Typed.
func (Attestation) TypeUUID() wire.UUID { return attestationTypeUUID }

// Signer implements container.Signable: an attestation is always signed by
// its own attestor.
func (a Attestation) Signer() cryptox.SigPublicKey { return a.Attestor.PublicKey }

// WireWrite writes Attestor, Time, then Claims in that order.
func (a Attestation) WireWrite(w *wire.Writer) {
	a.Attestor.WireWrite(w)
	a.Time.WireWrite(w)
	a.Claims.WireWrite(w)
}

// WireSize is the sum of the attestor, time, and claims sizes.
func (a Attestation) WireSize() int {
	return EntityWireSize + InstantWireSize + a.Claims.WireSize()
}

// ReadAttestation reads an Attestation.
func ReadAttestation(r *wire.Reader) (Attestation, error) {
	attestor, err := ReadEntity(r)
	if err != nil {
		return Attestation{}, err
	}
	t, err := ReadInstant(r)
	if err != nil {
		return Attestation{}, err
	}
	claims, err := ReadClaims(r)
	if err != nil {
		return Attestation{}, err
	}
	return Attestation{Attestor: attestor, Time: t, Claims: claims}, nil
}
