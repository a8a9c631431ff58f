package container

import (
	"fmt"

	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

// Signed is a signed payload: the signer's public key, the serialized
// payload bytes, and the detached signature.
type Signed struct {
	Signer    cryptox.SigPublicKey
	Payload   []byte
	Signature cryptox.Signature
}

// WireWrite writes Signer, a length-prefixed Payload, and Signature in
// that order.
func (s Signed) WireWrite(w *wire.Writer) {
	s.Signer.WireWrite(w)
	wire.PutVarLen(w, s.Payload)
	s.Signature.WireWrite(w)
}

// WireSize is the sum of the signer, length-prefixed payload, and signature.
func (s Signed) WireSize() int {
	return cryptox.SigPublicKeyWireSize + wire.USizeWireSize + len(s.Payload) + cryptox.SignatureWireSize
}

// ReadSigned reads a Signed container.
func ReadSigned(r *wire.Reader) (Signed, error) {
	signer, err := cryptox.ReadSigPublicKey(r)
	if err != nil {
		return Signed{}, err
	}
	payload, err := wire.ReadVarLen(r)
	if err != nil {
		return Signed{}, err
	}
	signature, err := cryptox.ReadSignature(r)
	if err != nil {
		return Signed{}, err
	}
	owned := append([]byte(nil), payload...)
	return Signed{Signer: signer, Payload: owned, Signature: signature}, nil
}

// SkipSigned advances past an encoded Signed container without decoding it.
func SkipSigned(r *wire.Reader) error {
	if err := cryptox.SkipSigPublicKey(r); err != nil {
		return err
	}
	if _, err := wire.SkipVarLen(r); err != nil {
		return err
	}
	return cryptox.SkipSignature(r)
}

// Signable is any Typed, wire-serializable payload that additionally
// declares who is meant to have signed it. seal/unseal re-derive this
// signer from the decoded payload and compare it against the stored
// signer, defeating a signer-substitution attack where an attacker pairs a
// valid payload with a different signer field (spec.md §4.3).
type Signable interface {
	Typed
	wire.Serializable
	Signer() cryptox.SigPublicKey
}

// Seal asserts that key's public key matches payload.Signer(), serializes
// payload, signs the type-UUID-and-signer-prefixed composite, and returns
// the resulting Signed container.
//
// Seal panics if key's public key does not match payload.Signer(): this is
// a caller programming error (sealing a value on behalf of the wrong
// identity), not a recoverable runtime condition, matching the original's
// assert_eq! at the same point.
func Seal[T Signable](payload T, key cryptox.SigPrivateKey) Signed {
	signer := key.PublicKey()
	if !signer.Equal(payload.Signer()) {
		panic("container: seal: private key does not match payload.Signer()")
	}
	body := wire.Serialize(payload)
	prepared := preparePayload(payload.TypeUUID(), signer, body)
	signature := key.Sign(prepared)
	return Signed{Signer: signer, Payload: body, Signature: signature}
}

// Unseal reconstructs the signed composite using signed.Signer, verifies
// the signature, wire-deserializes the payload with read, and requires the
// decoded value's Signer() to equal signed.Signer.
func Unseal[T Signable](signed Signed, typeUUID wire.UUID, read func(*wire.Reader) (T, error)) (T, error) {
	var zero T
	prepared := preparePayload(typeUUID, signed.Signer, signed.Payload)
	if err := signed.Signer.Verify(prepared, signed.Signature); err != nil {
		return zero, fmt.Errorf("container: unseal: %w", err)
	}
	value, err := wire.Deserialize(signed.Payload, read)
	if err != nil {
		return zero, fmt.Errorf("container: unseal: decode payload: %w", err)
	}
	if !value.Signer().Equal(signed.Signer) {
		return zero, fmt.Errorf("container: unseal: decoded payload's signer does not match Signed.Signer: %w", wire.Error)
	}
	return value, nil
}

func preparePayload(typeUUID wire.UUID, signer cryptox.SigPublicKey, payload []byte) []byte {
	w := wire.NewWriter(wire.UUIDWireSize + cryptox.SigPublicKeyWireSize + len(payload))
	typeUUID.WireWrite(w)
	signer.WireWrite(w)
	w.PutSlice(payload)
	return w.Bytes()
}
