package mesh

import (
	"meshwire.dev/core/container"
	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

// envelopeTypeUUID binds Envelope into every seal/unseal operation.
var envelopeTypeUUID = wire.UUID{
	0x6d, 0x65, 0x73, 0x68, 0x77, 0x69, 0x72, 0x65,
	0x2e, 0x65, 0x6e, 0x76, 0x65, 0x6c, 0x2e, 0x76,
}

// Envelope is a signed outer container carrying an encrypted inner
// payload. Its signer is always the sender's own public key.
type Envelope struct {
	Sender    Entity
	Recipient Entity
	Payload   container.Encrypted
}

// TypeUUID implements container.Typed.
func (Envelope) TypeUUID() wire.UUID { return envelopeTypeUUID }

// Signer implements container.Signable: an envelope is always signed by
// its own sender.
func (e Envelope) Signer() cryptox.SigPublicKey { return e.Sender.PublicKey }

// WireWrite writes Sender, Recipient, then the nested Payload.
func (e Envelope) WireWrite(w *wire.Writer) {
	e.Sender.WireWrite(w)
	e.Recipient.WireWrite(w)
	e.Payload.WireWrite(w)
}

// WireSize is the sum of the sender, recipient, and payload sizes.
func (e Envelope) WireSize() int {
	return EntityWireSize + EntityWireSize + e.Payload.WireSize()
}

// ReadEnvelope reads an Envelope.
func ReadEnvelope(r *wire.Reader) (Envelope, error) {
	sender, err := ReadEntity(r)
	if err != nil {
		return Envelope{}, err
	}
	recipient, err := ReadEntity(r)
	if err != nil {
		return Envelope{}, err
	}
	payload, err := container.ReadEncrypted(r)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Sender: sender, Recipient: recipient, Payload: payload}, nil
}
