package mesh

import "meshwire.dev/core/wire"

// messagesTypeUUID binds Messages into every encrypt/decrypt operation when
// it is carried as an Envelope payload.
var messagesTypeUUID = wire.UUID{
	0x6d, 0x65, 0x73, 0x68, 0x77, 0x69, 0x72, 0x65,
	0x2e, 0x6d, 0x73, 0x67, 0x73, 0x2e, 0x76, 0x31,
}

// Messages is a length-prefixed sequence of Message. It is itself
// Encryptable so a batch of messages can be carried as an Envelope's
// encrypted payload (spec.md §4.4).
type Messages []Message

// TypeUUID implements container.Typed.
func (Messages) TypeUUID() wire.UUID { return messagesTypeUUID }

// WireWrite writes the sequence's count followed by each message in order.
func (m Messages) WireWrite(w *wire.Writer) { wire.WriteSequence(w, []Message(m)) }

// WireSize is the sequence's count prefix plus each message's own size.
func (m Messages) WireSize() int { return wire.SequenceWireSize([]Message(m)) }

// ReadMessages reads a length-prefixed sequence of Message.
func ReadMessages(r *wire.Reader) (Messages, error) {
	items, err := wire.ReadSequence(r, ReadMessage)
	if err != nil {
		return nil, err
	}
	return Messages(items), nil
}
