package mesh

import (
	"fmt"

	"meshwire.dev/core/wire"
)

// MessageKind is the wire discriminant of a Message variant (spec.md §6).
type MessageKind uint16

const (
	MessageKindPadding       MessageKind = 0x0000
	MessageKindAttestation   MessageKind = 0x0001
	MessageKindEnvelope      MessageKind = 0x0002
	MessageKindHaveBlock     MessageKind = 0x0100
	MessageKindWantBlock     MessageKind = 0x0101
	MessageKindDontWantBlock MessageKind = 0x0102
)

func (k MessageKind) String() string {
	switch k {
	case MessageKindPadding:
		return "Padding"
	case MessageKindAttestation:
		return "Attestation"
	case MessageKindEnvelope:
		return "Envelope"
	case MessageKindHaveBlock:
		return "HaveBlock"
	case MessageKindWantBlock:
		return "WantBlock"
	case MessageKindDontWantBlock:
		return "DontWantBlock"
	default:
		return fmt.Sprintf("MessageKind(0x%04x)", uint16(k))
	}
}

// WantBlockBody is the body of a WantBlock message: the block requested and
// the priority of the request.
type WantBlockBody struct {
	ID       BlockID
	Priority Priority
}

func (b WantBlockBody) WireWrite(w *wire.Writer) {
	b.ID.WireWrite(w)
	b.Priority.WireWrite(w)
}

func (WantBlockBody) WireSize() int { return BlockIDWireSize + PriorityWireSize }

func readWantBlockBody(r *wire.Reader) (WantBlockBody, error) {
	id, err := ReadBlockID(r)
	if err != nil {
		return WantBlockBody{}, err
	}
	priority, err := ReadPriority(r)
	if err != nil {
		return WantBlockBody{}, err
	}
	return WantBlockBody{ID: id, Priority: priority}, nil
}

// Message is the protocol's tagged union. Exactly one field beyond Kind is
// meaningful per variant; a struct-plus-discriminant (per spec.md §9 Design
// Notes, for targets without native sum types) stands in for the original's
// enum. Build values with the New* constructors rather than setting Kind
// and the payload fields directly.
type Message struct {
	Kind MessageKind

	PaddingLen    int
	Attestation   Attestation
	Envelope      Envelope
	HaveBlock     *Block
	WantBlock     WantBlockBody
	DontWantBlock BlockID
}

func NewPadding(n int) Message { return Message{Kind: MessageKindPadding, PaddingLen: n} }

func NewAttestationMessage(a Attestation) Message {
	return Message{Kind: MessageKindAttestation, Attestation: a}
}

func NewEnvelopeMessage(e Envelope) Message {
	return Message{Kind: MessageKindEnvelope, Envelope: e}
}

func NewHaveBlock(b *Block) Message { return Message{Kind: MessageKindHaveBlock, HaveBlock: b} }

func NewWantBlock(id BlockID, priority Priority) Message {
	return Message{Kind: MessageKindWantBlock, WantBlock: WantBlockBody{ID: id, Priority: priority}}
}

func NewDontWantBlock(id BlockID) Message {
	return Message{Kind: MessageKindDontWantBlock, DontWantBlock: id}
}

// WireWrite writes the discriminant followed by the variant's
// length-prefixed nested body.
func (m Message) WireWrite(w *wire.Writer) {
	wire.PutU16(w, uint16(m.Kind))
	switch m.Kind {
	case MessageKindPadding:
		wire.PutVarLenFill(w, 0, m.PaddingLen)
	case MessageKindAttestation:
		wire.NestedWrite(w, m.Attestation)
	case MessageKindEnvelope:
		wire.NestedWrite(w, m.Envelope)
	case MessageKindHaveBlock:
		wire.NestedWrite(w, m.HaveBlock)
	case MessageKindWantBlock:
		wire.NestedWrite(w, m.WantBlock)
	case MessageKindDontWantBlock:
		wire.NestedWrite(w, m.DontWantBlock)
	default:
		panic(fmt.Sprintf("mesh: WireWrite: unknown message kind %v", m.Kind))
	}
}

// WireSize is the discriminant plus the variant's nested frame size.
func (m Message) WireSize() int {
	const discriminantSize = 2
	switch m.Kind {
	case MessageKindPadding:
		return discriminantSize + wire.USizeWireSize + m.PaddingLen
	case MessageKindAttestation:
		return discriminantSize + wire.NestedWireSize(m.Attestation)
	case MessageKindEnvelope:
		return discriminantSize + wire.NestedWireSize(m.Envelope)
	case MessageKindHaveBlock:
		return discriminantSize + wire.NestedWireSize(m.HaveBlock)
	case MessageKindWantBlock:
		return discriminantSize + wire.NestedWireSize(m.WantBlock)
	case MessageKindDontWantBlock:
		return discriminantSize + wire.NestedWireSize(m.DontWantBlock)
	default:
		panic(fmt.Sprintf("mesh: WireSize: unknown message kind %v", m.Kind))
	}
}

// ReadMessage reads a discriminant and decodes the corresponding variant,
// rejecting any discriminant outside the six defined kinds.
func ReadMessage(r *wire.Reader) (Message, error) {
	code, err := wire.ReadU16(r)
	if err != nil {
		return Message{}, err
	}
	switch MessageKind(code) {
	case MessageKindPadding:
		n, err := wire.SkipVarLen(r)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageKindPadding, PaddingLen: n}, nil
	case MessageKindAttestation:
		a, err := wire.NestedRead(r, ReadAttestation)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageKindAttestation, Attestation: a}, nil
	case MessageKindEnvelope:
		e, err := wire.NestedRead(r, ReadEnvelope)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageKindEnvelope, Envelope: e}, nil
	case MessageKindHaveBlock:
		b, err := wire.NestedRead(r, ReadBlock)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageKindHaveBlock, HaveBlock: b}, nil
	case MessageKindWantBlock:
		body, err := wire.NestedRead(r, readWantBlockBody)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageKindWantBlock, WantBlock: body}, nil
	case MessageKindDontWantBlock:
		id, err := wire.NestedRead(r, ReadBlockID)
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageKindDontWantBlock, DontWantBlock: id}, nil
	default:
		return Message{}, fmt.Errorf("%w: unknown message discriminant 0x%04x", wire.Error, code)
	}
}

// SkipMessage advances past an encoded message without decoding its body,
// and unlike ReadMessage succeeds for any discriminant: the nested
// length-prefixed frame can always be skipped without knowing its shape.
func SkipMessage(r *wire.Reader) error {
	if _, err := wire.ReadU16(r); err != nil {
		return err
	}
	_, err := wire.SkipVarLen(r)
	return err
}
