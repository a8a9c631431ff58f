package mesh

import (
	"bytes"
	"testing"

	"meshwire.dev/core/container"
	"meshwire.dev/core/cryptox"
	"meshwire.dev/core/wire"
)

func TestEntityTypeUnknownCodeRejected(t *testing.T) {
	w := wire.NewWriter(2)
	wire.PutU16(w, 0xFFFF)
	if _, err := ReadEntityType(wire.NewReader(w.Bytes())); err == nil {
		t.Fatalf("expected rejection of unknown entity type code")
	}
}

func TestPriorityOrdering(t *testing.T) {
	if !(PriorityLeast.Less(PriorityLow) && PriorityLow.Less(PriorityMedium) && PriorityMedium.Less(PriorityHigh)) {
		t.Fatalf("expected Least < Low < Medium < High")
	}
}

func TestPriorityUnknownCodeRejected(t *testing.T) {
	w := wire.NewWriter(1)
	wire.PutU8(w, 0xFF)
	if _, err := ReadPriority(wire.NewReader(w.Bytes())); err == nil {
		t.Fatalf("expected rejection of unknown priority code")
	}
}

func TestDurationFromNanosecondsMinSentinel(t *testing.T) {
	if FromNanoseconds(-MaxNanos) != DurationMin {
		t.Fatalf("expected FromNanoseconds(-MaxNanos) == DurationMin")
	}
}

func TestDurationSaturatingAdd(t *testing.T) {
	if got := DurationMax.Add(DurationMax); got != DurationMax {
		t.Fatalf("expected MAX+MAX to saturate at MAX, got %d", got)
	}
	if got := DurationMin.Add(DurationMin); got != DurationMin {
		t.Fatalf("expected MIN+MIN to saturate at MIN, got %d", got)
	}
	if got := DurationMax.Neg(); got != DurationMin {
		t.Fatalf("expected -MAX == MIN, got %d", got)
	}
	if got := DurationMin.Neg(); got != DurationMax {
		t.Fatalf("expected -MIN == MAX, got %d", got)
	}
}

func TestInstantArithmeticMirrorsDuration(t *testing.T) {
	base := InstantFromNanoseconds(1_000_000)
	later := base.Add(FromNanoseconds(500))
	if got := later.Sub(base); got != FromNanoseconds(500) {
		t.Fatalf("got %d want 500", got)
	}
	if got := InstantMax.Add(DurationMax); got != InstantMax {
		t.Fatalf("expected instant addition to saturate at InstantMax")
	}
}

func TestBlockIDDeterministicAndSensitiveToFlippedByte(t *testing.T) {
	var b Block
	for i := range b {
		b[i] = 0xAA
	}
	id1 := ComputeBlockID(&b)
	id2 := ComputeBlockID(&b)
	if !id1.Equal(id2) {
		t.Fatalf("expected deterministic block id")
	}
	b[0] ^= 0x01
	id3 := ComputeBlockID(&b)
	if id1.Equal(id3) {
		t.Fatalf("expected block id to change with a single flipped byte")
	}
}

func TestWantBlockMessageRoundTripAndByteShape(t *testing.T) {
	var digestBytes [32]byte
	for i := range digestBytes {
		digestBytes[i] = 0xAA
	}
	var digest cryptox.Digest
	copy(digest[:], digestBytes[:])
	id := BlockID{Digest: digest}

	msg := NewWantBlock(id, PriorityHigh)
	buf := wire.Serialize(msg)

	// Discriminant 0x0101 -> bytes 01 01.
	if buf[0] != 0x01 || buf[1] != 0x01 {
		t.Fatalf("expected discriminant bytes 01 01, got %02x %02x", buf[0], buf[1])
	}
	// usize length prefix (big-endian u32) covering 33 bytes: 32 digest + 1 priority.
	length := uint32(buf[2])<<24 | uint32(buf[3])<<16 | uint32(buf[4])<<8 | uint32(buf[5])
	if length != 33 {
		t.Fatalf("expected body length 33, got %d", length)
	}
	if len(buf) != 2+4+33 {
		t.Fatalf("unexpected total encoded length %d", len(buf))
	}

	decoded, err := wire.Deserialize(buf, ReadMessage)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != MessageKindWantBlock {
		t.Fatalf("wrong kind: %v", decoded.Kind)
	}
	if !decoded.WantBlock.ID.Equal(id) || decoded.WantBlock.Priority != PriorityHigh {
		t.Fatalf("round-trip mismatch: %+v", decoded.WantBlock)
	}
}

func TestUnknownMessageDiscriminantRejectedByReadAcceptedBySkip(t *testing.T) {
	w := wire.NewWriter(6)
	wire.PutU16(w, 0xFFFF)
	wire.PutVarLen(w, nil)
	buf := w.Bytes()

	if _, err := ReadMessage(wire.NewReader(buf)); err == nil {
		t.Fatalf("expected ReadMessage to reject unknown discriminant")
	}

	r := wire.NewReader(buf)
	if err := SkipMessage(r); err != nil {
		t.Fatalf("expected SkipMessage to succeed on unknown discriminant: %v", err)
	}
	if !r.AtEnd() {
		t.Fatalf("expected SkipMessage to consume the whole buffer")
	}
}

func TestEnvelopeSealUnseal(t *testing.T) {
	senderKey, err := cryptox.GenerateSigPrivateKey()
	if err != nil {
		t.Fatalf("sender key: %v", err)
	}
	defer senderKey.Destroy()
	recipientKey, err := cryptox.GenerateSigPrivateKey()
	if err != nil {
		t.Fatalf("recipient key: %v", err)
	}
	defer recipientKey.Destroy()
	otherKey, err := cryptox.GenerateSigPrivateKey()
	if err != nil {
		t.Fatalf("other key: %v", err)
	}
	defer otherKey.Destroy()

	aeadKey, err := cryptox.GenerateAEADKey()
	if err != nil {
		t.Fatalf("aead key: %v", err)
	}
	defer aeadKey.Destroy()
	nonce, err := cryptox.GenerateNonce()
	if err != nil {
		t.Fatalf("nonce: %v", err)
	}

	payload := Messages{NewPadding(4)}
	encrypted, err := container.Encrypt(payload, aeadKey, nonce, nil)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	envelope := Envelope{
		Sender:    Entity{Type: EntityTypeNode, PublicKey: senderKey.PublicKey()},
		Recipient: Entity{Type: EntityTypeEndpoint, PublicKey: recipientKey.PublicKey()},
		Payload:   encrypted,
	}

	signed := container.Seal(envelope, senderKey)

	got, err := container.Unseal(signed, envelopeTypeUUID, ReadEnvelope)
	if err != nil {
		t.Fatalf("unseal: %v", err)
	}
	if !got.Sender.Equal(envelope.Sender) || !got.Recipient.Equal(envelope.Recipient) {
		t.Fatalf("unsealed envelope mismatch")
	}

	decrypted, err := container.Decrypt(got.Payload, aeadKey, nil, messagesTypeUUID, ReadMessages)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if len(decrypted) != 1 || decrypted[0].Kind != MessageKindPadding || decrypted[0].PaddingLen != 4 {
		t.Fatalf("unexpected decrypted messages: %+v", decrypted)
	}

	// Rewriting the sender to a different key must fail unsealing: the
	// signature was computed binding the original sender, and even if it
	// happened to verify, the decoded envelope's own Signer() (still the
	// original sender) would disagree with the substituted signer.
	tampered := signed
	tampered.Signer = otherKey.PublicKey()
	if _, err := container.Unseal(tampered, envelopeTypeUUID, ReadEnvelope); err == nil {
		t.Fatalf("expected unseal failure after signer substitution")
	}
}

func TestMessagesAssociatedDataBinding(t *testing.T) {
	key, err := cryptox.GenerateAEADKey()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	defer key.Destroy()
	nonce, err := cryptox.GenerateNonce()
	if err != nil {
		t.Fatalf("nonce: %v", err)
	}

	payload := Messages{NewPadding(4)}
	extraX := wire.UUID{0xAA}
	extraY := wire.UUID{0xBB}

	enc, err := container.Encrypt(payload, key, nonce, extraX)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := container.Decrypt(enc, key, extraY, messagesTypeUUID, ReadMessages); err == nil {
		t.Fatalf("expected decrypt failure with mismatched extra associated data")
	}

	got, err := container.Decrypt(enc, key, extraX, messagesTypeUUID, ReadMessages)
	if err != nil {
		t.Fatalf("decrypt with matching extra: %v", err)
	}
	if len(got) != 1 || got[0].PaddingLen != 4 {
		t.Fatalf("unexpected decrypted messages: %+v", got)
	}
}

func TestAttestationSealUnseal(t *testing.T) {
	key, err := cryptox.GenerateSigPrivateKey()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	defer key.Destroy()

	attestation := Attestation{
		Attestor: Entity{Type: EntityTypeNode, PublicKey: key.PublicKey()},
		Time:     InstantFromNanoseconds(123456),
		Claims:   Claims{{Tag: 1, Body: []byte("claim body")}},
	}
	signed := container.Seal(attestation, key)
	got, err := container.Unseal(signed, attestationTypeUUID, ReadAttestation)
	if err != nil {
		t.Fatalf("unseal: %v", err)
	}
	if got.Time != attestation.Time || len(got.Claims) != 1 || !bytes.Equal(got.Claims[0].Body, []byte("claim body")) {
		t.Fatalf("unsealed attestation mismatch: %+v", got)
	}
}
