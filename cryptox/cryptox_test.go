package cryptox

import (
	"bytes"
	"testing"

	"meshwire.dev/core/wire"
)

func TestECDHRoundTrip(t *testing.T) {
	alice, err := GenerateECDHPrivateKey()
	if err != nil {
		t.Fatalf("alice key: %v", err)
	}
	defer alice.Destroy()
	bob, err := GenerateECDHPrivateKey()
	if err != nil {
		t.Fatalf("bob key: %v", err)
	}
	defer bob.Destroy()

	alicePub, err := alice.PublicKey()
	if err != nil {
		t.Fatalf("alice pub: %v", err)
	}
	bobPub, err := bob.PublicKey()
	if err != nil {
		t.Fatalf("bob pub: %v", err)
	}

	s1, err := alice.DiffieHellman(bobPub)
	if err != nil {
		t.Fatalf("alice dh: %v", err)
	}
	defer s1.Destroy()
	s2, err := bob.DiffieHellman(alicePub)
	if err != nil {
		t.Fatalf("bob dh: %v", err)
	}
	defer s2.Destroy()

	if s1.secret.bytes() != s2.secret.bytes() {
		t.Fatalf("shared secrets differ")
	}
}

func TestECDHRejectsZeroPublicKey(t *testing.T) {
	priv, err := GenerateECDHPrivateKey()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	defer priv.Destroy()
	var zero ECDHPublicKey
	if _, err := priv.DiffieHellman(zero); err == nil {
		t.Fatalf("expected contributory-check rejection of zero public key")
	}
}

func TestHKDFDeterministic(t *testing.T) {
	seed1, err := SeedFromKeyMaterial([]byte("salt"), []byte("ikm"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	defer seed1.Destroy()
	seed2, err := SeedFromKeyMaterial([]byte("salt"), []byte("ikm"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	defer seed2.Destroy()

	var out1, out2 [48]byte
	if err := seed1.ExpandInto([]byte("info"), out1[:]); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if err := seed2.ExpandInto([]byte("info"), out2[:]); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if out1 != out2 {
		t.Fatalf("expected deterministic HKDF output")
	}

	var diff [48]byte
	if err := seed1.ExpandInto([]byte("other-info"), diff[:]); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if diff == out1 {
		t.Fatalf("different info produced identical output")
	}
}

func TestAEADRoundTrip(t *testing.T) {
	key, err := GenerateAEADKey()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	defer key.Destroy()
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("nonce: %v", err)
	}
	plaintext := []byte("the quick brown fox")
	associated := []byte("associated-data")

	buf := append([]byte(nil), plaintext...)
	tag, err := key.EncryptInPlace(nonce, associated, buf)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(buf, plaintext) {
		t.Fatalf("ciphertext equals plaintext")
	}

	if err := key.DecryptInPlace(nonce, associated, buf, tag); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(buf, plaintext) {
		t.Fatalf("got %q want %q", buf, plaintext)
	}
}

func TestAEADBitFlipsFailDecryption(t *testing.T) {
	key, err := GenerateAEADKey()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	defer key.Destroy()
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("nonce: %v", err)
	}
	plaintext := []byte("0123456789abcdef")
	associated := []byte("aad")

	encrypt := func() ([]byte, Tag) {
		buf := append([]byte(nil), plaintext...)
		tag, err := key.EncryptInPlace(nonce, associated, buf)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		return buf, tag
	}

	t.Run("ciphertext flip", func(t *testing.T) {
		buf, tag := encrypt()
		buf[0] ^= 0x01
		if err := key.DecryptInPlace(nonce, associated, buf, tag); err == nil {
			t.Fatalf("expected decrypt failure")
		}
	})
	t.Run("tag flip", func(t *testing.T) {
		buf, tag := encrypt()
		tag[0] ^= 0x01
		if err := key.DecryptInPlace(nonce, associated, buf, tag); err == nil {
			t.Fatalf("expected decrypt failure")
		}
	})
	t.Run("nonce flip", func(t *testing.T) {
		buf, tag := encrypt()
		badNonce := nonce
		badNonce[0] ^= 0x01
		if err := key.DecryptInPlace(badNonce, associated, buf, tag); err == nil {
			t.Fatalf("expected decrypt failure")
		}
	})
	t.Run("associated flip", func(t *testing.T) {
		buf, tag := encrypt()
		badAssoc := append([]byte(nil), associated...)
		badAssoc[0] ^= 0x01
		if err := key.DecryptInPlace(nonce, badAssoc, buf, tag); err == nil {
			t.Fatalf("expected decrypt failure")
		}
	})
}

func TestSignatureRoundTrip(t *testing.T) {
	priv, err := GenerateSigPrivateKey()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	defer priv.Destroy()
	pub := priv.PublicKey()
	msg := []byte("attestation body")
	sig := priv.Sign(msg)
	if err := pub.Verify(msg, sig); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := pub.Verify([]byte("different body"), sig); err == nil {
		t.Fatalf("expected verification failure for altered message")
	}
}

func TestDigestDeterministicAndSensitiveToEveryBit(t *testing.T) {
	typeUUID := wire.UUID{1, 2, 3}
	data := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	d1 := ComputeDigest(typeUUID, data)
	d2 := ComputeDigest(typeUUID, data)
	if !d1.Equal(d2) {
		t.Fatalf("expected deterministic digest")
	}
	for i := 0; i < len(data)*8; i++ {
		flipped := append([]byte(nil), data...)
		flipped[i/8] ^= 1 << (i % 8)
		d3 := ComputeDigest(typeUUID, flipped)
		if d1.Equal(d3) {
			t.Fatalf("digest did not change with bit %d flipped", i)
		}
	}
	otherType := wire.UUID{9, 9, 9}
	d4 := ComputeDigest(otherType, data)
	if d1.Equal(d4) {
		t.Fatalf("digest did not change with different type UUID")
	}
}
