package chain

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
)

func randomSeed(t *testing.T) (string, []byte) {
	t.Helper()
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return encodeStrkey(raw, versionSeed), raw
}

func TestParseSeedRoundTrip(t *testing.T) {
	seed, raw := randomSeed(t)

	if !strings.HasPrefix(seed, "S") {
		t.Fatalf("seed %q does not start with S", seed)
	}
	if len(seed) != 56 {
		t.Fatalf("seed length %d, want 56", len(seed))
	}

	kp, err := ParseSeed(seed)
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}

	wantPub := ed25519.NewKeyFromSeed(raw).Public().(ed25519.PublicKey)
	if !bytes.Equal(kp.PublicKey(), wantPub) {
		t.Fatalf("public key mismatch")
	}

	addr := kp.Address()
	if !strings.HasPrefix(addr, "G") {
		t.Fatalf("address %q does not start with G", addr)
	}
	decoded, err := DecodeAddress(addr)
	if err != nil {
		t.Fatalf("decode address: %v", err)
	}
	if !bytes.Equal(decoded, kp.PublicKey()) {
		t.Fatalf("decoded address does not match public key")
	}
}

func TestParseSeedRejectsCorruption(t *testing.T) {
	seed, _ := randomSeed(t)

	// Flip one character; either the checksum or the base32 decode must fail.
	corrupt := []byte(seed)
	if corrupt[10] == 'A' {
		corrupt[10] = 'B'
	} else {
		corrupt[10] = 'A'
	}
	if _, err := ParseSeed(string(corrupt)); err == nil {
		t.Fatal("expected corrupted seed to be rejected")
	}

	if _, err := ParseSeed(""); err == nil {
		t.Fatal("expected empty seed to be rejected")
	}

	// An address is not a seed.
	kp, err := ParseSeed(seed)
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	if _, err := ParseSeed(kp.Address()); err == nil {
		t.Fatal("expected address to be rejected as seed")
	}
}

func TestSignVerify(t *testing.T) {
	seed, _ := randomSeed(t)
	kp, err := ParseSeed(seed)
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}

	payload := []byte("payload")
	sig := kp.Sign(payload)
	if !ed25519.Verify(ed25519.PublicKey(kp.PublicKey()), payload, sig) {
		t.Fatal("signature does not verify")
	}

	hint := kp.Hint()
	if !bytes.Equal(hint[:], kp.PublicKey()[28:]) {
		t.Fatal("hint is not the public key tail")
	}
}
