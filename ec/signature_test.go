package ec

import (
	"crypto/sha256"
	"testing"
)

func testKeyAndHash(t *testing.T) (*PrivateKey, [32]byte) {
	t.Helper()
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return priv, sha256.Sum256([]byte("go-sdk signature fixture"))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, hash := testKeyAndHash(t)
	sig, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	ok, err := sig.Verify(hash, priv.PubKey())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected signature to verify")
	}
}

func TestSignatureIsLowS(t *testing.T) {
	priv, hash := testKeyAndHash(t)
	sig, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sig.S.Cmp(halfOrder) > 0 {
		t.Fatal("signature s value is not normalized to the low half of the curve order")
	}
}

func TestSignIsDeterministic(t *testing.T) {
	priv, hash := testKeyAndHash(t)
	a, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	b, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if a.R.Cmp(b.R) != 0 || a.S.Cmp(b.S) != 0 {
		t.Fatal("RFC 6979 signing of identical inputs must be deterministic")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, hash := testKeyAndHash(t)
	other, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}

	sig, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := sig.Verify(hash, other.PubKey())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("signature must not verify against an unrelated public key")
	}
}

func TestVerifyRejectsTamperedHash(t *testing.T) {
	priv, hash := testKeyAndHash(t)
	sig, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tampered := hash
	tampered[0] ^= 0xff

	ok, err := sig.Verify(tampered, priv.PubKey())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("signature must not verify against a tampered hash")
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	priv, hash := testKeyAndHash(t)
	sig, err := Sign(priv, hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	der := sig.Serialize()
	parsed, err := ParseSignature(der)
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if parsed.R.Cmp(sig.R) != 0 || parsed.S.Cmp(sig.S) != 0 {
		t.Fatal("parsed signature does not match original")
	}
}

func TestParseSignatureRejectsGarbage(t *testing.T) {
	if _, err := ParseSignature([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected an error parsing a non-DER buffer")
	}
}
