package brc42

import (
	"encoding/hex"
	"testing"

	"pgregory.net/rapid"

	"github.com/bsv-blockchain/go-sdk/ec"
)

func TestInvoiceNumberValidation(t *testing.T) {
	if _, err := InvoiceNumber(3, "message signing", "abc"); err == nil {
		t.Fatal("expected error for security level out of [0,2]")
	}
	if _, err := InvoiceNumber(0, "msg", "abc"); err == nil {
		t.Fatal("expected error for protocol shorter than 5 chars")
	}
	if _, err := InvoiceNumber(0, "double  space protocol here", "abc"); err == nil {
		t.Fatal("expected error for double space in protocol")
	}
	if _, err := InvoiceNumber(0, "message signing protocol", "abc"); err == nil {
		t.Fatal(`expected error for protocol ending in " protocol"`)
	}
	got, err := InvoiceNumber(2, "message signing", "abc")
	if err != nil {
		t.Fatalf("InvoiceNumber: %v", err)
	}
	if got != "2-message signing-abc" {
		t.Fatalf("got %q", got)
	}
}

func TestDerivationIdentity(t *testing.T) {
	a, err := ec.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	b, err := ec.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}

	invoice, err := InvoiceNumber(0, "message signing", "deadbeef")
	if err != nil {
		t.Fatalf("InvoiceNumber: %v", err)
	}

	childPriv, err := DeriveChildPrivate(a, b.PubKey(), invoice)
	if err != nil {
		t.Fatalf("DeriveChildPrivate: %v", err)
	}
	childPub, err := DeriveChildPublic(a.PubKey(), b, invoice)
	if err != nil {
		t.Fatalf("DeriveChildPublic: %v", err)
	}

	if !childPriv.PubKey().IsEqual(childPub) {
		t.Fatal("derive_child_public(A_pub, B_priv, invoice) must equal to_pub(derive_child_private(A_priv, B_pub, invoice))")
	}
}

func TestDerivationDiffersByInvoice(t *testing.T) {
	a, err := ec.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	b, err := ec.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}

	inv1, _ := InvoiceNumber(0, "message signing", "one")
	inv2, _ := InvoiceNumber(0, "message signing", "two")

	c1, err := DeriveChildPrivate(a, b.PubKey(), inv1)
	if err != nil {
		t.Fatalf("DeriveChildPrivate: %v", err)
	}
	c2, err := DeriveChildPrivate(a, b.PubKey(), inv2)
	if err != nil {
		t.Fatalf("DeriveChildPrivate: %v", err)
	}
	if c1.Equal(c2) {
		t.Fatal("different invoice numbers must derive different child keys")
	}
}

// TestCrossDerivationVector pins the derivation to a fixed vector: with
// root scalar 42 and counterparty scalar 69, protocol "testprotocol" at
// security level 0 and key ID "12345", the ECDH secret between the two
// derived child keys has a known x-coordinate.
func TestCrossDerivationVector(t *testing.T) {
	var aBytes, bBytes [32]byte
	aBytes[31] = 42
	bBytes[31] = 69

	a, err := ec.PrivateKeyFromBytes(aBytes)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	b, err := ec.PrivateKeyFromBytes(bBytes)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}

	invoice, err := InvoiceNumber(0, "testprotocol", "12345")
	if err != nil {
		t.Fatalf("InvoiceNumber: %v", err)
	}
	if invoice != "0-testprotocol-12345" {
		t.Fatalf("invoice: got %q", invoice)
	}

	childA, err := DeriveChildPrivate(a, b.PubKey(), invoice)
	if err != nil {
		t.Fatalf("DeriveChildPrivate: %v", err)
	}
	childBPub, err := DeriveChildPublic(b.PubKey(), a, invoice)
	if err != nil {
		t.Fatalf("DeriveChildPublic: %v", err)
	}

	secret := SharedSecret(childA, childBPub)
	got := hex.EncodeToString(secret[1:])
	if got != "4ce8e868f2006e3fa8fc61ea4bc4be77d397b412b44b4dca047fb7ec3ca7cfd8" {
		t.Fatalf("derived symmetric key: got %s", got)
	}
}

// TestDerivationIdentityProperty is the universally quantified version
// of TestDerivationIdentity, over arbitrary key pairs and key IDs.
func TestDerivationIdentityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var aBytes, bBytes [32]byte
		copy(aBytes[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "a"))
		copy(bBytes[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "b"))

		a, errA := ec.PrivateKeyFromBytes(aBytes)
		b, errB := ec.PrivateKeyFromBytes(bBytes)
		if errA != nil || errB != nil {
			t.Skip("scalar out of range")
		}

		keyID := rapid.StringMatching(`[a-z0-9]{1,16}`).Draw(t, "keyID")
		invoice, err := InvoiceNumber(1, "testprotocol", keyID)
		if err != nil {
			t.Fatalf("InvoiceNumber: %v", err)
		}

		childPriv, err := DeriveChildPrivate(a, b.PubKey(), invoice)
		if err != nil {
			t.Skip("derived scalar rejected")
		}
		childPub, err := DeriveChildPublic(a.PubKey(), b, invoice)
		if err != nil {
			t.Skip("derived scalar rejected")
		}
		if !childPriv.PubKey().IsEqual(childPub) {
			t.Fatal("cross-derivation identity violated")
		}
	})
}
