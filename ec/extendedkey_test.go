package ec

import "testing"

func TestMasterKeyDerivation(t *testing.T) {
	seed := []byte("go-sdk extended key test seed, at least 16 bytes")
	master, err := NewMasterExtendedKey(seed)
	if err != nil {
		t.Fatalf("NewMasterExtendedKey: %v", err)
	}
	if !master.IsPrivate() {
		t.Fatal("master key derived from a seed must be private")
	}
}

func TestMasterKeyDeterministic(t *testing.T) {
	seed := []byte("go-sdk extended key test seed, at least 16 bytes")
	a, err := NewMasterExtendedKey(seed)
	if err != nil {
		t.Fatalf("NewMasterExtendedKey: %v", err)
	}
	b, err := NewMasterExtendedKey(seed)
	if err != nil {
		t.Fatalf("NewMasterExtendedKey: %v", err)
	}
	ap, _ := a.PrivateKey()
	bp, _ := b.PrivateKey()
	if !ap.Equal(bp) {
		t.Fatal("same seed must always produce the same master key")
	}
}

func TestNonHardenedChildMatchesFromNeutered(t *testing.T) {
	seed := []byte("go-sdk extended key test seed, at least 16 bytes")
	master, err := NewMasterExtendedKey(seed)
	if err != nil {
		t.Fatalf("NewMasterExtendedKey: %v", err)
	}

	childFromPriv, err := master.Child(0)
	if err != nil {
		t.Fatalf("Child: %v", err)
	}

	neutered := master.Neuter()
	childFromPub, err := neutered.Child(0)
	if err != nil {
		t.Fatalf("Child on neutered key: %v", err)
	}

	if !childFromPriv.PublicKey().IsEqual(childFromPub.PublicKey()) {
		t.Fatal("non-hardened derivation from a public-only parent must match the private path")
	}
}

func TestHardenedChildRequiresPrivateParent(t *testing.T) {
	seed := []byte("go-sdk extended key test seed, at least 16 bytes")
	master, err := NewMasterExtendedKey(seed)
	if err != nil {
		t.Fatalf("NewMasterExtendedKey: %v", err)
	}
	neutered := master.Neuter()

	if _, err := neutered.Child(HardenedKeyStart); err == nil {
		t.Fatal("expected an error deriving a hardened child from a public-only key")
	}
}

func TestChildIndexChangesKey(t *testing.T) {
	seed := []byte("go-sdk extended key test seed, at least 16 bytes")
	master, err := NewMasterExtendedKey(seed)
	if err != nil {
		t.Fatalf("NewMasterExtendedKey: %v", err)
	}

	c0, err := master.Child(0)
	if err != nil {
		t.Fatalf("Child(0): %v", err)
	}
	c1, err := master.Child(1)
	if err != nil {
		t.Fatalf("Child(1): %v", err)
	}
	if c0.PublicKey().IsEqual(c1.PublicKey()) {
		t.Fatal("different child indices must derive different keys")
	}
}
