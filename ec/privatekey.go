package ec

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/primitives"
)

// PrivateKey owns a secp256k1 scalar d with 1 <= d <= n-1.
// The scalar is the sole owner of its backing bytes; callers must never
// log, copy into panics, or serialize a PrivateKey's raw value. Zero
// best-effort-wipes the backing storage once a PrivateKey is no longer
// needed.
type PrivateKey struct {
	d *big.Int
}

// GeneratePrivateKey produces a new PrivateKey from the system CSPRNG.
// This, fresh keyId sampling (brc77/brc78), and the brc78 AES-GCM IV are
// the library's only sources of nondeterminism.
func GeneratePrivateKey() (*PrivateKey, error) {
	k, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "generating private key: %v", err)
	}
	raw := k.Serialize()
	var b [32]byte
	copy(b[:], raw)
	return PrivateKeyFromBytes(b)
}

// PrivateKeyFromBytes wraps an explicit 32-byte scalar, rejecting values
// outside [1, n-1].
func PrivateKeyFromBytes(b [32]byte) (*PrivateKey, error) {
	d := new(big.Int).SetBytes(b[:])
	if d.Sign() == 0 || d.Cmp(primitives.N()) >= 0 {
		return nil, errs.New(errs.OutOfRangeScalar, "private key scalar out of [1, n-1]")
	}
	return &PrivateKey{d: d}, nil
}

// Bytes returns the 32-byte big-endian scalar as a fresh array; the
// PrivateKey keeps no reference to it.
func (p *PrivateKey) Bytes() [32]byte {
	return primitives.FieldBytes(p.d)
}

// Zero overwrites the in-memory scalar. Best-effort: Go's GC may retain
// copies made by prior arithmetic, but this bounds the window a live
// reference to the raw bytes exists.
func (p *PrivateKey) Zero() {
	if p.d != nil {
		p.d.SetInt64(0)
	}
}

// PubKey derives the corresponding PublicKey (P = d*G).
func (p *PrivateKey) PubKey() *PublicKey {
	point := primitives.ScalarBaseMul(p.d)
	return &PublicKey{point: point}
}

// ECDH computes the compressed-point shared secret with a counterparty
// public key: compressed(d * Q). Used directly by brc42's shared_secret.
func (p *PrivateKey) ECDH(pub *PublicKey) []byte {
	shared := primitives.ScalarMul(p.d, pub.point)
	return primitives.CompressPoint(shared)
}

// Add returns a new PrivateKey whose scalar is (d + k) mod n, rejecting
// a result of exactly 0. This is the private half of BRC-42 child
// derivation.
func (p *PrivateKey) Add(k *big.Int) (*PrivateKey, error) {
	sum := new(big.Int).Add(p.d, k)
	sum.Mod(sum, primitives.N())
	if sum.Sign() == 0 {
		return nil, errs.New(errs.OutOfRangeScalar, "derived private key scalar is zero")
	}
	return &PrivateKey{d: sum}, nil
}

// scalar exposes the raw big.Int to this package's own signing code
// without widening the public API surface.
func (p *PrivateKey) scalar() *big.Int { return p.d }

// Equal reports whether two private keys hold the same scalar.
func (p *PrivateKey) Equal(other *PrivateKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.d.Cmp(other.d) == 0
}
