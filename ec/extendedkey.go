package ec

import (
	"crypto/hmac"
	"crypto/sha512"
	"math/big"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/primitives"
)

// HardenedKeyStart is the first hardened child index, mirroring BIP32.
const HardenedKeyStart = uint32(0x80000000)

// ExtendedKey is a BIP32-style hierarchical-deterministic key: either a
// private or a public extended key, carrying a 32-byte chain code plus
// enough ancestry metadata (depth, parent fingerprint, child index) to
// support hardened and non-hardened derivation. This supplements the
// BRC-42 invoice-based derivation with the tree-shaped scheme wallets
// commonly layer on top of it.
type ExtendedKey struct {
	priv              *PrivateKey
	pub               *PublicKey
	chainCode         [32]byte
	depth             byte
	parentFingerprint [4]byte
	childIndex        uint32
}

// NewMasterExtendedKey derives a master key from arbitrary seed bytes
// via HMAC-SHA512 keyed by "Bitcoin seed", exactly as BIP32 specifies.
func NewMasterExtendedKey(seed []byte) (*ExtendedKey, error) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)

	var d [32]byte
	copy(d[:], sum[:32])
	priv, err := PrivateKeyFromBytes(d)
	if err != nil {
		return nil, errs.Newf(errs.OutOfRangeScalar, "seed produced invalid master scalar: %v", err)
	}

	ek := &ExtendedKey{priv: priv, pub: priv.PubKey(), depth: 0, childIndex: 0}
	copy(ek.chainCode[:], sum[32:])
	return ek, nil
}

// IsPrivate reports whether this key can derive private children.
func (e *ExtendedKey) IsPrivate() bool { return e.priv != nil }

// PrivateKey returns the held private key, or an error for a public-only
// extended key.
func (e *ExtendedKey) PrivateKey() (*PrivateKey, error) {
	if e.priv == nil {
		return nil, errs.New(errs.InvalidParameter, "extended key holds no private key")
	}
	return e.priv, nil
}

// PublicKey returns the held (or derived) public key.
func (e *ExtendedKey) PublicKey() *PublicKey {
	return e.pub
}

// Neuter strips the private key, leaving a public-only extended key
// that can still derive non-hardened public children.
func (e *ExtendedKey) Neuter() *ExtendedKey {
	return &ExtendedKey{
		pub:               e.pub,
		chainCode:         e.chainCode,
		depth:             e.depth,
		parentFingerprint: e.parentFingerprint,
		childIndex:        e.childIndex,
	}
}

// fingerprint is the first 4 bytes of Hash160(compressed pubkey).
func (e *ExtendedKey) fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], btcutil.Hash160(e.pub.SerializeCompressed())[:4])
	return fp
}

// Child derives the extended key at the given index. Indices at or
// above HardenedKeyStart require a private parent.
func (e *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	hardened := index >= HardenedKeyStart
	if hardened && e.priv == nil {
		return nil, errs.New(errs.InvalidParameter, "cannot derive a hardened child from a public-only extended key")
	}

	var data []byte
	if hardened {
		raw := e.priv.Bytes()
		data = append([]byte{0x00}, raw[:]...)
	} else {
		data = e.pub.SerializeCompressed()
	}
	var idx [4]byte
	idx[0] = byte(index >> 24)
	idx[1] = byte(index >> 16)
	idx[2] = byte(index >> 8)
	idx[3] = byte(index)
	data = append(data, idx[:]...)

	mac := hmac.New(sha512.New, e.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)

	il := new(big.Int).SetBytes(sum[:32])
	if il.Cmp(primitives.N()) >= 0 {
		return nil, errs.New(errs.OutOfRangeScalar, "derived Il is out of range, choose a different index")
	}

	child := &ExtendedKey{depth: e.depth + 1, childIndex: index, parentFingerprint: e.fingerprint()}
	copy(child.chainCode[:], sum[32:])

	if e.priv != nil {
		childPriv, err := e.priv.Add(il)
		if err != nil {
			return nil, err
		}
		child.priv = childPriv
		child.pub = childPriv.PubKey()
	} else {
		child.pub = e.pub.Add(il)
	}
	return child, nil
}
