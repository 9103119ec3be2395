package ec

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/primitives"
)

// Signature is an ECDSA signature (r, s). Sign always emits s normalized
// to the low half of the curve order; ParseSignature accepts any s in
// [1, n-1] and does not normalize it.
type Signature struct {
	R *big.Int
	S *big.Int
}

var halfOrder = new(big.Int).Rsh(primitives.N(), 1)

// Sign produces a low-S, minimally DER-encoded ECDSA signature over a
// 32-byte message hash, using RFC 6979 for the nonce. Both the hashing
// of the message and the choice of what gets hashed are the caller's
// responsibility (sighash, brc77, ...); this function only ever sees
// the 32-byte digest.
func Sign(priv *PrivateKey, msgHash [32]byte) (*Signature, error) {
	n := primitives.N()
	e := new(big.Int).SetBytes(msgHash[:])
	e.Mod(e, n)

	drbg := newRFC6979(priv.Bytes(), msgHash)

	for {
		k := drbg.Next()

		point := primitives.ScalarBaseMul(k)
		if point.Infinity {
			continue
		}
		r := new(big.Int).Mod(point.X, n)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, n)
		if kInv == nil {
			continue
		}
		s := new(big.Int).Mul(r, priv.scalar())
		s.Add(s, e)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		if s.Cmp(halfOrder) > 0 {
			s.Sub(n, s)
		}

		return &Signature{R: r, S: s}, nil
	}
}

// Serialize returns the minimal DER encoding of the signature.
func (sig *Signature) Serialize() []byte {
	return EncodeDER(sig.R, sig.S)
}

// ParseSignature parses a DER-encoded ECDSA signature.
func ParseSignature(data []byte) (*Signature, error) {
	r, s, err := DecodeDER(data)
	if err != nil {
		return nil, err
	}
	n := primitives.N()
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return nil, errs.New(errs.InvalidEncoding, "signature r or s out of [1, n-1]")
	}
	return &Signature{R: r, S: s}, nil
}

// Verify checks sig against a 32-byte message hash and public key. The
// arithmetic itself is delegated to github.com/btcsuite/btcd/btcec/v2/ecdsa,
// which this package's PublicKey bridges into via toBtcec.
func (sig *Signature) Verify(msgHash [32]byte, pub *PublicKey) (bool, error) {
	btcecPub, err := pub.toBtcec()
	if err != nil {
		return false, err
	}
	parsed, err := ecdsa.ParseSignature(sig.Serialize())
	if err != nil {
		return false, errs.Newf(errs.InvalidEncoding, "re-parsing signature for verification: %v", err)
	}
	ok := parsed.Verify(msgHash[:], btcecPub)
	if !ok {
		log.Tracef("signature did not verify against pubkey %x", pub.SerializeCompressed())
	}
	return ok, nil
}

// Verify is a convenience that parses and checks sigDER in one call.
func Verify(sigDER []byte, msgHash [32]byte, pub *PublicKey) (bool, error) {
	sig, err := ParseSignature(sigDER)
	if err != nil {
		return false, err
	}
	return sig.Verify(msgHash, pub)
}
