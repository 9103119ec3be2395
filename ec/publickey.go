package ec

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/primitives"
)

// PublicKey owns a non-infinity point on secp256k1.
type PublicKey struct {
	point *primitives.AffinePoint
}

// ParsePublicKey parses a 33-byte compressed or 65-byte uncompressed
// public key, rejecting points that don't satisfy the curve equation.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	switch len(data) {
	case 33:
		if data[0] != 0x02 && data[0] != 0x03 {
			return nil, errs.Newf(errs.InvalidEncoding, "invalid compressed point prefix 0x%02x", data[0])
		}
		x := new(big.Int).SetBytes(data[1:])
		y, err := primitives.Decompress(data[0], x)
		if err != nil {
			return nil, err
		}
		return &PublicKey{point: &primitives.AffinePoint{X: x, Y: y}}, nil

	case 65:
		if data[0] != 0x04 {
			return nil, errs.Newf(errs.InvalidEncoding, "invalid uncompressed point prefix 0x%02x", data[0])
		}
		x := new(big.Int).SetBytes(data[1:33])
		y := new(big.Int).SetBytes(data[33:65])
		point := &primitives.AffinePoint{X: x, Y: y}
		if !primitives.IsOnCurve(point) {
			return nil, errs.New(errs.NotOnCurve, "uncompressed point does not satisfy y^2 = x^3 + 7")
		}
		return &PublicKey{point: point}, nil

	default:
		return nil, errs.Newf(errs.InvalidEncoding, "public key must be 33 or 65 bytes, got %d", len(data))
	}
}

// SerializeCompressed returns the 33-byte compressed encoding.
func (p *PublicKey) SerializeCompressed() []byte {
	return primitives.CompressPoint(p.point)
}

// SerializeUncompressed returns the 65-byte uncompressed encoding.
func (p *PublicKey) SerializeUncompressed() []byte {
	return primitives.UncompressPoint(p.point)
}

// X returns the point's x-coordinate.
func (p *PublicKey) X() *big.Int { return new(big.Int).Set(p.point.X) }

// Y returns the point's y-coordinate.
func (p *PublicKey) Y() *big.Int { return new(big.Int).Set(p.point.Y) }

// IsEqual reports whether two public keys encode the same point.
func (p *PublicKey) IsEqual(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.point.X.Cmp(other.point.X) == 0 && p.point.Y.Cmp(other.point.Y) == 0
}

// Add returns a new PublicKey whose point is Q + k*G, the public half of
// BRC-42 child derivation.
func (p *PublicKey) Add(k *big.Int) *PublicKey {
	kg := primitives.ScalarBaseMul(k)
	sum := primitives.PointAdd(p.point, kg)
	return &PublicKey{point: sum}
}

// toBtcec converts to the real btcsuite/decred representation so this
// package can hand signatures to github.com/btcsuite/btcd/btcec/v2/ecdsa
// for DER parsing and verification, without
// making that library the source of truth for our own point arithmetic.
func (p *PublicKey) toBtcec() (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(p.SerializeCompressed())
}
