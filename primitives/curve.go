// Package primitives implements secp256k1 field and curve arithmetic.
//
// The curve parameters (P, N, generator) are taken from
// github.com/btcsuite/btcd/btcec/v2. The affine operations themselves
// are implemented here with plain big.Int modular arithmetic so the
// public API is a pure, auditable function of its inputs: identical
// (k, P) in, identical (x, y) out, regardless of which optimized
// library a future backend might substitute.
package primitives

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/bsv-blockchain/go-sdk/errs"
)

var curve = btcec.S256()

// P is the secp256k1 field prime, 2^256 - 2^32 - 977.
func P() *big.Int { return curve.P }

// N is the secp256k1 group order.
func N() *big.Int { return curve.N }

// B is the curve's short Weierstrass constant (y^2 = x^3 + B).
func B() *big.Int { return curve.B }

// AffinePoint is a point on secp256k1, or the point at infinity.
type AffinePoint struct {
	X, Y     *big.Int
	Infinity bool
}

// Generator returns the secp256k1 base point G.
func Generator() *AffinePoint {
	return &AffinePoint{X: new(big.Int).Set(curve.Gx), Y: new(big.Int).Set(curve.Gy)}
}

// Infinity returns the point at infinity.
func Infinity() *AffinePoint {
	return &AffinePoint{Infinity: true}
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 7 (mod P). The
// point at infinity is considered on-curve by convention.
func IsOnCurve(p *AffinePoint) bool {
	if p.Infinity {
		return true
	}
	if p.X == nil || p.Y == nil {
		return false
	}
	lhs := new(big.Int).Mul(p.Y, p.Y)
	lhs.Mod(lhs, curve.P)

	rhs := new(big.Int).Mul(p.X, p.X)
	rhs.Mul(rhs, p.X)
	rhs.Add(rhs, curve.B)
	rhs.Mod(rhs, curve.P)

	return lhs.Cmp(rhs) == 0
}

// modInverse computes a^-1 mod P via Fermat's little theorem
// (a^(P-2) mod P).
func modInverse(a *big.Int) *big.Int {
	exp := new(big.Int).Sub(curve.P, big.NewInt(2))
	return new(big.Int).Exp(a, exp, curve.P)
}

// PointAdd computes P + Q using standard affine addition rules,
// handling P = O, Q = O, and P = -Q without dividing by zero.
func PointAdd(p, q *AffinePoint) *AffinePoint {
	if p.Infinity {
		return clonePoint(q)
	}
	if q.Infinity {
		return clonePoint(p)
	}

	if p.X.Cmp(q.X) == 0 {
		sum := new(big.Int).Add(p.Y, q.Y)
		sum.Mod(sum, curve.P)
		if sum.Sign() == 0 {
			// P == -Q.
			return Infinity()
		}
		return PointDouble(p)
	}

	// slope = (q.Y - p.Y) / (q.X - p.X) mod P
	num := new(big.Int).Sub(q.Y, p.Y)
	num.Mod(num, curve.P)
	den := new(big.Int).Sub(q.X, p.X)
	den.Mod(den, curve.P)
	slope := new(big.Int).Mul(num, modInverse(den))
	slope.Mod(slope, curve.P)

	return affineFromSlope(slope, p.X, p.Y, q.X)
}

// PointDouble computes P + P.
func PointDouble(p *AffinePoint) *AffinePoint {
	if p.Infinity {
		return Infinity()
	}
	if p.Y.Sign() == 0 {
		return Infinity()
	}

	// slope = (3x^2) / (2y) mod P
	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, big.NewInt(3))
	num.Mod(num, curve.P)
	den := new(big.Int).Lsh(p.Y, 1)
	den.Mod(den, curve.P)
	slope := new(big.Int).Mul(num, modInverse(den))
	slope.Mod(slope, curve.P)

	return affineFromSlope(slope, p.X, p.Y, p.X)
}

func affineFromSlope(slope, px, py, qx *big.Int) *AffinePoint {
	rx := new(big.Int).Mul(slope, slope)
	rx.Sub(rx, px)
	rx.Sub(rx, qx)
	rx.Mod(rx, curve.P)

	ry := new(big.Int).Sub(px, rx)
	ry.Mul(ry, slope)
	ry.Sub(ry, py)
	ry.Mod(ry, curve.P)

	return &AffinePoint{X: rx, Y: ry}
}

// ScalarMul computes k*P using double-and-add. k is reduced mod N
// before multiplication (negative or out-of-range scalars normalize).
// ScalarMul(0, P) = O and ScalarMul(k, O) = O for all k.
func ScalarMul(k *big.Int, p *AffinePoint) *AffinePoint {
	if p.Infinity {
		return Infinity()
	}

	kk := new(big.Int).Mod(k, curve.N)
	if kk.Sign() == 0 {
		return Infinity()
	}

	result := Infinity()
	addend := clonePoint(p)
	for i := 0; i < kk.BitLen(); i++ {
		if kk.Bit(i) == 1 {
			result = PointAdd(result, addend)
		}
		addend = PointDouble(addend)
	}
	return result
}

// ScalarBaseMul computes k*G.
func ScalarBaseMul(k *big.Int) *AffinePoint {
	return ScalarMul(k, Generator())
}

// Decompress recovers the y-coordinate for a compressed point given its
// x-coordinate and the parity prefix (0x02 even, 0x03 odd). It returns
// errs.NotOnCurve if x does not correspond to a point on the curve.
func Decompress(prefix byte, x *big.Int) (*big.Int, error) {
	if prefix != 0x02 && prefix != 0x03 {
		return nil, errs.Newf(errs.InvalidEncoding, "invalid compressed point prefix 0x%02x", prefix)
	}

	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	rhs.Add(rhs, curve.B)
	rhs.Mod(rhs, curve.P)

	y := sqrtMod(rhs)
	if y == nil || new(big.Int).Exp(y, big.NewInt(2), curve.P).Cmp(rhs) != 0 {
		return nil, errs.New(errs.NotOnCurve, "x has no corresponding square root mod P")
	}

	wantOdd := prefix == 0x03
	if y.Bit(0) == 1 != wantOdd {
		y.Sub(curve.P, y)
	}
	return y, nil
}

// sqrtMod computes a square root of a mod P for secp256k1's prime,
// which is congruent to 3 mod 4, so sqrt(a) = a^((P+1)/4) mod P.
func sqrtMod(a *big.Int) *big.Int {
	exp := new(big.Int).Add(curve.P, big.NewInt(1))
	exp.Rsh(exp, 2)
	return new(big.Int).Exp(a, exp, curve.P)
}

func clonePoint(p *AffinePoint) *AffinePoint {
	if p.Infinity {
		return Infinity()
	}
	return &AffinePoint{X: new(big.Int).Set(p.X), Y: new(big.Int).Set(p.Y)}
}
