package primitives

import "math/big"

// FieldBytes serializes a field element (or scalar) as 32-byte
// big-endian octets. Leading-zero bytes are preserved.
func FieldBytes(v *big.Int) [32]byte {
	var out [32]byte
	b := v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// CompressPoint encodes a non-infinity point in 33-byte compressed form:
// 0x02||x if y is even, 0x03||x if y is odd.
func CompressPoint(p *AffinePoint) []byte {
	out := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := FieldBytes(p.X)
	copy(out[1:], xb[:])
	return out
}

// UncompressPoint encodes a non-infinity point in 65-byte uncompressed
// form: 0x04||x||y.
func UncompressPoint(p *AffinePoint) []byte {
	out := make([]byte, 65)
	out[0] = 0x04
	xb := FieldBytes(p.X)
	yb := FieldBytes(p.Y)
	copy(out[1:33], xb[:])
	copy(out[33:], yb[:])
	return out
}
