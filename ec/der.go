package ec

import (
	"math/big"

	"github.com/bsv-blockchain/go-sdk/errs"
)

// EncodeDER encodes (r, s) as 0x30 len 0x02 len_r r 0x02 len_s s, with a
// leading 0x00 inserted before each integer iff its top bit is set, and
// minimum-length encoding throughout.
func EncodeDER(r, s *big.Int) []byte {
	rb := encodeDERInt(r)
	sb := encodeDERInt(s)

	body := make([]byte, 0, len(rb)+len(sb))
	body = append(body, rb...)
	body = append(body, sb...)

	out := make([]byte, 0, len(body)+2)
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return out
}

func encodeDERInt(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		b = []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	out := make([]byte, 0, len(b)+2)
	out = append(out, 0x02, byte(len(b)))
	out = append(out, b...)
	return out
}

// DecodeDER parses a DER-encoded ECDSA signature, rejecting malformed
// tags, overlong lengths, and non-minimal (leading-zero) integers.
func DecodeDER(data []byte) (r, s *big.Int, err error) {
	if len(data) < 8 {
		return nil, nil, errs.New(errs.TruncatedInput, "DER signature shorter than minimum possible length")
	}
	if data[0] != 0x30 {
		return nil, nil, errs.Newf(errs.InvalidEncoding, "expected SEQUENCE tag 0x30, got 0x%02x", data[0])
	}
	seqLen := int(data[1])
	if seqLen != len(data)-2 {
		return nil, nil, errs.New(errs.InvalidEncoding, "DER sequence length does not match buffer")
	}

	offset := 2
	r, offset, err = decodeDERInt(data, offset)
	if err != nil {
		return nil, nil, err
	}
	s, offset, err = decodeDERInt(data, offset)
	if err != nil {
		return nil, nil, err
	}
	if offset != len(data) {
		return nil, nil, errs.New(errs.InvalidEncoding, "trailing bytes after DER signature")
	}
	return r, s, nil
}

func decodeDERInt(data []byte, offset int) (*big.Int, int, error) {
	if offset+2 > len(data) {
		return nil, 0, errs.New(errs.TruncatedInput, "DER integer header runs past end of buffer")
	}
	if data[offset] != 0x02 {
		return nil, 0, errs.Newf(errs.InvalidEncoding, "expected INTEGER tag 0x02, got 0x%02x", data[offset])
	}
	length := int(data[offset+1])
	offset += 2
	if offset+length > len(data) {
		return nil, 0, errs.New(errs.TruncatedInput, "DER integer value runs past end of buffer")
	}
	if length == 0 {
		return nil, 0, errs.New(errs.InvalidEncoding, "DER integer has zero length")
	}
	val := data[offset : offset+length]
	if len(val) > 1 && val[0] == 0x00 && val[1]&0x80 == 0 {
		return nil, 0, errs.New(errs.InvalidEncoding, "DER integer has a non-minimal leading zero byte")
	}
	if val[0]&0x80 != 0 {
		return nil, 0, errs.New(errs.InvalidEncoding, "DER integer is negative")
	}
	return new(big.Int).SetBytes(val), offset + length, nil
}
