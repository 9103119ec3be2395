package transaction

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-sdk/errs"
)

const (
	varIntPrefix16 = 0xfd
	varIntPrefix32 = 0xfe
	varIntPrefix64 = 0xff
)

// EncodeVarInt encodes n using Bitcoin's variable-length integer rules.
func EncodeVarInt(n uint64) []byte {
	switch {
	case n < varIntPrefix16:
		return []byte{byte(n)}
	case n <= 0xffff:
		b := make([]byte, 3)
		b[0] = varIntPrefix16
		binary.LittleEndian.PutUint16(b[1:], uint16(n))
		return b
	case n <= 0xffffffff:
		b := make([]byte, 5)
		b[0] = varIntPrefix32
		binary.LittleEndian.PutUint32(b[1:], uint32(n))
		return b
	default:
		b := make([]byte, 9)
		b[0] = varIntPrefix64
		binary.LittleEndian.PutUint64(b[1:], n)
		return b
	}
}

// DecodeVarInt reads a varint from the front of data, returning the
// value and the number of bytes consumed. The read path does not
// require minimal encoding — a historical Bitcoin quirk.
func DecodeVarInt(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, errs.New(errs.TruncatedInput, "varint: empty input")
	}
	switch data[0] {
	case varIntPrefix16:
		if len(data) < 3 {
			return 0, 0, errs.New(errs.TruncatedInput, "varint: truncated 2-byte prefix")
		}
		return uint64(binary.LittleEndian.Uint16(data[1:3])), 3, nil
	case varIntPrefix32:
		if len(data) < 5 {
			return 0, 0, errs.New(errs.TruncatedInput, "varint: truncated 4-byte prefix")
		}
		return uint64(binary.LittleEndian.Uint32(data[1:5])), 5, nil
	case varIntPrefix64:
		if len(data) < 9 {
			return 0, 0, errs.New(errs.TruncatedInput, "varint: truncated 8-byte prefix")
		}
		return binary.LittleEndian.Uint64(data[1:9]), 9, nil
	default:
		return uint64(data[0]), 1, nil
	}
}
