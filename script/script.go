// Package script implements push-data encoding, script
// (de)serialization, locking-script classification, and the STAS/dSTAS
// byte-layout readers that sit on top of it.
package script

import (
	"github.com/btcsuite/btcd/txscript"

	"github.com/bsv-blockchain/go-sdk/errs"
)

// Chunk is either an opcode (Data == nil) or a data push.
type Chunk struct {
	Op   byte
	Data []byte
}

// IsPush reports whether this chunk carries pushed data.
func (c Chunk) IsPush() bool { return c.Data != nil }

// Script is an ordered byte string of chunks.
type Script []byte

// PushData serializes data with the smallest legal push opcode: OP_0 for
// empty, a direct length byte for 1..75, OP_PUSHDATA1/2/4 otherwise.
func PushData(data []byte) []byte {
	n := len(data)
	switch {
	case n == 0:
		return []byte{txscript.OP_0}
	case n <= 75:
		out := make([]byte, 0, n+1)
		out = append(out, byte(n))
		return append(out, data...)
	case n <= 0xff:
		out := make([]byte, 0, n+2)
		out = append(out, txscript.OP_PUSHDATA1, byte(n))
		return append(out, data...)
	case n <= 0xffff:
		out := make([]byte, 0, n+3)
		out = append(out, txscript.OP_PUSHDATA2, byte(n), byte(n>>8))
		return append(out, data...)
	default:
		out := make([]byte, 0, n+5)
		out = append(out, txscript.OP_PUSHDATA4, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		return append(out, data...)
	}
}

// Parse decomposes a script into its chunk sequence.
func Parse(s Script) ([]Chunk, error) {
	var chunks []Chunk
	i := 0
	for i < len(s) {
		op := s[i]
		switch {
		case op == txscript.OP_0:
			chunks = append(chunks, Chunk{Op: op, Data: []byte{}})
			i++

		case op >= 1 && op <= 75:
			if i+1+int(op) > len(s) {
				return nil, errs.New(errs.TruncatedInput, "direct push runs past end of script")
			}
			chunks = append(chunks, Chunk{Op: op, Data: append([]byte{}, s[i+1:i+1+int(op)]...)})
			i += 1 + int(op)

		case op == txscript.OP_PUSHDATA1:
			if i+2 > len(s) {
				return nil, errs.New(errs.TruncatedInput, "OP_PUSHDATA1 length byte runs past end of script")
			}
			n := int(s[i+1])
			if i+2+n > len(s) {
				return nil, errs.New(errs.TruncatedInput, "OP_PUSHDATA1 payload runs past end of script")
			}
			chunks = append(chunks, Chunk{Op: op, Data: append([]byte{}, s[i+2:i+2+n]...)})
			i += 2 + n

		case op == txscript.OP_PUSHDATA2:
			if i+3 > len(s) {
				return nil, errs.New(errs.TruncatedInput, "OP_PUSHDATA2 length bytes run past end of script")
			}
			n := int(s[i+1]) | int(s[i+2])<<8
			if i+3+n > len(s) {
				return nil, errs.New(errs.TruncatedInput, "OP_PUSHDATA2 payload runs past end of script")
			}
			chunks = append(chunks, Chunk{Op: op, Data: append([]byte{}, s[i+3:i+3+n]...)})
			i += 3 + n

		case op == txscript.OP_PUSHDATA4:
			if i+5 > len(s) {
				return nil, errs.New(errs.TruncatedInput, "OP_PUSHDATA4 length bytes run past end of script")
			}
			n := int(s[i+1]) | int(s[i+2])<<8 | int(s[i+3])<<16 | int(s[i+4])<<24
			if i+5+n > len(s) {
				return nil, errs.New(errs.TruncatedInput, "OP_PUSHDATA4 payload runs past end of script")
			}
			chunks = append(chunks, Chunk{Op: op, Data: append([]byte{}, s[i+5:i+5+n]...)})
			i += 5 + n

		default:
			chunks = append(chunks, Chunk{Op: op})
			i++
		}
	}
	return chunks, nil
}

// Serialize reassembles chunks into their wire byte string.
func Serialize(chunks []Chunk) Script {
	var out []byte
	for _, c := range chunks {
		if c.IsPush() {
			out = append(out, PushData(c.Data)...)
		} else {
			out = append(out, c.Op)
		}
	}
	return out
}

// NewP2PKHScript builds `76 A9 14 <20B> 88 AC` for a public key hash.
func NewP2PKHScript(pubKeyHash []byte) (Script, error) {
	if len(pubKeyHash) != 20 {
		return nil, errs.Newf(errs.InvalidParameter, "public key hash must be 20 bytes, got %d", len(pubKeyHash))
	}
	out := []byte{txscript.OP_DUP, txscript.OP_HASH160}
	out = append(out, PushData(pubKeyHash)...)
	out = append(out, txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG)
	return out, nil
}

// NewOpReturnScript builds an unspendable `6A <pushes...>` data carrier.
func NewOpReturnScript(dataPushes ...[]byte) Script {
	out := []byte{txscript.OP_RETURN}
	for _, d := range dataPushes {
		out = append(out, PushData(d)...)
	}
	return out
}
