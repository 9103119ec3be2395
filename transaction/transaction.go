// Package transaction implements the transaction wire codec, txid
// computation, and coinbase detection. BSV is pre-segwit, so there are
// no witness fields to carry.
package transaction

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/script"
)

// DefaultSequence is the sequence value used unless a caller overrides
// it.
const DefaultSequence = 0xFFFFFFFF

// Input is one spend of a prior output.
type Input struct {
	SourceTXID      [32]byte
	SourceVout      uint32
	UnlockingScript script.Script
	Sequence        uint32

	// SourceOutput is metadata consulted during signing to learn the
	// source's locking script and value. It is never serialized.
	SourceOutput *Output
}

// Output is a single payment slot.
type Output struct {
	Satoshis      uint64
	LockingScript script.Script
}

// Transaction is the full set of fields BSV serializes on the wire.
type Transaction struct {
	Version  uint32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
}

// Serialize encodes the transaction to its canonical wire bytes.
func (tx *Transaction) Serialize() []byte {
	var out []byte

	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], tx.Version)
	out = append(out, v[:]...)

	out = append(out, EncodeVarInt(uint64(len(tx.Inputs)))...)
	for _, in := range tx.Inputs {
		out = append(out, serializeOutpoint(in.SourceTXID, in.SourceVout)...)
		out = append(out, EncodeVarInt(uint64(len(in.UnlockingScript)))...)
		out = append(out, in.UnlockingScript...)
		var seq [4]byte
		binary.LittleEndian.PutUint32(seq[:], in.Sequence)
		out = append(out, seq[:]...)
	}

	out = append(out, EncodeVarInt(uint64(len(tx.Outputs)))...)
	for _, o := range tx.Outputs {
		out = append(out, serializeOutput(o)...)
	}

	var lt [4]byte
	binary.LittleEndian.PutUint32(lt[:], tx.LockTime)
	out = append(out, lt[:]...)

	return out
}

func serializeOutpoint(txid [32]byte, vout uint32) []byte {
	out := make([]byte, 36)
	copy(out[:32], txid[:])
	binary.LittleEndian.PutUint32(out[32:], vout)
	return out
}

func serializeOutput(o *Output) []byte {
	var out []byte
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], o.Satoshis)
	out = append(out, amt[:]...)
	out = append(out, EncodeVarInt(uint64(len(o.LockingScript)))...)
	out = append(out, o.LockingScript...)
	return out
}

// Deserialize parses a transaction from its wire bytes. SourceOutput is
// never populated here; callers that need it must attach it themselves.
func Deserialize(data []byte) (*Transaction, error) {
	tx := &Transaction{}
	off := 0

	if len(data) < off+4 {
		return nil, errs.New(errs.TruncatedInput, "transaction: truncated version")
	}
	tx.Version = binary.LittleEndian.Uint32(data[off:])
	off += 4

	nIn, n, err := DecodeVarInt(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	for i := uint64(0); i < nIn; i++ {
		in := &Input{}
		if len(data) < off+36 {
			return nil, errs.New(errs.TruncatedInput, "transaction: truncated outpoint")
		}
		copy(in.SourceTXID[:], data[off:off+32])
		in.SourceVout = binary.LittleEndian.Uint32(data[off+32:])
		off += 36

		scriptLen, n, err := DecodeVarInt(data[off:])
		if err != nil {
			return nil, err
		}
		off += n
		if uint64(len(data)-off) < scriptLen {
			return nil, errs.New(errs.TruncatedInput, "transaction: truncated unlocking script")
		}
		in.UnlockingScript = append(script.Script{}, data[off:off+int(scriptLen)]...)
		off += int(scriptLen)

		if len(data) < off+4 {
			return nil, errs.New(errs.TruncatedInput, "transaction: truncated sequence")
		}
		in.Sequence = binary.LittleEndian.Uint32(data[off:])
		off += 4

		tx.Inputs = append(tx.Inputs, in)
	}

	nOut, n, err := DecodeVarInt(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	for i := uint64(0); i < nOut; i++ {
		o := &Output{}
		if len(data) < off+8 {
			return nil, errs.New(errs.TruncatedInput, "transaction: truncated output value")
		}
		o.Satoshis = binary.LittleEndian.Uint64(data[off:])
		off += 8

		scriptLen, n, err := DecodeVarInt(data[off:])
		if err != nil {
			return nil, err
		}
		off += n
		if uint64(len(data)-off) < scriptLen {
			return nil, errs.New(errs.TruncatedInput, "transaction: truncated locking script")
		}
		o.LockingScript = append(script.Script{}, data[off:off+int(scriptLen)]...)
		off += int(scriptLen)

		tx.Outputs = append(tx.Outputs, o)
	}

	if len(data) < off+4 {
		return nil, errs.New(errs.TruncatedInput, "transaction: truncated locktime")
	}
	tx.LockTime = binary.LittleEndian.Uint32(data[off:])
	off += 4

	log.Tracef("deserialized transaction: %d inputs, %d outputs", len(tx.Inputs), len(tx.Outputs))
	return tx, nil
}

// TXID returns the double-SHA256 of the serialized transaction in
// internal byte order — the same order used to populate an Input's
// SourceTXID and to build sighash's hashPrevouts.
func (tx *Transaction) TXID() [32]byte {
	var txid [32]byte
	copy(txid[:], chainhash.DoubleHashB(tx.Serialize()))
	return txid
}

// TXIDHex renders TXID in the conventional reversed-byte-order display
// form used by block explorers and RPC.
func (tx *Transaction) TXIDHex() string {
	id := tx.TXID()
	reversed := make([]byte, 32)
	for i := range id {
		reversed[i] = id[31-i]
	}
	return hex.EncodeToString(reversed)
}

// IsNullOutpoint reports whether the input references the null outpoint
// a coinbase uses: an all-zero txid with vout 0xFFFFFFFF.
func (in *Input) IsNullOutpoint() bool {
	if in.SourceVout != 0xFFFFFFFF {
		return false
	}
	for _, b := range in.SourceTXID {
		if b != 0 {
			return false
		}
	}
	return true
}

// IsCoinbase reports whether tx has exactly one input referencing the
// null outpoint.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].IsNullOutpoint()
}
