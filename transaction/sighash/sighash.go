// Package sighash implements the BIP-143-with-FORKID preimage
// construction BSV signatures commit to.
package sighash

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// Sighash flag bits.
const (
	All          = 0x01
	None         = 0x02
	Single       = 0x03
	AnyoneCanPay = 0x80
	ForkID       = 0x40

	baseMask = 0x1F
)

// Cache holds the three inner hashes (hashPrevouts, hashSequence,
// hashOutputs for SIGHASH_ALL) computed once per transaction and reused
// across every input's sighash when signing multiple inputs of the same
// transaction.
type Cache struct {
	hashPrevouts [32]byte
	hashSequence [32]byte
	hashOutputs  [32]byte
}

// NewCache precomputes the three inner hashes for tx.
func NewCache(tx *transaction.Transaction) *Cache {
	c := &Cache{}

	var prevouts []byte
	var sequences []byte
	for _, in := range tx.Inputs {
		prevouts = append(prevouts, in.SourceTXID[:]...)
		var vout [4]byte
		binary.LittleEndian.PutUint32(vout[:], in.SourceVout)
		prevouts = append(prevouts, vout[:]...)

		var seq [4]byte
		binary.LittleEndian.PutUint32(seq[:], in.Sequence)
		sequences = append(sequences, seq[:]...)
	}
	copy(c.hashPrevouts[:], chainhash.DoubleHashB(prevouts))
	copy(c.hashSequence[:], chainhash.DoubleHashB(sequences))

	var outputs []byte
	for _, o := range tx.Outputs {
		outputs = append(outputs, serializeOutput(o)...)
	}
	copy(c.hashOutputs[:], chainhash.DoubleHashB(outputs))

	return c
}

func serializeOutput(o *transaction.Output) []byte {
	var out []byte
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], o.Satoshis)
	out = append(out, amt[:]...)
	out = append(out, transaction.EncodeVarInt(uint64(len(o.LockingScript)))...)
	out = append(out, o.LockingScript...)
	return out
}

// Compute returns the SHA256D digest the core signs for inputIdx,
// rejecting any sighashType lacking the mandatory FORKID bit.
//
// scriptCode is the source locking script to commit to (ordinarily
// in.SourceOutput.LockingScript; token templates may substitute a
// different script per their own rules). value is the source output's
// satoshi amount.
func Compute(tx *transaction.Transaction, cache *Cache, inputIdx int, scriptCode script.Script, value uint64, sighashType uint32) ([32]byte, error) {
	var zero [32]byte
	if sighashType&ForkID == 0 {
		return zero, errs.New(errs.MissingForkid, "sighash type is missing the mandatory FORKID bit (0x40)")
	}
	if inputIdx < 0 || inputIdx >= len(tx.Inputs) {
		return zero, errs.Newf(errs.IndexOutOfRange, "input index %d out of range for %d inputs", inputIdx, len(tx.Inputs))
	}

	base := sighashType & baseMask
	anyoneCanPay := sighashType&AnyoneCanPay != 0

	var preimage []byte

	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], tx.Version)
	preimage = append(preimage, v[:]...)

	if anyoneCanPay {
		preimage = append(preimage, zero[:]...)
	} else {
		preimage = append(preimage, cache.hashPrevouts[:]...)
	}

	if anyoneCanPay || base == None || base == Single {
		preimage = append(preimage, zero[:]...)
	} else {
		preimage = append(preimage, cache.hashSequence[:]...)
	}

	in := tx.Inputs[inputIdx]
	preimage = append(preimage, in.SourceTXID[:]...)
	var vout [4]byte
	binary.LittleEndian.PutUint32(vout[:], in.SourceVout)
	preimage = append(preimage, vout[:]...)

	preimage = append(preimage, transaction.EncodeVarInt(uint64(len(scriptCode)))...)
	preimage = append(preimage, scriptCode...)

	var val [8]byte
	binary.LittleEndian.PutUint64(val[:], value)
	preimage = append(preimage, val[:]...)

	var seq [4]byte
	binary.LittleEndian.PutUint32(seq[:], in.Sequence)
	preimage = append(preimage, seq[:]...)

	switch {
	case base == Single:
		if inputIdx < len(tx.Outputs) {
			var h [32]byte
			copy(h[:], chainhash.DoubleHashB(serializeOutput(tx.Outputs[inputIdx])))
			preimage = append(preimage, h[:]...)
		} else {
			preimage = append(preimage, zero[:]...)
		}
	case base == None:
		preimage = append(preimage, zero[:]...)
	default:
		preimage = append(preimage, cache.hashOutputs[:]...)
	}

	var lt [4]byte
	binary.LittleEndian.PutUint32(lt[:], tx.LockTime)
	preimage = append(preimage, lt[:]...)

	var st [4]byte
	binary.LittleEndian.PutUint32(st[:], sighashType)
	preimage = append(preimage, st[:]...)

	var out [32]byte
	copy(out[:], chainhash.DoubleHashB(preimage))
	return out, nil
}
