package template

import (
	"github.com/bsv-blockchain/go-sdk/ec"
	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/sighash"
)

// SplitTxAroundOutput re-parses raw and returns the three byte slices
// such that prefix ‖ output ‖ suffix == raw, where output is the
// serialized form of the given vout. This is what STAS-BTG Path A needs
// to reassemble the previous transaction's bytes around the output it
// is spending.
func SplitTxAroundOutput(raw []byte, vout uint32) (prefix, output, suffix []byte, err error) {
	tx, parseErr := transaction.Deserialize(raw)
	if parseErr != nil {
		return nil, nil, nil, parseErr
	}
	if int(vout) >= len(tx.Outputs) {
		return nil, nil, nil, errs.Newf(errs.IndexOutOfRange, "vout %d out of range for %d outputs", vout, len(tx.Outputs))
	}

	off := 4 // version
	nIn, n, decErr := transaction.DecodeVarInt(raw[off:])
	if decErr != nil {
		return nil, nil, nil, decErr
	}
	off += n
	for i := uint64(0); i < nIn; i++ {
		off += 36
		scriptLen, n, decErr := transaction.DecodeVarInt(raw[off:])
		if decErr != nil {
			return nil, nil, nil, decErr
		}
		off += n + int(scriptLen) + 4
	}

	nOut, n, decErr := transaction.DecodeVarInt(raw[off:])
	if decErr != nil {
		return nil, nil, nil, decErr
	}
	off += n

	for i := uint64(0); i < nOut; i++ {
		thisStart := off
		off += 8
		scriptLen, n, decErr := transaction.DecodeVarInt(raw[off:])
		if decErr != nil {
			return nil, nil, nil, decErr
		}
		off += n + int(scriptLen)
		if i == uint64(vout) {
			return raw[:thisStart], raw[thisStart:off], raw[off:], nil
		}
	}
	return nil, nil, nil, errs.New(errs.IndexOutOfRange, "vout not reached while scanning outputs")
}

// StasBtgPathA unlocks via `<sig> <pub> <prefix> <output> <suffix>
// OP_TRUE`, rebuilding the previous transaction's bytes around the
// spent output from its raw form.
type StasBtgPathA struct {
	priv        *ec.PrivateKey
	sighashType uint32
	prevRawTx   []byte
	spentVout   uint32
}

// NewStasBtgPathA builds a Path A unlocking template over the previous
// transaction's raw bytes and the vout being spent.
func NewStasBtgPathA(priv *ec.PrivateKey, sighashType uint32, prevRawTx []byte, spentVout uint32) *StasBtgPathA {
	return &StasBtgPathA{priv: priv, sighashType: sighashType, prevRawTx: prevRawTx, spentVout: spentVout}
}

func (t *StasBtgPathA) Sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error) {
	out, err := sourceOutput(tx, inputIdx)
	if err != nil {
		return nil, err
	}
	sigAndHash, err := sigPush(t.priv, tx, cache, inputIdx, out.LockingScript, out.Satoshis, t.sighashType)
	if err != nil {
		return nil, err
	}

	prefix, output, suffix, err := SplitTxAroundOutput(t.prevRawTx, t.spentVout)
	if err != nil {
		return nil, err
	}

	s := script.PushData(sigAndHash)
	s = append(s, script.PushData(t.priv.PubKey().SerializeCompressed())...)
	s = append(s, script.PushData(prefix)...)
	s = append(s, script.PushData(output)...)
	s = append(s, script.PushData(suffix)...)
	s = append(s, 0x51) // OP_TRUE
	return s, nil
}

func (t *StasBtgPathA) EstimateLength(tx *transaction.Transaction, inputIdx int) int {
	return 1 + 72 + 1 + 1 + 33 + 5 + len(t.prevRawTx) + 1
}

// StasBtgPathB is the checkpoint path, unlocking via `<sig_owner>
// <pub_owner> <sig_issuer> <pub_issuer> OP_FALSE`.
type StasBtgPathB struct {
	owner       *ec.PrivateKey
	issuer      *ec.PrivateKey
	sighashType uint32
}

// NewStasBtgPathB builds a Path B checkpoint unlocking template.
func NewStasBtgPathB(owner, issuer *ec.PrivateKey, sighashType uint32) *StasBtgPathB {
	return &StasBtgPathB{owner: owner, issuer: issuer, sighashType: sighashType}
}

func (t *StasBtgPathB) Sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error) {
	out, err := sourceOutput(tx, inputIdx)
	if err != nil {
		return nil, err
	}

	ownerSig, err := sigPush(t.owner, tx, cache, inputIdx, out.LockingScript, out.Satoshis, t.sighashType)
	if err != nil {
		return nil, err
	}
	issuerSig, err := sigPush(t.issuer, tx, cache, inputIdx, out.LockingScript, out.Satoshis, t.sighashType)
	if err != nil {
		return nil, err
	}

	s := script.PushData(ownerSig)
	s = append(s, script.PushData(t.owner.PubKey().SerializeCompressed())...)
	s = append(s, script.PushData(issuerSig)...)
	s = append(s, script.PushData(t.issuer.PubKey().SerializeCompressed())...)
	s = append(s, 0x00) // OP_FALSE
	return s, nil
}

func (t *StasBtgPathB) EstimateLength(tx *transaction.Transaction, inputIdx int) int {
	return 2 * (1 + 72 + 1 + 1 + 33 + 1)
}
