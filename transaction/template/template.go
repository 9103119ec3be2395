// Package template implements signing templates. A SigningTemplate
// knows how to produce an unlocking script for one input of a
// transaction, and how to estimate that script's final byte length
// before signatures are available.
package template

import (
	"github.com/bsv-blockchain/go-sdk/ec"
	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/sighash"
)

// SigningTemplate is implemented by every unlocking-script builder this
// package ships, and may be implemented by applications for their own
// script shapes.
type SigningTemplate interface {
	Sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error)
	EstimateLength(tx *transaction.Transaction, inputIdx int) int
}

// sigPush returns the `<sig DER><sighash byte>` payload, unpushed; every
// template in this package wraps it with script.PushData as one chunk.
func sigPush(priv *ec.PrivateKey, tx *transaction.Transaction, cache *sighash.Cache, inputIdx int, scriptCode script.Script, value uint64, sighashType uint32) ([]byte, error) {
	h, err := sighash.Compute(tx, cache, inputIdx, scriptCode, value, sighashType)
	if err != nil {
		return nil, err
	}
	sig, err := ec.Sign(priv, h)
	if err != nil {
		return nil, err
	}
	der := sig.Serialize()
	out := make([]byte, 0, len(der)+1)
	out = append(out, der...)
	out = append(out, byte(sighashType))
	return out, nil
}

// sourceOutput returns the source output metadata for inputIdx, erroring
// if the template wasn't given what it needs to sign.
func sourceOutput(tx *transaction.Transaction, inputIdx int) (*transaction.Output, error) {
	if inputIdx < 0 || inputIdx >= len(tx.Inputs) {
		return nil, errs.Newf(errs.IndexOutOfRange, "input index %d out of range", inputIdx)
	}
	out := tx.Inputs[inputIdx].SourceOutput
	if out == nil {
		return nil, errs.New(errs.MissingSourceOutput, "input has no attached source output to sign against")
	}
	return out, nil
}
