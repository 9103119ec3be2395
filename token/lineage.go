// Package token validates the lineage of token outputs: that every
// token UTXO a transaction spends descends, hop by hop, from an
// issuance, without the token script's type or redemption commitment
// changing along the way.
package token

import (
	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// SourceResolver fetches a previously seen transaction by its txid in
// internal byte order. Callers back this with whatever store they have
// (a BEEF bundle, an index, a test fixture); the validator itself never
// performs I/O.
type SourceResolver func(txid [32]byte) (*transaction.Transaction, error)

// maxDepth bounds the ancestor walk so a resolver serving a cyclic or
// unboundedly deep graph cannot run the validator forever.
const maxDepth = 10_000

// expectation is what a token chain must keep constant across hops.
type expectation struct {
	kind          script.ScriptType
	redemptionPKH [20]byte // meaningful only for StasV2
}

func expectationFor(out *transaction.Output, kind script.ScriptType) (expectation, error) {
	e := expectation{kind: kind}
	if kind == script.StasV2 {
		fields, err := script.ExtractStasV2(out.LockingScript)
		if err != nil {
			return e, err
		}
		e.redemptionPKH = fields.RedemptionPKH
	}
	return e, nil
}

func (e expectation) check(out *transaction.Output, kind script.ScriptType) error {
	if kind != e.kind {
		return errs.Newf(errs.VerificationFailure, "token script type changed from %s to %s between hops", e.kind, kind)
	}
	if e.kind == script.StasV2 {
		fields, err := script.ExtractStasV2(out.LockingScript)
		if err != nil {
			return err
		}
		if fields.RedemptionPKH != e.redemptionPKH {
			return errs.New(errs.VerificationFailure, "redemption PKH changed between token hops")
		}
	}
	return nil
}

// ValidateLineage walks every input of tx whose referenced source
// output carries a token locking script, following each such input to
// its funding transaction and onward until the chain reaches an
// issuance (a hop that itself spends no token outputs). Every hop must
// keep the token's script type, and for STAS v2 its redemption PKH,
// unchanged.
//
// Every token input is walked, not just the first: a multi-input token
// merge is only as valid as its least valid branch.
func ValidateLineage(tx *transaction.Transaction, resolve SourceResolver) error {
	for _, in := range tx.Inputs {
		source, kind, err := resolveSource(in, resolve)
		if err != nil {
			return err
		}
		if !isToken(kind) {
			continue
		}
		expect, err := expectationFor(source, kind)
		if err != nil {
			return err
		}
		visited := map[[32]byte]bool{tx.TXID(): true}
		if err := walkBranch(in.SourceTXID, resolve, expect, visited, 0); err != nil {
			return err
		}
	}
	return nil
}

// walkBranch validates the funding transaction txid and recurses into
// each of its own token inputs under the same expectation.
func walkBranch(txid [32]byte, resolve SourceResolver, expect expectation, visited map[[32]byte]bool, depth int) error {
	if depth > maxDepth {
		return errs.New(errs.InvalidParameter, "token lineage exceeds maximum ancestor depth")
	}
	if visited[txid] {
		return nil
	}
	visited[txid] = true

	tx, err := resolve(txid)
	if err != nil {
		return errs.Newf(errs.InvalidParameter, "resolving source transaction: %v", err)
	}

	for _, in := range tx.Inputs {
		source, kind, err := resolveSource(in, resolve)
		if err != nil {
			return err
		}
		if !isToken(kind) {
			// Non-token funding terminates this branch: the hop is the
			// issuance (or plain satoshi fees feeding a token tx).
			continue
		}
		if err := expect.check(source, kind); err != nil {
			return err
		}
		if err := walkBranch(in.SourceTXID, resolve, expect, visited, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func resolveSource(in *transaction.Input, resolve SourceResolver) (*transaction.Output, script.ScriptType, error) {
	if in.IsNullOutpoint() {
		return nil, script.Unknown, nil
	}
	parent, err := resolve(in.SourceTXID)
	if err != nil {
		return nil, script.Unknown, errs.Newf(errs.InvalidParameter, "resolving source transaction: %v", err)
	}
	if int(in.SourceVout) >= len(parent.Outputs) {
		return nil, script.Unknown, errs.Newf(errs.IndexOutOfRange, "vout %d out of range for %d outputs", in.SourceVout, len(parent.Outputs))
	}
	out := parent.Outputs[in.SourceVout]
	return out, script.Classify(out.LockingScript), nil
}

func isToken(kind script.ScriptType) bool {
	switch kind {
	case script.StasV2, script.StasBTG, script.Dstas:
		return true
	}
	return false
}
