package token

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// stasV2Script builds a minimal well-formed STAS v2 locking script with
// the given owner and redemption hashes.
func stasV2Script(owner, redemption byte) script.Script {
	s := make([]byte, 1432)
	s[0], s[1], s[2] = 0x76, 0xA9, 0x14
	copy(s[3:23], bytes.Repeat([]byte{owner}, 20))
	copy(s[23:29], []byte{0x88, 0xAC, 0x69, 0x76, 0xAA, 0x60})
	copy(s[1411:1431], bytes.Repeat([]byte{redemption}, 20))
	return s
}

func p2pkhScript(h byte) script.Script {
	s, _ := script.NewP2PKHScript(bytes.Repeat([]byte{h}, 20))
	return s
}

func coinbaseTx(lockingScripts ...script.Script) *transaction.Transaction {
	tx := &transaction.Transaction{
		Version: 1,
		Inputs: []*transaction.Input{{
			SourceVout: 0xFFFFFFFF,
			Sequence:   transaction.DefaultSequence,
		}},
		LockTime: 0,
	}
	for _, ls := range lockingScripts {
		tx.Outputs = append(tx.Outputs, &transaction.Output{Satoshis: 1000, LockingScript: ls})
	}
	return tx
}

func spendTx(parents []*transaction.Transaction, vouts []uint32, lockingScripts ...script.Script) *transaction.Transaction {
	tx := &transaction.Transaction{Version: 1}
	for i, parent := range parents {
		tx.Inputs = append(tx.Inputs, &transaction.Input{
			SourceTXID: parent.TXID(),
			SourceVout: vouts[i],
			Sequence:   transaction.DefaultSequence,
		})
	}
	for _, ls := range lockingScripts {
		tx.Outputs = append(tx.Outputs, &transaction.Output{Satoshis: 1000, LockingScript: ls})
	}
	return tx
}

func resolverFor(txs ...*transaction.Transaction) SourceResolver {
	byID := make(map[[32]byte]*transaction.Transaction)
	for _, tx := range txs {
		byID[tx.TXID()] = tx
	}
	return func(txid [32]byte) (*transaction.Transaction, error) {
		tx, ok := byID[txid]
		if !ok {
			return nil, errNotFound
		}
		return tx, nil
	}
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "transaction not found" }

func TestValidateLineageTokenChain(t *testing.T) {
	issuance := coinbaseTx(stasV2Script(0x11, 0xAA))
	transfer := spendTx([]*transaction.Transaction{issuance}, []uint32{0}, stasV2Script(0x22, 0xAA))
	spend := spendTx([]*transaction.Transaction{transfer}, []uint32{0}, stasV2Script(0x33, 0xAA))

	if err := ValidateLineage(spend, resolverFor(issuance, transfer)); err != nil {
		t.Fatalf("valid token chain rejected: %v", err)
	}
}

func TestValidateLineageRejectsChangedRedemption(t *testing.T) {
	issuance := coinbaseTx(stasV2Script(0x11, 0xAA))
	// The transfer re-issues under a different redemption PKH.
	transfer := spendTx([]*transaction.Transaction{issuance}, []uint32{0}, stasV2Script(0x22, 0xBB))
	spend := spendTx([]*transaction.Transaction{transfer}, []uint32{0}, stasV2Script(0x33, 0xBB))

	if err := ValidateLineage(spend, resolverFor(issuance, transfer)); err == nil {
		t.Fatalf("expected rejection of redemption PKH change mid-chain")
	}
}

func TestValidateLineageWalksEveryInput(t *testing.T) {
	goodIssuance := coinbaseTx(stasV2Script(0x11, 0xAA))
	goodTransfer := spendTx([]*transaction.Transaction{goodIssuance}, []uint32{0}, stasV2Script(0x22, 0xAA))

	badIssuance := coinbaseTx(stasV2Script(0x11, 0xAA))
	badTransfer := spendTx([]*transaction.Transaction{badIssuance}, []uint32{0}, stasV2Script(0x22, 0xCC))
	badSpend := spendTx([]*transaction.Transaction{badTransfer}, []uint32{0}, stasV2Script(0x33, 0xCC))

	// A merge whose first branch is fine but whose second carries the
	// broken lineage must still be rejected.
	merge := spendTx(
		[]*transaction.Transaction{goodTransfer, badSpend},
		[]uint32{0, 0},
		stasV2Script(0x44, 0xAA),
	)

	resolve := resolverFor(goodIssuance, goodTransfer, badIssuance, badTransfer, badSpend)
	if err := ValidateLineage(merge, resolve); err == nil {
		t.Fatalf("expected rejection via the second (broken) input branch")
	}
}

func TestValidateLineageIgnoresPlainSpends(t *testing.T) {
	funding := coinbaseTx(p2pkhScript(0x55))
	spend := spendTx([]*transaction.Transaction{funding}, []uint32{0}, p2pkhScript(0x66))

	if err := ValidateLineage(spend, resolverFor(funding)); err != nil {
		t.Fatalf("plain P2PKH spend should not require token lineage: %v", err)
	}
}

func TestValidateLineageRejectsUnresolvableParent(t *testing.T) {
	issuance := coinbaseTx(stasV2Script(0x11, 0xAA))
	spend := spendTx([]*transaction.Transaction{issuance}, []uint32{0}, stasV2Script(0x22, 0xAA))

	// Resolver knows nothing.
	if err := ValidateLineage(spend, resolverFor()); err == nil {
		t.Fatalf("expected error when the source transaction cannot be resolved")
	}
}

func TestValidateLineageRejectsOutOfRangeVout(t *testing.T) {
	issuance := coinbaseTx(stasV2Script(0x11, 0xAA))
	spend := spendTx([]*transaction.Transaction{issuance}, []uint32{7}, stasV2Script(0x22, 0xAA))

	if err := ValidateLineage(spend, resolverFor(issuance)); err == nil {
		t.Fatalf("expected error for out-of-range source vout")
	}
}
