package template

import (
	"github.com/bsv-blockchain/go-sdk/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/sighash"
)

// P2PKH, Stas, and Dstas all unlock with an identical `<sig‖sighashByte>
// <pubkey>` script; the only thing that differs between them is the
// locking-script layout they're spending, which lives one layer up in
// the script package's classification logic. A single sigPubTemplate
// backs all three exported types.
type sigPubTemplate struct {
	priv        *ec.PrivateKey
	sighashType uint32
}

func (t *sigPubTemplate) sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error) {
	out, err := sourceOutput(tx, inputIdx)
	if err != nil {
		return nil, err
	}
	sig, err := sigPush(t.priv, tx, cache, inputIdx, out.LockingScript, out.Satoshis, t.sighashType)
	if err != nil {
		return nil, err
	}

	pub := t.priv.PubKey().SerializeCompressed()
	s := script.PushData(sig)
	s = append(s, script.PushData(pub)...)
	return s, nil
}

func (t *sigPubTemplate) estimateLength() int {
	// Worst case: 1-byte push + 72-byte DER + 1 sighash byte, then a
	// 1-byte push + 33-byte compressed pubkey.
	return 1 + 72 + 1 + 1 + 33
}

// P2PKH unlocks a pay-to-public-key-hash output.
type P2PKH struct{ sigPubTemplate }

// NewP2PKH builds a P2PKH unlocking template.
func NewP2PKH(priv *ec.PrivateKey, sighashType uint32) *P2PKH {
	return &P2PKH{sigPubTemplate{priv: priv, sighashType: sighashType}}
}

func (t *P2PKH) Sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error) {
	return t.sign(tx, cache, inputIdx)
}

func (t *P2PKH) EstimateLength(tx *transaction.Transaction, inputIdx int) int {
	return t.estimateLength()
}

// Stas unlocks a STAS v2 token output; the unlocking script shape is
// identical to P2PKH.
type Stas struct{ sigPubTemplate }

// NewStas builds a Stas unlocking template.
func NewStas(priv *ec.PrivateKey, sighashType uint32) *Stas {
	return &Stas{sigPubTemplate{priv: priv, sighashType: sighashType}}
}

func (t *Stas) Sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error) {
	return t.sign(tx, cache, inputIdx)
}

func (t *Stas) EstimateLength(tx *transaction.Transaction, inputIdx int) int {
	return t.estimateLength()
}

// Dstas unlocks a dSTAS token output; the unlocking script shape is
// identical to P2PKH.
type Dstas struct{ sigPubTemplate }

// NewDstas builds a Dstas unlocking template.
func NewDstas(priv *ec.PrivateKey, sighashType uint32) *Dstas {
	return &Dstas{sigPubTemplate{priv: priv, sighashType: sighashType}}
}

func (t *Dstas) Sign(tx *transaction.Transaction, cache *sighash.Cache, inputIdx int) (script.Script, error) {
	return t.sign(tx, cache, inputIdx)
}

func (t *Dstas) EstimateLength(tx *transaction.Transaction, inputIdx int) int {
	return t.estimateLength()
}
