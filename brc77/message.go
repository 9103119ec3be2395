// Package brc77 implements BRC-77 signed message envelopes: a sender
// proves authorship of a message to either a specific
// verifier or to anyone, using a fresh BRC-42 child key per message.
package brc77

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/bsv-blockchain/go-sdk/brc42"
	"github.com/bsv-blockchain/go-sdk/ec"
	"github.com/bsv-blockchain/go-sdk/errs"
)

var versionPrefix = [4]byte{0x42, 0x42, 0x33, 0x01}

// anyoneKey is the fixed stand-in private key used when a message has
// no specific verifier.
var anyoneKeyBytes = [32]byte{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 1,
}

func anyoneKey() *ec.PrivateKey {
	k, err := ec.PrivateKeyFromBytes(anyoneKeyBytes)
	if err != nil {
		// anyoneKeyBytes is the constant 1, always a valid scalar.
		panic(err)
	}
	return k
}

const protocolName = "message signing"

func invoiceFor(keyID []byte) (string, error) {
	return brc42.InvoiceNumber(2, protocolName, base64.StdEncoding.EncodeToString(keyID))
}

// Sign produces a signed message envelope. If verifier is nil, any
// holder of the message can check it was signed by signer.
func Sign(signer *ec.PrivateKey, message []byte, verifier *ec.PublicKey) ([]byte, error) {
	keyID := make([]byte, 32)
	if _, err := rand.Read(keyID); err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "generating keyId: %v", err)
	}
	invoice, err := invoiceFor(keyID)
	if err != nil {
		return nil, err
	}

	verifierPub := verifier
	if verifierPub == nil {
		verifierPub = anyoneKey().PubKey()
	}

	childPriv, err := brc42.DeriveChildPrivate(signer, verifierPub, invoice)
	if err != nil {
		return nil, err
	}

	h := sha256.Sum256(message)
	sig, err := ec.Sign(childPriv, h)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 4+33+33+32+80)
	out = append(out, versionPrefix[:]...)
	out = append(out, signer.PubKey().SerializeCompressed()...)
	if verifier == nil {
		out = append(out, 0x00)
	} else {
		out = append(out, verifier.SerializeCompressed()...)
	}
	out = append(out, keyID...)
	out = append(out, sig.Serialize()...)
	return out, nil
}

// Verify checks a signed message envelope. recipient is the private key
// of the intended verifier; pass nil if the envelope targets "anyone".
func Verify(envelope []byte, message []byte, recipient *ec.PrivateKey) (bool, error) {
	if len(envelope) < 4+33+1+32 {
		return false, errs.New(errs.TruncatedInput, "signed message envelope shorter than minimum possible length")
	}
	if [4]byte(envelope[:4]) != versionPrefix {
		return false, errs.New(errs.InvalidEncoding, "signed message envelope has an unrecognized version prefix")
	}

	off := 4
	senderPub, err := ec.ParsePublicKey(envelope[off : off+33])
	if err != nil {
		return false, err
	}
	off += 33

	var verifierLen int
	if envelope[off] == 0x00 {
		verifierLen = 1
	} else {
		verifierLen = 33
	}
	if len(envelope) < off+verifierLen+32 {
		return false, errs.New(errs.TruncatedInput, "signed message envelope truncated before keyId")
	}
	off += verifierLen

	keyID := envelope[off : off+32]
	off += 32
	der := envelope[off:]

	invoice, err := invoiceFor(keyID)
	if err != nil {
		return false, err
	}

	selfPriv := recipient
	if selfPriv == nil {
		selfPriv = anyoneKey()
	}

	vk, err := brc42.DeriveChildPublic(senderPub, selfPriv, invoice)
	if err != nil {
		return false, err
	}

	h := sha256.Sum256(message)
	return ec.Verify(der, h, vk)
}
