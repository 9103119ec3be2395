package ec

import (
	"crypto/subtle"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-sdk/errs"
)

// base58CheckEncode appends a double-SHA256 checksum to payload (which
// already carries its version byte(s)) and base58-encodes the result.
func base58CheckEncode(payload []byte) string {
	checksum := chainhash.DoubleHashB(payload)[:4]
	full := make([]byte, 0, len(payload)+4)
	full = append(full, payload...)
	full = append(full, checksum...)
	return base58.Encode(full)
}

// base58CheckDecode reverses base58CheckEncode, verifying the checksum.
func base58CheckDecode(s string) ([]byte, error) {
	decoded := base58.Decode(s)
	if len(decoded) < 5 {
		return nil, errs.New(errs.TruncatedInput, "base58check string too short to hold a checksum")
	}
	payload := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]
	expected := chainhash.DoubleHashB(payload)[:4]
	if subtle.ConstantTimeCompare(checksum, expected) != 1 {
		return nil, errs.New(errs.InvalidEncoding, "base58check checksum mismatch")
	}
	return payload, nil
}
