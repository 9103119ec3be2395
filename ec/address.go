package ec

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/bsv-blockchain/go-sdk/errs"
)

// P2PKH address version bytes.
const (
	addrVersionMainnet = 0x00
	addrVersionTestnet = 0x6f
)

// Address derives the base58check P2PKH address for pub, hashing its
// compressed encoding with RIPEMD160(SHA256(.)) via btcutil.Hash160.
func Address(pub *PublicKey, testnet bool) string {
	version := byte(addrVersionMainnet)
	if testnet {
		version = addrVersionTestnet
	}
	hash := btcutil.Hash160(pub.SerializeCompressed())

	payload := make([]byte, 0, 21)
	payload = append(payload, version)
	payload = append(payload, hash...)
	return base58CheckEncode(payload)
}

// DecodeAddress recovers the 20-byte public key hash and network from a
// base58check P2PKH address.
func DecodeAddress(s string) (hash160 [20]byte, testnet bool, err error) {
	payload, err := base58CheckDecode(s)
	if err != nil {
		return hash160, false, err
	}
	if len(payload) != 21 {
		return hash160, false, errs.Newf(errs.InvalidEncoding, "P2PKH address payload must be 21 bytes, got %d", len(payload))
	}
	switch payload[0] {
	case addrVersionMainnet:
		testnet = false
	case addrVersionTestnet:
		testnet = true
	default:
		return hash160, false, errs.Newf(errs.InvalidEncoding, "unrecognized address version byte 0x%02x", payload[0])
	}
	copy(hash160[:], payload[1:])
	return hash160, testnet, nil
}
