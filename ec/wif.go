package ec

import (
	"github.com/bsv-blockchain/go-sdk/errs"
)

// WIF version bytes, shared with Bitcoin's own encoding.
const (
	wifVersionMainnet = 0x80
	wifVersionTestnet = 0xef
)

// EncodeWIF encodes priv as Wallet Import Format. compressed records
// whether the corresponding public key should be treated as compressed
// by anything that later decodes this string.
func EncodeWIF(priv *PrivateKey, compressed bool, testnet bool) string {
	version := byte(wifVersionMainnet)
	if testnet {
		version = wifVersionTestnet
	}

	raw := priv.Bytes()
	payload := make([]byte, 0, 34)
	payload = append(payload, version)
	payload = append(payload, raw[:]...)
	if compressed {
		payload = append(payload, 0x01)
	}
	return base58CheckEncode(payload)
}

// DecodeWIF parses a WIF string, reporting the recovered key, whether it
// indicates a compressed public key, and whether it targets testnet.
func DecodeWIF(s string) (priv *PrivateKey, compressed bool, testnet bool, err error) {
	payload, err := base58CheckDecode(s)
	if err != nil {
		return nil, false, false, err
	}
	switch len(payload) {
	case 33:
		compressed = false
	case 34:
		if payload[33] != 0x01 {
			return nil, false, false, errs.New(errs.InvalidEncoding, "WIF compression flag byte must be 0x01")
		}
		compressed = true
	default:
		return nil, false, false, errs.Newf(errs.InvalidEncoding, "WIF payload has unexpected length %d", len(payload))
	}

	switch payload[0] {
	case wifVersionMainnet:
		testnet = false
	case wifVersionTestnet:
		testnet = true
	default:
		return nil, false, false, errs.Newf(errs.InvalidEncoding, "unrecognized WIF version byte 0x%02x", payload[0])
	}

	var b [32]byte
	copy(b[:], payload[1:33])
	priv, err = PrivateKeyFromBytes(b)
	if err != nil {
		return nil, false, false, err
	}
	return priv, compressed, testnet, nil
}
