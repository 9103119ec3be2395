// Package ec implements RFC 6979 deterministic nonces, ECDSA
// signing/verification with a DER codec, and the key encodings
// (base58check, WIF, addresses, HD child keys).
//
// Nonce generation is implemented in-package rather than delegated to
// the host's crypto library, so nonce safety is a property of this
// package rather than of whatever runtime happens to host it.
package ec

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"math/big"

	"github.com/bsv-blockchain/go-sdk/primitives"
)

// rfc6979Drbg implements the HMAC-DRBG construction from RFC 6979 §3.2,
// steps a-h, as a resumable generator: Next() returns one candidate
// k in [1, n-1], and repeated calls continue the same K/V chain rather
// than restarting, so a sign() retry after a zero r or s draws the next
// candidate from the same deterministic stream.
type rfc6979Drbg struct {
	k []byte
	v []byte
}

// newRFC6979 seeds the DRBG for a given (private key, message hash) pair.
func newRFC6979(privKey, msgHash [32]byte) *rfc6979Drbg {
	n := primitives.N()
	bits2octets := bits2octets(msgHash[:], n)

	k := bytes.Repeat([]byte{0x00}, 32)
	v := bytes.Repeat([]byte{0x01}, 32)

	k = hmacSum(k, v, []byte{0x00}, privKey[:], bits2octets)
	v = hmacSum(k, v)
	k = hmacSum(k, v, []byte{0x01}, privKey[:], bits2octets)
	v = hmacSum(k, v)

	return &rfc6979Drbg{k: k, v: v}
}

// Next returns the next candidate nonce in [1, n-1].
func (d *rfc6979Drbg) Next() *big.Int {
	n := primitives.N()
	for {
		d.v = hmacSum(d.k, d.v)
		t := new(big.Int).SetBytes(d.v)
		if t.Sign() > 0 && t.Cmp(n) < 0 {
			// Prepare the chain for a possible subsequent retry before
			// returning, so the caller never needs to know our internals.
			d.k = hmacSum(d.k, d.v, []byte{0x00})
			d.v = hmacSum(d.k, d.v)
			return t
		}
		d.k = hmacSum(d.k, d.v, []byte{0x00})
		d.v = hmacSum(d.k, d.v)
	}
}

func hmacSum(key []byte, parts ...[]byte) []byte {
	mac := hmac.New(sha256.New, key)
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil)
}

// bits2octets reduces a 32-byte hash modulo n and returns a 32-byte
// big-endian encoding, per RFC 6979 §2.3.4.
func bits2octets(h []byte, n *big.Int) []byte {
	z := new(big.Int).SetBytes(h)
	z.Mod(z, n)
	out := make([]byte, 32)
	b := z.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// Nonce computes the canonical RFC 6979 nonce for (privKey, msgHash): a
// pure function with no RNG, useful to callers (and tests) that just
// want the deterministic k without driving a full signature.
func Nonce(privKey, msgHash [32]byte) *big.Int {
	return newRFC6979(privKey, msgHash).Next()
}
