// Package brc42 implements BRC-42/43 key derivation: shared secrets and
// invoice-number-keyed child key derivation, the foundation that brc77
// and brc78 build their per-message keys on.
package brc42

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/big"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/go-sdk/ec"
	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/primitives"
)

// SharedSecret returns the 33-byte compressed form of priv*pub, the BRC-42
// shared secret both derivation directions are built from.
func SharedSecret(priv *ec.PrivateKey, pub *ec.PublicKey) []byte {
	return priv.ECDH(pub)
}

// InvoiceNumber validates and formats an invoice number string as
// "{securityLevel}-{protocol}-{keyId}".
func InvoiceNumber(securityLevel int, protocol, keyID string) (string, error) {
	if securityLevel < 0 || securityLevel > 2 {
		return "", errs.Newf(errs.InvalidParameter, "security level must be 0, 1, or 2, got %d", securityLevel)
	}
	if err := validateProtocol(protocol); err != nil {
		return "", err
	}
	return strconv.Itoa(securityLevel) + "-" + protocol + "-" + keyID, nil
}

func validateProtocol(protocol string) error {
	if len(protocol) < 5 || len(protocol) > 400 {
		return errs.Newf(errs.InvalidParameter, "protocol string must be 5-400 characters, got %d", len(protocol))
	}
	for i := 0; i < len(protocol); i++ {
		if protocol[i] > 127 {
			return errs.New(errs.InvalidParameter, "protocol string must be ASCII-only")
		}
	}
	if strings.Contains(protocol, "  ") {
		return errs.New(errs.InvalidParameter, "protocol string must not contain double spaces")
	}
	if strings.HasSuffix(protocol, " protocol") {
		return errs.New(errs.InvalidParameter, `protocol string must not end with " protocol"`)
	}
	return nil
}

// invoiceScalar returns HMAC-SHA256(sharedSecret, invoice) reduced as a
// big-endian scalar, the k both derivation directions add in.
func invoiceScalar(sharedSecret []byte, invoice string) *big.Int {
	mac := hmac.New(sha256.New, sharedSecret)
	mac.Write([]byte(invoice))
	return new(big.Int).SetBytes(mac.Sum(nil))
}

// DeriveChildPrivate computes selfPriv + HMAC-SHA256(shared_secret(selfPriv,
// cpPub), invoice) mod n, rejecting an out-of-range or zero result.
func DeriveChildPrivate(selfPriv *ec.PrivateKey, cpPub *ec.PublicKey, invoice string) (*ec.PrivateKey, error) {
	shared := SharedSecret(selfPriv, cpPub)
	k := invoiceScalar(shared, invoice)
	if k.Cmp(primitives.N()) >= 0 {
		return nil, errs.New(errs.OutOfRangeScalar, "invoice-derived scalar is out of range")
	}
	return selfPriv.Add(k)
}

// DeriveChildPublic computes cpPub + HMAC-SHA256(shared_secret(selfPriv,
// cpPub), invoice)*G. Given matching (selfPriv, cpPub) pairs on each side,
// DeriveChildPublic(A_pub, B_priv, invoice) == DeriveChildPrivate(A_priv,
// B_pub, invoice).PubKey() — the identity BRC-77/78 rely on.
func DeriveChildPublic(cpPub *ec.PublicKey, selfPriv *ec.PrivateKey, invoice string) (*ec.PublicKey, error) {
	shared := SharedSecret(selfPriv, cpPub)
	k := invoiceScalar(shared, invoice)
	if k.Cmp(primitives.N()) >= 0 {
		return nil, errs.New(errs.OutOfRangeScalar, "invoice-derived scalar is out of range")
	}
	return cpPub.Add(k), nil
}
