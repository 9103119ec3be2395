// Package brc78 implements BRC-78 encrypted message envelopes:
// ECDH-derived AES-256-GCM encryption keyed per message via BRC-42
// derivation, so neither side needs to exchange a symmetric key
// out of band.
package brc78

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/bsv-blockchain/go-sdk/brc42"
	"github.com/bsv-blockchain/go-sdk/ec"
	"github.com/bsv-blockchain/go-sdk/errs"
)

var versionPrefix = [4]byte{0x42, 0x42, 0x10, 0x33}

const (
	protocolName = "message encryption"
	ivSize       = 12
)

func invoiceFor(keyID []byte) (string, error) {
	return brc42.InvoiceNumber(2, protocolName, base64.StdEncoding.EncodeToString(keyID))
}

// symmetricKey derives the 32-byte AES key from a compressed shared
// point's x-coordinate: K = SHA256(S_x).
func symmetricKey(sharedCompressed []byte) [32]byte {
	// sharedCompressed is 0x02/0x03 ‖ x(32). The x-coordinate alone is
	// hashed, not the compression prefix.
	return sha256.Sum256(sharedCompressed[1:])
}

// Encrypt produces an encrypted message envelope from sender to
// recipient.
func Encrypt(sender *ec.PrivateKey, recipientPub *ec.PublicKey, plaintext []byte) ([]byte, error) {
	keyID := make([]byte, 32)
	if _, err := rand.Read(keyID); err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "generating keyId: %v", err)
	}
	invoice, err := invoiceFor(keyID)
	if err != nil {
		return nil, err
	}

	sp, err := brc42.DeriveChildPrivate(sender, recipientPub, invoice)
	if err != nil {
		return nil, err
	}
	rpPub, err := brc42.DeriveChildPublic(recipientPub, sender, invoice)
	if err != nil {
		return nil, err
	}
	shared := brc42.SharedSecret(sp, rpPub)
	key := symmetricKey(shared)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "constructing AES cipher: %v", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "constructing AES-GCM: %v", err)
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "generating IV: %v", err)
	}
	sealed := gcm.Seal(nil, iv, plaintext, nil)

	out := make([]byte, 0, 4+33+33+32+ivSize+len(sealed))
	out = append(out, versionPrefix[:]...)
	out = append(out, sender.PubKey().SerializeCompressed()...)
	out = append(out, recipientPub.SerializeCompressed()...)
	out = append(out, keyID...)
	out = append(out, iv...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens an encrypted message envelope. recipient must hold the
// private key matching the envelope's recipient public key.
func Decrypt(envelope []byte, recipient *ec.PrivateKey) ([]byte, error) {
	if len(envelope) < 4+33+33+32+ivSize+16 {
		return nil, errs.New(errs.TruncatedInput, "encrypted message envelope shorter than minimum possible length")
	}
	if [4]byte(envelope[:4]) != versionPrefix {
		return nil, errs.New(errs.InvalidEncoding, "encrypted message envelope has an unrecognized version prefix")
	}

	off := 4
	senderPub, err := ec.ParsePublicKey(envelope[off : off+33])
	if err != nil {
		return nil, err
	}
	off += 33

	recipientPub, err := ec.ParsePublicKey(envelope[off : off+33])
	if err != nil {
		return nil, err
	}
	off += 33
	if subtle.ConstantTimeCompare(recipientPub.SerializeCompressed(), recipient.PubKey().SerializeCompressed()) != 1 {
		return nil, errs.New(errs.VerificationFailure, "envelope recipient does not match the provided key")
	}

	keyID := envelope[off : off+32]
	off += 32
	iv := envelope[off : off+ivSize]
	off += ivSize
	ciphertext := envelope[off:]

	invoice, err := invoiceFor(keyID)
	if err != nil {
		return nil, err
	}

	// rpPriv is the private key behind the rp_pub the sender used to
	// derive its half of the shared secret (the BRC-42 identity with
	// sender/recipient swapped); senderChildPub is the matching public
	// half of the sender's own derived scalar.
	rpPriv, err := brc42.DeriveChildPrivate(recipient, senderPub, invoice)
	if err != nil {
		return nil, err
	}
	senderChildPub, err := brc42.DeriveChildPublic(senderPub, recipient, invoice)
	if err != nil {
		return nil, err
	}
	shared := brc42.SharedSecret(rpPriv, senderChildPub)
	key := symmetricKey(shared)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "constructing AES cipher: %v", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, errs.Newf(errs.InvalidParameter, "constructing AES-GCM: %v", err)
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, errs.Newf(errs.VerificationFailure, "AEAD authentication failed: %v", err)
	}
	return plaintext, nil
}
