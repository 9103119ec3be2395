// Package beef implements the BEEF transaction container
// (BRC-64/95/96), bundling raw transactions with the Merkle paths that
// prove their ancestry without requiring a separate round trip per
// transaction.
package beef

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-sdk/bump"
	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// BEEF version tags.
const (
	VersionV1     uint32 = 0xEFBE0100
	VersionV2     uint32 = 0xEFBE0200
	VersionAtomic uint32 = 0x01010101
)

// TxKind tags how a BeefTx's bytes are present in the container.
type TxKind int

const (
	RawTx TxKind = iota
	RawTxAndBump
	TxIDOnly
)

const (
	v2FormatRaw        = 0
	v2FormatRawAndBump = 1
	v2FormatTxIDOnly   = 2
)

// BeefTx is one transaction entry in a container.
type BeefTx struct {
	Kind      TxKind
	TXID      [32]byte
	Tx        *transaction.Transaction
	BumpIndex int // valid only when Kind == RawTxAndBump
}

// Container is a parsed BEEF: a set of BUMPs plus a txid-keyed map of
// transaction entries.
type Container struct {
	Version      uint32
	SubjectTXID  [32]byte // populated only for Atomic containers
	Bumps        []*bump.MerklePath
	Transactions map[[32]byte]*BeefTx
}

// Parse decodes a BEEF container, dispatching on its version tag.
func Parse(data []byte) (*Container, error) {
	if len(data) < 4 {
		return nil, errs.New(errs.TruncatedInput, "BEEF container shorter than a version tag")
	}
	version := binary.LittleEndian.Uint32(data[:4])

	if version == VersionAtomic {
		if len(data) < 36 {
			return nil, errs.New(errs.TruncatedInput, "atomic BEEF container missing subject txid")
		}
		var subject [32]byte
		copy(subject[:], data[4:36])
		inner, err := Parse(data[36:])
		if err != nil {
			return nil, err
		}
		inner.SubjectTXID = subject
		return inner, nil
	}

	switch version {
	case VersionV1:
		return parseBody(data[4:], version, false)
	case VersionV2:
		return parseBody(data[4:], version, true)
	default:
		return nil, errs.Newf(errs.InvalidEncoding, "unrecognized BEEF version tag 0x%08x", version)
	}
}

func parseBody(data []byte, version uint32, v2 bool) (*Container, error) {
	off := 0
	nBumps, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	c := &Container{Version: version, Transactions: make(map[[32]byte]*BeefTx)}
	for i := uint64(0); i < nBumps; i++ {
		path, consumed, err := parseOneBump(data[off:])
		if err != nil {
			return nil, err
		}
		c.Bumps = append(c.Bumps, path)
		off += consumed
	}

	nTxs, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	for i := uint64(0); i < nTxs; i++ {
		entry := &BeefTx{}

		format := v2FormatRaw
		if v2 {
			if off >= len(data) {
				return nil, errs.New(errs.TruncatedInput, "BEEF v2 transaction entry missing format byte")
			}
			format = int(data[off])
			off++
		}

		switch format {
		case v2FormatTxIDOnly:
			if off+32 > len(data) {
				return nil, errs.New(errs.TruncatedInput, "BEEF txid-only entry truncated")
			}
			entry.Kind = TxIDOnly
			copy(entry.TXID[:], data[off:off+32])
			off += 32

		case v2FormatRaw, v2FormatRawAndBump:
			tx, consumed, err := deserializeTxPrefixed(data[off:])
			if err != nil {
				return nil, err
			}
			entry.Tx = tx
			entry.TXID = tx.TXID()
			off += consumed

			hasBump := format == v2FormatRawAndBump
			if !v2 {
				if off < len(data) && data[off] == 0x01 {
					hasBump = true
					off++
				}
			}
			if hasBump {
				idx, n, err := transaction.DecodeVarInt(data[off:])
				if err != nil {
					return nil, err
				}
				off += n
				entry.Kind = RawTxAndBump
				entry.BumpIndex = int(idx)
			} else {
				entry.Kind = RawTx
			}

		default:
			return nil, errs.Newf(errs.InvalidEncoding, "unrecognized BEEF v2 transaction format byte %d", format)
		}

		c.Transactions[entry.TXID] = entry
	}

	log.Debugf("parsed BEEF 0x%08x: %d bumps, %d transactions", version, len(c.Bumps), len(c.Transactions))
	return c, nil
}

// parseOneBump parses a single BUMP and reports bytes consumed. BUMPs
// don't carry their own length prefix, so this walks the same fields
// bump.Parse does to learn where the next one starts.
func parseOneBump(data []byte) (*bump.MerklePath, int, error) {
	off := 0
	_, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	nLevels, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	for l := uint64(0); l < nLevels; l++ {
		nElems, n, err := transaction.DecodeVarInt(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		for i := uint64(0); i < nElems; i++ {
			_, n, err := transaction.DecodeVarInt(data[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n
			if off >= len(data) {
				return nil, 0, errs.New(errs.TruncatedInput, "BUMP element missing flags byte")
			}
			flags := data[off]
			off++
			if flags&0x01 == 0 {
				off += 32
			}
		}
	}

	path, err := bump.Parse(data[:off])
	if err != nil {
		return nil, 0, err
	}
	return path, off, nil
}

// deserializeTxPrefixed parses one raw transaction from the front of
// data and reports bytes consumed, by re-scanning the same fields
// transaction.Deserialize does.
func deserializeTxPrefixed(data []byte) (*transaction.Transaction, int, error) {
	off := 4
	nIn, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n
	for i := uint64(0); i < nIn; i++ {
		off += 36
		scriptLen, n, err := transaction.DecodeVarInt(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n + int(scriptLen) + 4
	}

	nOut, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n
	for i := uint64(0); i < nOut; i++ {
		off += 8
		scriptLen, n, err := transaction.DecodeVarInt(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n + int(scriptLen)
	}
	off += 4 // locktime

	tx, err := transaction.Deserialize(data[:off])
	if err != nil {
		return nil, 0, err
	}
	return tx, off, nil
}

// IsValid checks internal consistency: every RawTxAndBump entry's txid
// must appear as a leaf of its referenced bump, and that bump must
// reconstruct to some root. The library does not fetch block headers,
// so checking that root against consensus is the caller's job.
func (c *Container) IsValid() error {
	for txid, entry := range c.Transactions {
		if entry.Kind != RawTxAndBump {
			continue
		}
		if entry.BumpIndex < 0 || entry.BumpIndex >= len(c.Bumps) {
			return errs.Newf(errs.BumpMalformed, "tx %x references bump index %d out of range", txid, entry.BumpIndex)
		}
		path := c.Bumps[entry.BumpIndex]

		leafOffset, found := leafOffsetFor(path, txid)
		if !found {
			return errs.Newf(errs.BumpMalformed, "tx %x does not appear as a leaf of its referenced bump", txid)
		}
		if _, err := path.ComputeRoot(leafOffset, txid); err != nil {
			return errs.Newf(errs.BumpMalformed, "tx %x: bump does not reconstruct a root: %v", txid, err)
		}
	}
	return nil
}

func leafOffsetFor(path *bump.MerklePath, txid [32]byte) (uint64, bool) {
	if len(path.Levels) == 0 {
		return 0, false
	}
	for _, e := range path.Levels[0] {
		if e.Hash == txid {
			return e.Offset, true
		}
	}
	return 0, false
}
