// Package bump implements the BRC-74 Merkle path (BUMP) format:
// parsing, serialization, and root reconstruction, including the
// CVE-2012-2459 duplicate-pair rejection.
package bump

import (
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-sdk/errs"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

const (
	flagDuplicate = 0x01
	flagIsTxID    = 0x02
)

// PathElement is one sibling entry at a given level.
type PathElement struct {
	Offset uint64
	Flags  byte
	Hash   [32]byte // zero and ignored when Flags&flagDuplicate != 0
}

func (e PathElement) isDuplicate() bool { return e.Flags&flagDuplicate != 0 }

// MerklePath is a BUMP: a block height plus one slice of PathElements
// per level, level 0 being the transaction leaves.
type MerklePath struct {
	BlockHeight uint64
	Levels      [][]PathElement
}

// Serialize encodes the path in the BRC-74 wire layout.
func (p *MerklePath) Serialize() []byte {
	var out []byte
	out = append(out, transaction.EncodeVarInt(p.BlockHeight)...)
	out = append(out, transaction.EncodeVarInt(uint64(len(p.Levels)))...)
	for _, level := range p.Levels {
		out = append(out, transaction.EncodeVarInt(uint64(len(level)))...)
		for _, e := range level {
			out = append(out, transaction.EncodeVarInt(e.Offset)...)
			out = append(out, e.Flags)
			if !e.isDuplicate() {
				out = append(out, e.Hash[:]...)
			}
		}
	}
	return out
}

// Parse decodes a BUMP from its wire bytes, sorting each level by
// offset.
func Parse(data []byte) (*MerklePath, error) {
	off := 0
	height, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	nLevels, n, err := transaction.DecodeVarInt(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	path := &MerklePath{BlockHeight: height}
	for l := uint64(0); l < nLevels; l++ {
		nElems, n, err := transaction.DecodeVarInt(data[off:])
		if err != nil {
			return nil, err
		}
		off += n

		level := make([]PathElement, 0, nElems)
		for i := uint64(0); i < nElems; i++ {
			offset, n, err := transaction.DecodeVarInt(data[off:])
			if err != nil {
				return nil, err
			}
			off += n

			if off >= len(data) {
				return nil, errs.New(errs.TruncatedInput, "BUMP level element missing flags byte")
			}
			flags := data[off]
			off++

			e := PathElement{Offset: offset, Flags: flags}
			if flags&flagDuplicate == 0 {
				if off+32 > len(data) {
					return nil, errs.New(errs.TruncatedInput, "BUMP level element missing hash")
				}
				copy(e.Hash[:], data[off:off+32])
				off += 32
			}
			level = append(level, e)
		}

		sort.Slice(level, func(i, j int) bool { return level[i].Offset < level[j].Offset })
		path.Levels = append(path.Levels, level)
	}

	return path, nil
}

func hashPair(left, right [32]byte) [32]byte {
	buf := make([]byte, 64)
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	var out [32]byte
	copy(out[:], chainhash.DoubleHashB(buf))
	return out
}

func findAtOffset(level []PathElement, offset uint64) (PathElement, bool) {
	for _, e := range level {
		if e.Offset == offset {
			return e, true
		}
	}
	return PathElement{}, false
}

// ComputeRoot reconstructs the Merkle root for the leaf at leafOffset on
// level 0, walking level 0 up to the single remaining level, applying
// the duplicate/sibling rules and the CVE-2012-2459 rejection.
func (p *MerklePath) ComputeRoot(leafOffset uint64, leafHash [32]byte) ([32]byte, error) {
	var zero [32]byte
	working := leafHash
	i := leafOffset

	for level := 0; level < len(p.Levels); level++ {
		siblingOffset := i ^ 1
		sibling, ok := findAtOffset(p.Levels[level], siblingOffset)
		if !ok {
			return zero, errs.Newf(errs.BumpMalformed, "missing hash at height %d, offset %d", level, siblingOffset)
		}

		if sibling.isDuplicate() {
			if siblingOffset < i {
				return zero, errs.New(errs.BumpMalformed, "only the right-most odd element may be a duplicate (CVE-2012-2459)")
			}
			working = hashPair(working, working)
		} else if siblingOffset%2 == 0 {
			working = hashPair(sibling.Hash, working)
		} else {
			working = hashPair(working, sibling.Hash)
		}

		i >>= 1
	}

	log.Tracef("reconstructed merkle root for leaf offset %d across %d levels", leafOffset, len(p.Levels))
	return working, nil
}
