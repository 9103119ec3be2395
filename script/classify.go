package script

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"

	"github.com/bsv-blockchain/go-sdk/errs"
)

// ScriptType is a tagged sum over the locking-script patterns this
// package recognizes. Modeling it this way (rather than a loose string
// tag) lets callers exhaustively switch over every recognized shape.
type ScriptType int

const (
	Unknown ScriptType = iota
	P2PKH
	OpReturn
	StasV2
	StasBTG
	Dstas
)

func (t ScriptType) String() string {
	switch t {
	case P2PKH:
		return "P2PKH"
	case OpReturn:
		return "OpReturn"
	case StasV2:
		return "StasV2"
	case StasBTG:
		return "StasBTG"
	case Dstas:
		return "Dstas"
	default:
		return "Unknown"
	}
}

const (
	stasV2MinLen        = 1432
	stasV2RedemptionOff = 1411
	stasV2MarkerOff     = 23
	stasBTGMinLen       = 1500
	stasBTGMarkerWindow = 400
)

var (
	stasV2Marker = []byte{0x88, 0xAC, 0x69, 0x76, 0xAA, 0x60}
	stasBTGMark  = []byte{0x68, 0x76, 0xA9, 0x14}
	dstasSuffix  = []byte{0x6D, 0x82, 0x73, 0x63}
)

// Classify returns the first matching pattern's tag, scanning in fixed
// order: P2PKH, OP_RETURN, STAS v2, STAS-BTG, dSTAS, then Unknown.
func Classify(s Script) ScriptType {
	switch {
	case isP2PKH(s):
		return P2PKH
	case isOpReturn(s):
		return OpReturn
	case isStasV2(s):
		return StasV2
	case isStasBTG(s):
		return StasBTG
	case isDstas(s):
		return Dstas
	default:
		return Unknown
	}
}

func isP2PKH(s Script) bool {
	return len(s) == 25 &&
		s[0] == txscript.OP_DUP && s[1] == txscript.OP_HASH160 && s[2] == 0x14 &&
		s[23] == txscript.OP_EQUALVERIFY && s[24] == txscript.OP_CHECKSIG
}

func isOpReturn(s Script) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] == txscript.OP_RETURN {
		return true
	}
	return len(s) > 1 && s[0] == txscript.OP_0 && s[1] == txscript.OP_RETURN
}

func isStasV2(s Script) bool {
	if len(s) < stasV2MinLen {
		return false
	}
	if s[0] != txscript.OP_DUP || s[1] != txscript.OP_HASH160 || s[2] != 0x14 {
		return false
	}
	return bytes.Equal(s[stasV2MarkerOff:stasV2MarkerOff+len(stasV2Marker)], stasV2Marker)
}

func isStasBTG(s Script) bool {
	if len(s) < stasBTGMinLen || s[0] != txscript.OP_IF {
		return false
	}
	window := s[:stasBTGMarkerWindow]
	return bytes.Contains(window, stasBTGMark)
}

func isDstas(s Script) bool {
	if len(s) < 21 || s[0] != 0x14 {
		return false
	}
	return bytes.Contains(s[21:], dstasSuffix)
}

// StasV2Fields holds the fields extracted from a StasV2-classified script.
type StasV2Fields struct {
	OwnerPKH      [20]byte
	RedemptionPKH [20]byte
	Splittable    bool
}

// ExtractStasV2 pulls the owner PKH, redemption PKH, and splittable flag
// out of a script already classified as StasV2.
func ExtractStasV2(s Script) (StasV2Fields, error) {
	if !isStasV2(s) {
		return StasV2Fields{}, errs.New(errs.InvalidParameter, "script does not match the STAS v2 layout")
	}
	var f StasV2Fields
	copy(f.OwnerPKH[:], s[3:23])
	if stasV2RedemptionOff+20 > len(s) {
		return StasV2Fields{}, errs.New(errs.TruncatedInput, "STAS v2 script too short to hold a redemption PKH")
	}
	copy(f.RedemptionPKH[:], s[stasV2RedemptionOff:stasV2RedemptionOff+20])
	flagOff := stasV2RedemptionOff + 20
	if flagOff+1 < len(s) && s[flagOff] == 0x01 {
		f.Splittable = s[flagOff+1] == 0x00
	} else {
		f.Splittable = true
	}
	return f, nil
}

// DstasFields holds the fields extracted from a Dstas-classified script.
type DstasFields struct {
	OwnerPKH [20]byte
	Action   ActionData
}

// ExtractDstas pulls the owner PKH and action push out of a script
// already classified as Dstas.
func ExtractDstas(s Script) (DstasFields, error) {
	if !isDstas(s) {
		return DstasFields{}, errs.New(errs.InvalidParameter, "script does not match the dSTAS layout")
	}
	var f DstasFields
	copy(f.OwnerPKH[:], s[1:21])

	chunks, err := Parse(s[21:])
	if err != nil {
		return DstasFields{}, err
	}
	if len(chunks) == 0 || !chunks[0].IsPush() {
		return DstasFields{}, errs.New(errs.InvalidParameter, "dSTAS script missing action push after owner PKH")
	}
	f.Action = ParseActionData(chunks[0].Data)
	return f, nil
}
