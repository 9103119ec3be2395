package script

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushDataSizing(t *testing.T) {
	cases := []struct {
		name string
		n    int
	}{
		{"empty", 0}, {"direct-min", 1}, {"direct-max", 75},
		{"pushdata1-min", 76}, {"pushdata1-max", 255},
		{"pushdata2-min", 256}, {"pushdata2-max", 65535},
		{"pushdata4-min", 65536},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xab}, tc.n)
			pushed := PushData(data)

			chunks, err := Parse(pushed)
			require.NoError(t, err)
			require.Len(t, chunks, 1)
			assert.Equal(t, data, chunks[0].Data)
		})
	}
}

func TestParseRejectsTruncatedPush(t *testing.T) {
	_, err := Parse([]byte{0x05, 0x01, 0x02})
	assert.Error(t, err)
}

func TestNewP2PKHScriptClassifies(t *testing.T) {
	hash := bytes.Repeat([]byte{0x11}, 20)
	s, err := NewP2PKHScript(hash)
	require.NoError(t, err)
	assert.Equal(t, P2PKH, Classify(s))
}

func TestNewP2PKHScriptRejectsBadHashLength(t *testing.T) {
	_, err := NewP2PKHScript([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestClassifyOpReturn(t *testing.T) {
	s := NewOpReturnScript([]byte("hello"))
	assert.Equal(t, OpReturn, Classify(s))

	prefixed := append([]byte{0x00}, s...)
	assert.Equal(t, OpReturn, Classify(prefixed))
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Classify([]byte{0x51, 0x52}))
}

func TestExtractStasV2(t *testing.T) {
	owner := bytes.Repeat([]byte{0x22}, 20)
	redemption := bytes.Repeat([]byte{0x33}, 20)

	s := make([]byte, stasV2MinLen)
	s[0], s[1], s[2] = 0x76, 0xA9, 0x14
	copy(s[3:23], owner)
	copy(s[stasV2MarkerOff:], stasV2Marker)
	copy(s[stasV2RedemptionOff:stasV2RedemptionOff+20], redemption)

	require.Equal(t, StasV2, Classify(s))

	fields, err := ExtractStasV2(s)
	require.NoError(t, err)
	assert.Equal(t, owner, fields.OwnerPKH[:])
	assert.Equal(t, redemption, fields.RedemptionPKH[:])
}

func TestExtractDstas(t *testing.T) {
	owner := bytes.Repeat([]byte{0x44}, 20)
	action := ActionData{Kind: ActionFreeze, Raw: []byte("reason")}

	s := []byte{0x14}
	s = append(s, owner...)
	s = append(s, PushData(action.Encode())...)
	s = append(s, dstasSuffix...)
	s = append(s, 0x63) // trailing bytes, layout is "..." after the suffix

	require.Equal(t, Dstas, Classify(s))

	fields, err := ExtractDstas(s)
	require.NoError(t, err)
	assert.Equal(t, owner, fields.OwnerPKH[:])
	assert.Equal(t, ActionFreeze, fields.Action.Kind)
	assert.Equal(t, []byte("reason"), fields.Action.Raw)
}
