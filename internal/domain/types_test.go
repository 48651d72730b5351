package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidSlpType(t *testing.T) {
	tests := []struct {
		name     string
		slpType  SlpType
		expected bool
	}{
		{name: "fungible family", slpType: SlpTypeFungible, expected: true},
		{name: "nft family", slpType: SlpTypeNFT, expected: true},
		{name: "empty", slpType: SlpType(""), expected: false},
		{name: "unknown family", slpType: SlpType("aslp3"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidSlpType(tt.slpType))
		})
	}
}

func TestOpTypeFromOpcode(t *testing.T) {
	tests := []struct {
		name     string
		slpType  SlpType
		code     byte
		expected OpType
		ok       bool
	}{
		{name: "fungible genesis", slpType: SlpTypeFungible, code: 0x00, expected: OpGenesis, ok: true},
		{name: "fungible send", slpType: SlpTypeFungible, code: 0x03, expected: OpSend, ok: true},
		{name: "fungible unfreeze", slpType: SlpTypeFungible, code: 0x08, expected: OpUnfreeze, ok: true},
		{name: "fungible rejects addmeta", slpType: SlpTypeFungible, code: 0x10, ok: false},
		{name: "nft addmeta", slpType: SlpTypeNFT, code: 0x10, expected: OpAddMeta, ok: true},
		{name: "nft clone", slpType: SlpTypeNFT, code: 0x13, expected: OpClone, ok: true},
		{name: "nft rejects send", slpType: SlpTypeNFT, code: 0x03, ok: false},
		{name: "unknown opcode", slpType: SlpTypeNFT, code: 0x0a, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := OpTypeFromOpcode(tt.slpType, tt.code)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, op)
				code, found := op.Opcode()
				assert.True(t, found)
				assert.Equal(t, tt.code, code)
			}
		})
	}
}

func TestBlockStamp(t *testing.T) {
	b := BlockStamp{Height: 120, Index: 3}
	assert.Equal(t, "120#3", b.String())

	parsed, err := ParseBlockStamp("120#3")
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	for _, invalid := range []string{"", "120", "a#1", "1#b", "1#-2"} {
		_, err := ParseBlockStamp(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestBlockStamp_Compare(t *testing.T) {
	tests := []struct {
		name     string
		a        BlockStamp
		b        BlockStamp
		expected int
	}{
		{name: "lower height", a: BlockStamp{Height: 9, Index: 50}, b: BlockStamp{Height: 10, Index: 1}, expected: -1},
		{name: "higher height", a: BlockStamp{Height: 11, Index: 1}, b: BlockStamp{Height: 10, Index: 9}, expected: 1},
		{name: "same height lower index", a: BlockStamp{Height: 10, Index: 2}, b: BlockStamp{Height: 10, Index: 10}, expected: -1},
		{name: "same height higher index", a: BlockStamp{Height: 10, Index: 10}, b: BlockStamp{Height: 10, Index: 2}, expected: 1},
		{name: "equal", a: BlockStamp{Height: 10, Index: 2}, b: BlockStamp{Height: 10, Index: 2}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Compare(tt.b))
			assert.Equal(t, tt.expected >= 0, tt.a.AtLeast(tt.b))
			assert.Equal(t, tt.expected > 0, tt.a.After(tt.b))
		})
	}
}

func TestNewTokenID(t *testing.T) {
	id := NewTokenID(SlpTypeFungible, "FOO", 100, "abcd")
	assert.Len(t, id, TOKEN_ID_LENGTH)
	// md5("ASLP1.FOO.100.abcd")
	assert.Equal(t, id, NewTokenID(SlpTypeFungible, "FOO", 100, "abcd"))
	assert.NotEqual(t, id, NewTokenID(SlpTypeNFT, "FOO", 100, "abcd"))
	assert.NotEqual(t, id, NewTokenID(SlpTypeFungible, "FOO", 101, "abcd"))
}

func TestOperation_Fields(t *testing.T) {
	de := uint8(2)
	pa := true
	op := Operation{
		SlpType:  SlpTypeFungible,
		Op:       OpGenesis,
		Decimals: &de,
		Symbol:   "FOO",
		Name:     "Foo token",
		Pausable: &pa,
	}

	fields := op.Fields()
	assert.Equal(t, map[string]any{
		"tp": "GENESIS",
		"de": 2,
		"sy": "FOO",
		"na": "Foo token",
		"pa": true,
	}, fields)
	assert.True(t, op.IsPausable())
	assert.False(t, op.IsMintable())
}
