package smartbridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/domain"
)

func TestParse_Binary(t *testing.T) {
	record, err := Encode(&domain.Operation{
		SlpType:  domain.SlpTypeFungible,
		Op:       domain.OpSend,
		TokenID:  testTokenID,
		Quantity: qty("25"),
	})
	require.NoError(t, err)

	payload, err := Parse(record)
	require.NoError(t, err)
	assert.Equal(t, domain.SlpTypeFungible, payload.SlpType)
	assert.Equal(t, "SEND", payload.Fields["tp"])
	assert.Equal(t, testTokenID, payload.Fields["id"])
	assert.Equal(t, "25", payload.Fields["qt"])

	op, err := payload.Operation()
	require.NoError(t, err)
	assert.Equal(t, domain.OpSend, op.Op)
	assert.True(t, qty("25").Equal(*op.Quantity))
}

func TestParse_JSON(t *testing.T) {
	memo := `{"aslp1": {"tp": "GENESIS", "de": "2", "qt": 1000.5, "sy": "FOO", "na": "Foo token", "pa": 1, "mi": "false"}}`

	payload, err := Parse(memo)
	require.NoError(t, err)
	assert.Equal(t, domain.SlpTypeFungible, payload.SlpType)
	assert.Equal(t, json.Number("1000.5"), payload.Fields["qt"])

	op, err := payload.Operation()
	require.NoError(t, err)
	assert.Equal(t, domain.OpGenesis, op.Op)
	require.NotNil(t, op.Decimals)
	assert.Equal(t, uint8(2), *op.Decimals)
	assert.Equal(t, "1000.5", op.Quantity.String())
	assert.Equal(t, "FOO", op.Symbol)
	assert.True(t, op.IsPausable())
	require.NotNil(t, op.Mintable)
	assert.False(t, *op.Mintable)
}

func TestParse_JSONMetadata(t *testing.T) {
	memo := `{"aslp2": {"tp": "ADDMETA", "id": "` + testTokenID + `", "ch": 1, "dt": {"color": "red"}}}`

	payload, err := Parse(memo)
	require.NoError(t, err)

	op, err := payload.Operation()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "red"}, op.Data)
	assert.Equal(t, uint8(1), *op.Chunk)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		memo     string
		expected error
	}{
		{name: "plain memo", memo: "invoice 42", expected: ErrNotSmartbridge},
		{name: "broken json", memo: `{"aslp1": `, expected: ErrNotSmartbridge},
		{name: "unknown family", memo: `{"erc20": {"tp": "SEND"}}`, expected: ErrNotSmartbridge},
		{name: "two families", memo: `{"aslp1": {"tp": "SEND"}, "aslp2": {"tp": "CLONE"}}`, expected: ErrNotSmartbridge},
		{name: "missing tp", memo: `{"aslp1": {"qt": 1}}`, expected: ErrMalformedPayload},
		{name: "op outside family", memo: `{"aslp2": {"tp": "SEND"}}`, expected: ErrUnknownOpcode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.memo)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPayload_OperationCoercionError(t *testing.T) {
	payload, err := Parse(`{"aslp1": {"tp": "SEND", "qt": "lots"}}`)
	require.NoError(t, err)

	_, err = payload.Operation()
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
