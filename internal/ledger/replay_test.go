package ledger_test

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/contract"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/ledger"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/store"
)

const (
	master  = "AMasterXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	alice   = "AAliceXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	bob     = "ABobXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	txID    = "d2f5a3e1c0b9a8f7e6d5c4b3a2f1e0d9c8b7a6f5e4d3c2b1a0f9e8d7c6b5a4f3"
	minCost = 100000000
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func config() contract.Config {
	return contract.Config{
		MasterAddress: master,
		GenesisCost:   map[domain.SlpType]uint64{domain.SlpTypeFungible: minCost, domain.SlpTypeNFT: minCost},
	}
}

// seedSource journals and applies a genesis, a send and a refused send
func seedSource(t *testing.T) (store.Store, string) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	engines := contract.NewEngines(st, config())

	de := uint8(2)
	genesisQt := decimal.RequireFromString("1000")
	tokenID := domain.NewTokenID(domain.SlpTypeFungible, "FOO", 101, txID)

	sendQt := decimal.RequireFromString("25.5")
	overQt := decimal.RequireFromString("5000")

	records := []*domain.Record{
		{
			Operation: domain.Operation{SlpType: domain.SlpTypeFungible, Op: domain.OpGenesis, TokenID: tokenID, Symbol: "FOO", Name: "Foo", Decimals: &de, Quantity: &genesisQt},
			Height:    101, Index: 1, TxID: txID, Emitter: alice, Receiver: master, Cost: minCost,
		},
		{
			Operation: domain.Operation{SlpType: domain.SlpTypeFungible, Op: domain.OpSend, TokenID: tokenID, Quantity: &sendQt},
			Height:    102, Index: 1, TxID: "tx2", Emitter: alice, Receiver: bob,
		},
		{
			Operation: domain.Operation{SlpType: domain.SlpTypeFungible, Op: domain.OpSend, TokenID: tokenID, Quantity: &overQt},
			Height:    103, Index: 4, TxID: "tx3", Emitter: bob, Receiver: alice,
		},
	}
	for _, r := range records {
		require.NoError(t, st.AppendJournal(ctx, r))
		_, err := engines.Manage(ctx, r)
		require.NoError(t, err)
	}

	return st, tokenID
}

func TestReplay_ReDerivesState(t *testing.T) {
	source, tokenID := seedSource(t)
	target := store.NewMemoryStore()

	report, err := ledger.Replay(context.Background(), source, target, config(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Replayed)
	assert.True(t, report.Consistent(), "diverged=%v mismatched=%v", report.Diverged, report.Mismatched)

	h, err := target.GetHolder(context.Background(), bob, tokenID)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, int64(2550), h.Balance)
}

func TestReplay_ReportsTamperedHolder(t *testing.T) {
	ctx := context.Background()
	source, tokenID := seedSource(t)

	h, err := source.GetHolder(ctx, bob, tokenID)
	require.NoError(t, err)
	h.Balance += 100
	require.NoError(t, source.UpsertHolder(ctx, h))

	report, err := ledger.Replay(ctx, source, store.NewMemoryStore(), config(), 0)
	require.NoError(t, err)

	assert.False(t, report.Consistent())
	assert.Equal(t, []string{"holder:" + tokenID + ":" + bob}, report.Mismatched)
	assert.Empty(t, report.Diverged)
}

func TestReplay_ReportsDivergedRecord(t *testing.T) {
	ctx := context.Background()
	source, _ := seedSource(t)

	// a legit record the engines cannot apply on a fresh ledger
	qt := decimal.RequireFromString("1")
	orphan := &domain.Record{
		Operation: domain.Operation{SlpType: domain.SlpTypeFungible, Op: domain.OpSend, TokenID: "00000000000000000000000000000000", Quantity: &qt},
		Height:    104, Index: 1, TxID: "tx4", Emitter: alice, Receiver: bob,
	}
	require.NoError(t, source.AppendJournal(ctx, orphan))
	_, err := source.SetLegit(ctx, orphan.Stamp(), true)
	require.NoError(t, err)

	report, err := ledger.Replay(ctx, source, store.NewMemoryStore(), config(), 10)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Replayed)
	assert.Equal(t, []string{"104#1"}, report.Diverged)
}
