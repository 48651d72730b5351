package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

const (
	testTokenID = "0f1e2d3c4b5a69788796a5b4c3d2e1f0"
	testOwner   = "AKdr5d9AMEnsKYxpDcoHdyyjSCKVx3r9Nj"
	testHolder  = "ARagZkbVyCbTozsBEKbxB6mPfENJ2a8N6U"
	testThird   = "AXzxJ8Ts3dQ2bvBR1tPE7GUee9iSEJb8HX"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func boolPtr(b bool) *bool {
	return &b
}

func buildTestRecord(height uint64, index uint32, op domain.OpType) *domain.Record {
	de := uint8(2)
	qt := decimal.RequireFromString("1000")
	return &domain.Record{
		Operation: domain.Operation{
			SlpType:  domain.SlpTypeFungible,
			Op:       op,
			TokenID:  testTokenID,
			Decimals: &de,
			Quantity: &qt,
			Symbol:   "FOO",
			Name:     "Foo token",
		},
		Height:   height,
		Index:    index,
		TxID:     "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
		Emitter:  testOwner,
		Receiver: testHolder,
		Cost:     100000000,
	}
}

func buildTestContract(tokenID string) *schema.Contract {
	return &schema.Contract{
		TokenID:      tokenID,
		SlpType:      string(domain.SlpTypeFungible),
		Symbol:       "FOO",
		Name:         "Foo token",
		Owner:        testOwner,
		Decimals:     2,
		Supply:       100000,
		Minted:       100000,
		Pausable:     true,
		GenesisStamp: "10#1",
	}
}

func qty(t *testing.T, v string) domain.Quantity {
	q, err := domain.QuantityFromDecimal(decimal.RequireFromString(v), 2)
	require.NoError(t, err)
	return q
}

func requireHolder(t *testing.T, s Store, address string) *schema.Holder {
	t.Helper()
	h, err := s.GetHolder(context.Background(), address, testTokenID)
	require.NoError(t, err)
	require.NotNil(t, h)
	return h
}

// =============================================================================
// Test: Journal
// =============================================================================

func testJournal(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("append and get pending record", func(t *testing.T) {
		record := buildTestRecord(100, 1, domain.OpGenesis)
		record.Legit = boolPtr(true)

		require.NoError(t, store.AppendJournal(ctx, record))

		got, err := store.GetJournal(ctx, domain.BlockStamp{Height: 100, Index: 1})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Legit, "appended records always start pending")
		assert.Equal(t, domain.OpGenesis, got.Op)
		assert.Equal(t, testTokenID, got.TokenID)
		assert.Equal(t, uint8(2), *got.Decimals)
		assert.True(t, record.Quantity.Equal(*got.Quantity))
		assert.Equal(t, testOwner, got.Emitter)
		assert.Equal(t, uint64(100000000), got.Cost)
	})

	t.Run("duplicate blockstamp", func(t *testing.T) {
		record := buildTestRecord(101, 3, domain.OpSend)
		require.NoError(t, store.AppendJournal(ctx, record))

		again := buildTestRecord(101, 3, domain.OpBurn)
		err := store.AppendJournal(ctx, again)
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		assert.True(t, IsDuplicate(err))

		got, err := store.GetJournal(ctx, record.Stamp())
		require.NoError(t, err)
		assert.Equal(t, domain.OpSend, got.Op)
	})

	t.Run("metadata survives storage", func(t *testing.T) {
		ch := uint8(2)
		record := buildTestRecord(102, 1, domain.OpAddMeta)
		record.SlpType = domain.SlpTypeNFT
		record.Decimals, record.Quantity = nil, nil
		record.Chunk = &ch
		record.Data = map[string]string{"color": "red", "size": "xl"}
		require.NoError(t, store.AppendJournal(ctx, record))

		got, err := store.GetJournal(ctx, record.Stamp())
		require.NoError(t, err)
		assert.Equal(t, record.Data, got.Data)
		assert.Equal(t, uint8(2), *got.Chunk)
		assert.Nil(t, got.Quantity)
	})

	t.Run("unknown blockstamp returns nil", func(t *testing.T) {
		got, err := store.GetJournal(ctx, domain.BlockStamp{Height: 1, Index: 99})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set legit transitions once", func(t *testing.T) {
		record := buildTestRecord(103, 1, domain.OpMint)
		require.NoError(t, store.AppendJournal(ctx, record))

		ok, err := store.SetLegit(ctx, record.Stamp(), true)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.SetLegit(ctx, record.Stamp(), false)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := store.GetJournal(ctx, record.Stamp())
		require.NoError(t, err)
		require.NotNil(t, got.Legit)
		assert.True(t, *got.Legit)
	})

	t.Run("set legit on unknown record", func(t *testing.T) {
		ok, err := store.SetLegit(ctx, domain.BlockStamp{Height: 999, Index: 1}, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("genesis record and max height", func(t *testing.T) {
		got, err := store.GetGenesisRecord(ctx, testTokenID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.BlockStamp{Height: 100, Index: 1}, got.Stamp())

		missing, err := store.GetGenesisRecord(ctx, "ffffffffffffffffffffffffffffffff")
		require.NoError(t, err)
		assert.Nil(t, missing)

		height, err := store.MaxJournalHeight(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(103), height)
	})

	t.Run("list journal by filter", func(t *testing.T) {
		all, err := store.ListJournal(ctx, JournalFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i := 1; i < len(all); i++ {
			assert.True(t, all[i].Stamp().After(all[i-1].Stamp()))
		}

		applied, err := store.ListJournal(ctx, JournalFilter{Legit: boolPtr(true)})
		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.Equal(t, uint64(103), applied[0].Height)

		pending, err := store.ListJournal(ctx, JournalFilter{Pending: true})
		require.NoError(t, err)
		assert.Len(t, pending, 3)

		after, err := store.ListJournal(ctx, JournalFilter{After: domain.BlockStamp{Height: 101, Index: 3}, Limit: 1})
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, domain.BlockStamp{Height: 102, Index: 1}, after[0].Stamp())
	})
}

// =============================================================================
// Test: Contracts
// =============================================================================

func testContracts(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, store.CreateContract(ctx, buildTestContract(testTokenID)))

		got, err := store.GetContract(ctx, testTokenID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "FOO", got.Symbol)
		assert.Equal(t, int64(100000), got.Supply)
		assert.Equal(t, int16(2), got.Decimals)
		assert.True(t, got.Pausable)
		assert.False(t, got.Paused)

		supply, err := got.Quantity(got.Supply)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", supply.String())
	})

	t.Run("duplicate token id", func(t *testing.T) {
		err := store.CreateContract(ctx, buildTestContract(testTokenID))
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("update mutable fields", func(t *testing.T) {
		got, err := store.GetContract(ctx, testTokenID)
		require.NoError(t, err)

		got.Paused = true
		got.Owner = testHolder
		got.Burned = 500
		require.NoError(t, store.UpdateContract(ctx, got))

		updated, err := store.GetContract(ctx, testTokenID)
		require.NoError(t, err)
		assert.True(t, updated.Paused)
		assert.Equal(t, testHolder, updated.Owner)
		assert.Equal(t, int64(500), updated.Burned)

		circulating, err := updated.Circulating()
		require.NoError(t, err)
		assert.Equal(t, "1005.00", circulating.String())
	})

	t.Run("update unknown contract", func(t *testing.T) {
		err := store.UpdateContract(ctx, buildTestContract("ffffffffffffffffffffffffffffffff"))
		assert.ErrorIs(t, err, ErrContractNotFound)
		assert.ErrorIs(t, err, domain.ErrStore)
	})

	t.Run("unknown contract returns nil", func(t *testing.T) {
		got, err := store.GetContract(ctx, "ffffffffffffffffffffffffffffffff")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

// =============================================================================
// Test: Holders
// =============================================================================

func testHolders(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		holder := &schema.Holder{Address: testOwner, TokenID: testTokenID, Balance: 100000, Owner: true, BlockStamp: "10#1"}
		require.NoError(t, store.CreateHolder(ctx, holder))

		got := requireHolder(t, store, testOwner)
		assert.Equal(t, int64(100000), got.Balance)
		assert.True(t, got.Owner)
		assert.False(t, got.Frozen)

		stamp, err := got.Stamp()
		require.NoError(t, err)
		assert.Equal(t, domain.BlockStamp{Height: 10, Index: 1}, stamp)
	})

	t.Run("duplicate holder", func(t *testing.T) {
		err := store.CreateHolder(ctx, &schema.Holder{Address: testOwner, TokenID: testTokenID})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("upsert replaces existing holder", func(t *testing.T) {
		got := requireHolder(t, store, testOwner)
		got.Frozen = true
		got.BlockStamp = "11#2"
		require.NoError(t, store.UpsertHolder(ctx, got))

		updated := requireHolder(t, store, testOwner)
		assert.True(t, updated.Frozen)
		assert.Equal(t, "11#2", updated.BlockStamp)
		assert.Equal(t, int64(100000), updated.Balance)
	})

	t.Run("upsert creates missing holder with metadata", func(t *testing.T) {
		holder := &schema.Holder{Address: testHolder, TokenID: testTokenID, BlockStamp: "12#1"}
		require.NoError(t, holder.SetMetadata(map[string]string{"k": "v"}))
		require.NoError(t, store.UpsertHolder(ctx, holder))

		got := requireHolder(t, store, testHolder)
		metadata, err := got.MetadataMap()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"k": "v"}, metadata)
	})

	t.Run("unknown holder returns nil", func(t *testing.T) {
		got, err := store.GetHolder(ctx, testThird, testTokenID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

// =============================================================================
// Test: Exchange
// =============================================================================

func testExchange(t *testing.T, store Store) {
	ctx := context.Background()
	stamp := domain.BlockStamp{Height: 20, Index: 4}

	require.NoError(t, store.CreateHolder(ctx, &schema.Holder{
		Address: testOwner, TokenID: testTokenID, Balance: 100000, Owner: true, BlockStamp: "10#1",
	}))

	t.Run("creates receiver on first credit", func(t *testing.T) {
		require.NoError(t, store.Exchange(ctx, testTokenID, testOwner, testHolder, qty(t, "50"), stamp))

		sender := requireHolder(t, store, testOwner)
		receiver := requireHolder(t, store, testHolder)
		assert.Equal(t, int64(95000), sender.Balance)
		assert.Equal(t, int64(5000), receiver.Balance)
		assert.True(t, sender.Owner, "owner flag is untouched by exchange")
		assert.False(t, receiver.Owner)
		assert.Equal(t, stamp.String(), sender.BlockStamp)
		assert.Equal(t, stamp.String(), receiver.BlockStamp)
	})

	t.Run("credits existing receiver", func(t *testing.T) {
		require.NoError(t, store.Exchange(ctx, testTokenID, testOwner, testHolder, qty(t, "0.25"), domain.BlockStamp{Height: 21, Index: 1}))

		assert.Equal(t, int64(94975), requireHolder(t, store, testOwner).Balance)
		assert.Equal(t, int64(5025), requireHolder(t, store, testHolder).Balance)
	})

	t.Run("insufficient balance leaves both holders untouched", func(t *testing.T) {
		err := store.Exchange(ctx, testTokenID, testHolder, testOwner, qty(t, "100"), domain.BlockStamp{Height: 22, Index: 1})
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		assert.Equal(t, int64(94975), requireHolder(t, store, testOwner).Balance)
		assert.Equal(t, int64(5025), requireHolder(t, store, testHolder).Balance)
	})

	t.Run("unknown sender", func(t *testing.T) {
		err := store.Exchange(ctx, testTokenID, testThird, testOwner, qty(t, "1"), domain.BlockStamp{Height: 23, Index: 1})
		assert.ErrorIs(t, err, ErrHolderNotFound)

		got, err := store.GetHolder(ctx, testThird, testTokenID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("self transfer keeps balance and flags", func(t *testing.T) {
		require.NoError(t, store.Exchange(ctx, testTokenID, testOwner, testOwner, qty(t, "10"), domain.BlockStamp{Height: 24, Index: 1}))

		sender := requireHolder(t, store, testOwner)
		assert.Equal(t, int64(94975), sender.Balance)
		assert.True(t, sender.Owner)
	})
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testWithTx(t *testing.T, store Store) {
	ctx := context.Background()
	errAbort := errors.New("abort")

	t.Run("error rolls back every write", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			require.NoError(t, tx.AppendJournal(ctx, buildTestRecord(300, 1, domain.OpGenesis)))
			require.NoError(t, tx.CreateContract(ctx, buildTestContract(testTokenID)))
			require.NoError(t, tx.SetValue(ctx, "tx:key", "value"))
			return errAbort
		})
		assert.ErrorIs(t, err, errAbort)

		record, err := store.GetJournal(ctx, domain.BlockStamp{Height: 300, Index: 1})
		require.NoError(t, err)
		assert.Nil(t, record)

		contract, err := store.GetContract(ctx, testTokenID)
		require.NoError(t, err)
		assert.Nil(t, contract)

		value, err := store.GetValue(ctx, "tx:key")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("success commits", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			if err := tx.AppendJournal(ctx, buildTestRecord(301, 1, domain.OpGenesis)); err != nil {
				return err
			}
			_, err := tx.SetLegit(ctx, domain.BlockStamp{Height: 301, Index: 1}, true)
			return err
		})
		require.NoError(t, err)

		record, err := store.GetJournal(ctx, domain.BlockStamp{Height: 301, Index: 1})
		require.NoError(t, err)
		require.NotNil(t, record)
		require.NotNil(t, record.Legit)
		assert.True(t, *record.Legit)
	})

	t.Run("failed nested transaction keeps outer writes", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			if err := tx.SetValue(ctx, "outer", "kept"); err != nil {
				return err
			}
			inner := tx.WithTx(ctx, func(inner Store) error {
				require.NoError(t, inner.SetValue(ctx, "inner", "dropped"))
				return errAbort
			})
			assert.ErrorIs(t, inner, errAbort)
			return nil
		})
		require.NoError(t, err)

		outer, err := store.GetValue(ctx, "outer")
		require.NoError(t, err)
		assert.Equal(t, "kept", outer)

		inner, err := store.GetValue(ctx, "inner")
		require.NoError(t, err)
		assert.Empty(t, inner)
	})
}

// =============================================================================
// Test: Rejected
// =============================================================================

func testRejected(t *testing.T, store Store) {
	ctx := context.Background()

	first := buildTestRecord(400, 1, domain.OpMint)
	second := buildTestRecord(401, 2, domain.OpSend)

	require.NoError(t, store.InsertRejected(ctx, first, "emitter is not the owner"))
	require.NoError(t, store.InsertRejected(ctx, second, "contract is paused"))
	require.NoError(t, store.InsertRejected(ctx, second, "contract is paused"))

	rows, err := store.ListRejected(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint64(401), rows[0].Height)
	assert.Equal(t, "contract is paused", rows[0].Reason)
	assert.Equal(t, string(domain.OpSend), rows[0].Op)
	assert.NotEmpty(t, rows[0].Record)

	limited, err := store.ListRejected(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

// =============================================================================
// Test: Key Value Store
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("set and get key-value", func(t *testing.T) {
		require.NoError(t, store.SetValue(ctx, "test:key1", "value1"))

		value, err := store.GetValue(ctx, "test:key1")
		require.NoError(t, err)
		assert.Equal(t, "value1", value)
	})

	t.Run("get non-existent key returns empty string", func(t *testing.T) {
		value, err := store.GetValue(ctx, "nonexistent:key")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("update existing key", func(t *testing.T) {
		require.NoError(t, store.SetValue(ctx, "test:key2", "value1"))
		require.NoError(t, store.SetValue(ctx, "test:key2", "value2"))

		value, err := store.GetValue(ctx, "test:key2")
		require.NoError(t, err)
		assert.Equal(t, "value2", value)
	})
}

// RunStoreTests runs the shared store behaviour against one implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Journal", testJournal},
		{"Contracts", testContracts},
		{"Holders", testHolders},
		{"Exchange", testExchange},
		{"WithTx", testWithTx},
		{"Rejected", testRejected},
		{"KeyValueStore", testKeyValueStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
