package ingest_test

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/contract"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/ingest"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/mocks"
	"github.com/feral-file/slp-indexer/internal/smartbridge"
	"github.com/feral-file/slp-indexer/internal/store"
)

const (
	peerA   = "http://10.0.0.1:4003"
	master  = "AMasterXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	alice   = "AAliceXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	bob     = "ABobXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	minCost = 100000000
)

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

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

// testMocks contains all the mocks needed for testing
type testMocks struct {
	ctrl        *gomock.Controller
	client      *mocks.MockChainClient
	pool        *mocks.MockPeerPool
	unvalidated *mocks.MockUnvalidatedStore
	publisher   *mocks.MockPublisher
	clock       *mocks.MockClock
	store       store.Store
	pipeline    ingest.Pipeline
}

func setupTestPipeline(t *testing.T, cfg ingest.Config) *testMocks {
	ctrl := gomock.NewController(t)

	tm := &testMocks{
		ctrl:        ctrl,
		client:      mocks.NewMockChainClient(ctrl),
		pool:        mocks.NewMockPeerPool(ctrl),
		unvalidated: mocks.NewMockUnvalidatedStore(ctrl),
		publisher:   mocks.NewMockPublisher(ctrl),
		clock:       mocks.NewMockClock(ctrl),
		store:       store.NewMemoryStore(),
	}
	tm.clock.EXPECT().Now().Return(now).AnyTimes()

	engines := contract.NewEngines(tm.store, contract.Config{
		MasterAddress: master,
		GenesisCost: map[domain.SlpType]uint64{
			domain.SlpTypeFungible: minCost,
			domain.SlpTypeNFT:      minCost,
		},
	})

	tm.pipeline = ingest.NewPipeline(cfg, tm.client, tm.pool, tm.store, tm.unvalidated, engines, tm.publisher, tm.clock)
	return tm
}

const genesisMemo = `{"aslp1":{"tp":"GENESIS","de":2,"qt":"1000","sy":"FOO","na":"Foo token","pa":true,"mi":false}}`

func genesisTx(id string) domain.Transaction {
	return domain.Transaction{ID: id, Type: domain.TRANSFER_TX_TYPE, Sender: alice, Recipient: master, Amount: minCost, VendorField: genesisMemo}
}

func sendTx(t *testing.T, id, tokenID, qt string) domain.Transaction {
	t.Helper()
	q := decimal.RequireFromString(qt)
	memo, err := smartbridge.Encode(&domain.Operation{
		SlpType:  domain.SlpTypeFungible,
		Op:       domain.OpSend,
		TokenID:  tokenID,
		Quantity: &q,
	})
	require.NoError(t, err)
	return domain.Transaction{ID: id, Type: domain.TRANSFER_TX_TYPE, Sender: alice, Recipient: bob, Amount: 1, VendorField: memo}
}

func plainTx(id string) domain.Transaction {
	return domain.Transaction{ID: id, Type: domain.TRANSFER_TX_TYPE, Sender: bob, Recipient: alice, Amount: 7}
}

func txid(n int) string {
	return fmt.Sprintf("%064x", n)
}

func TestPipeline_ProcessBlock_GenesisThenSend(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})
	ctx := context.Background()

	genesis := genesisTx(txid(1))
	tokenID := domain.NewTokenID(domain.SlpTypeFungible, "FOO", 101, genesis.ID)
	txs := []domain.Transaction{
		plainTx(txid(2)),
		genesis,
		sendTx(t, txid(3), tokenID, "50"),
		{ID: txid(4), Type: 8, Sender: alice, VendorField: genesisMemo},
	}
	block := domain.BlockHeader{ID: "b101", Height: 101, Transactions: len(txs)}

	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b101").Return(txs, nil)

	var events []*domain.LedgerEvent
	tm.publisher.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e *domain.LedgerEvent) error {
			events = append(events, e)
			return nil
		}).
		Times(2)

	require.NoError(t, tm.pipeline.ProcessBlock(ctx, block))

	require.Len(t, events, 2)
	assert.Equal(t, domain.OpGenesis, events[0].Op)
	assert.Equal(t, "101#2", events[0].Stamp)
	assert.Equal(t, tokenID, events[0].TokenID)
	assert.Equal(t, domain.OpSend, events[1].Op)
	assert.Equal(t, "101#3", events[1].Stamp)
	assert.Equal(t, now, events[1].Timestamp)

	holder, err := tm.store.GetHolder(ctx, bob, tokenID)
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, int64(5000), holder.Balance)

	holder, err = tm.store.GetHolder(ctx, alice, tokenID)
	require.NoError(t, err)
	assert.Equal(t, int64(95000), holder.Balance)

	record, err := tm.store.GetJournal(ctx, domain.BlockStamp{Height: 101, Index: 4})
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestPipeline_ProcessBlock_IntegrityMismatch(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})
	ctx := context.Background()

	txs := []domain.Transaction{plainTx(txid(1)), plainTx(txid(2)), plainTx(txid(3)), plainTx(txid(4))}
	block := domain.BlockHeader{ID: "b7", Height: 7, Transactions: 5}
	later := domain.BlockHeader{ID: "b8", Height: 8, Transactions: 0}
	tm.pipeline.Enqueue(later)

	gomock.InOrder(
		tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil),
		tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b7").Return(txs, nil),
		tm.pool.EXPECT().Drop(gomock.Any(), peerA),
	)

	err := tm.pipeline.ProcessBlock(ctx, block)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
	assert.Equal(t, 2, tm.pipeline.Pending())

	height, err := tm.store.MaxJournalHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), height)
}

func TestPipeline_LowestPending(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})

	_, ok := tm.pipeline.LowestPending()
	assert.False(t, ok)

	tm.pipeline.Enqueue(domain.BlockHeader{ID: "b30", Height: 30, Transactions: 1})
	tm.pipeline.Enqueue(domain.BlockHeader{ID: "b20", Height: 20, Transactions: 1})
	tm.pipeline.Requeue(domain.BlockHeader{ID: "b25", Height: 25, Transactions: 1})

	lowest, ok := tm.pipeline.LowestPending()
	require.True(t, ok)
	assert.Equal(t, uint64(20), lowest)
	assert.Equal(t, 3, tm.pipeline.Pending())
}

func TestPipeline_ProcessBlock_FetchErrorRequeues(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})

	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b9").Return(nil, fmt.Errorf("connection reset"))
	tm.pool.EXPECT().Drop(gomock.Any(), peerA)

	err := tm.pipeline.ProcessBlock(context.Background(), domain.BlockHeader{ID: "b9", Height: 9, Transactions: 1})
	require.Error(t, err)
	assert.Equal(t, 1, tm.pipeline.Pending())
}

func TestPipeline_ProcessBlock_NoPeer(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})

	tm.pool.EXPECT().Pick(gomock.Any(), "").Return("", domain.ErrNoPeer)

	err := tm.pipeline.ProcessBlock(context.Background(), domain.BlockHeader{ID: "b9", Height: 9, Transactions: 1})
	assert.ErrorIs(t, err, domain.ErrNoPeer)
	assert.Equal(t, 1, tm.pipeline.Pending())
}

func TestPipeline_ProcessBlock_DuplicateDelivery(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})
	ctx := context.Background()

	txs := []domain.Transaction{genesisTx(txid(1))}
	block := domain.BlockHeader{ID: "b50", Height: 50, Transactions: 1}

	tm.pool.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(peerA, nil).Times(2)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b50").Return(txs, nil).Times(2)
	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	require.NoError(t, tm.pipeline.ProcessBlock(ctx, block))
	require.NoError(t, tm.pipeline.ProcessBlock(ctx, block))

	records, err := tm.store.ListJournal(ctx, store.JournalFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Legit)
	assert.True(t, *records[0].Legit)
}

func TestPipeline_ProcessBlock_UnvalidatedDiversion(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})
	ctx := context.Background()

	bad := genesisTx(txid(1))
	bad.VendorField = `{"aslp1":{"tp":"GENESIS","de":2,"qt":"1000","sy":"F!","na":"Foo token"}}`
	block := domain.BlockHeader{ID: "b60", Height: 60, Transactions: 1}

	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b60").Return([]domain.Transaction{bad}, nil)
	tm.unvalidated.EXPECT().
		Put(domain.SlpTypeFungible, domain.BlockStamp{Height: 60, Index: 1}, gomock.Any()).
		DoAndReturn(func(slpType domain.SlpType, stamp domain.BlockStamp, fields map[string]any) error {
			assert.Equal(t, "F!", fields["sy"])
			return nil
		})

	require.NoError(t, tm.pipeline.ProcessBlock(ctx, block))

	height, err := tm.store.MaxJournalHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), height)
}

func TestPipeline_ProcessBlock_MemoPatternFilters(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{MemoPattern: regexp.MustCompile(`^aslp[12]://[0-9a-f]{4}`)})
	ctx := context.Background()

	tx := sendTx(t, txid(1), "8a1c3f0e5b7d9a2c4e6f8a0b1c2d3e4f", "5")
	tx.VendorField = "x" + tx.VendorField
	block := domain.BlockHeader{ID: "b70", Height: 70, Transactions: 1}

	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b70").Return([]domain.Transaction{tx}, nil)

	require.NoError(t, tm.pipeline.ProcessBlock(ctx, block))

	height, err := tm.store.MaxJournalHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), height)
}

func TestPipeline_RejectedOperationIsNotPublished(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})
	ctx := context.Background()

	// SEND of an unknown token
	tx := sendTx(t, txid(1), "8a1c3f0e5b7d9a2c4e6f8a0b1c2d3e4f", "5")
	block := domain.BlockHeader{ID: "b80", Height: 80, Transactions: 1}

	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b80").Return([]domain.Transaction{tx}, nil)

	require.NoError(t, tm.pipeline.ProcessBlock(ctx, block))

	record, err := tm.store.GetJournal(ctx, domain.BlockStamp{Height: 80, Index: 1})
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Legit)
	assert.False(t, *record.Legit)

	rejected, err := tm.store.ListRejected(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)
}

func TestPipeline_Resume(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{ResumeBatch: 1})
	ctx := context.Background()

	genesis := &domain.Record{
		Operation: domain.Operation{
			SlpType:  domain.SlpTypeFungible,
			Op:       domain.OpGenesis,
			Symbol:   "FOO",
			Name:     "Foo token",
			Decimals: func() *uint8 { v := uint8(0); return &v }(),
			Quantity: func() *decimal.Decimal { d := decimal.NewFromInt(10); return &d }(),
		},
		Height:   20,
		Index:    1,
		TxID:     txid(1),
		Emitter:  alice,
		Receiver: master,
		Cost:     minCost,
	}
	genesis.TokenID = domain.NewTokenID(domain.SlpTypeFungible, "FOO", 20, genesis.TxID)
	require.NoError(t, tm.store.AppendJournal(ctx, genesis))

	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	n, err := tm.pipeline.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c, err := tm.store.GetContract(ctx, genesis.TokenID)
	require.NoError(t, err)
	require.NotNil(t, c)

	n, err = tm.pipeline.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPipeline_StartStop(t *testing.T) {
	tm := setupTestPipeline(t, ingest.Config{})
	ctx := context.Background()

	published := make(chan *domain.LedgerEvent, 1)
	tm.pool.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(peerA, nil)
	tm.client.EXPECT().GetBlockTransactions(gomock.Any(), peerA, "b90").Return([]domain.Transaction{genesisTx(txid(1))}, nil)
	tm.publisher.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e *domain.LedgerEvent) error {
			published <- e
			return nil
		})

	done := make(chan error, 1)
	go func() {
		done <- tm.pipeline.Start(ctx)
	}()

	tm.pipeline.Enqueue(domain.BlockHeader{ID: "b90", Height: 90, Transactions: 1})

	select {
	case e := <-published:
		assert.Equal(t, "90#1", e.Stamp)
	case <-time.After(5 * time.Second):
		t.Fatal("block was not processed")
	}

	require.Eventually(t, tm.pipeline.Running, time.Second, 10*time.Millisecond)
	assert.Error(t, tm.pipeline.Start(ctx))

	// the finished block no longer holds the sync checkpoint back
	require.Eventually(t, func() bool {
		_, ok := tm.pipeline.LowestPending()
		return !ok
	}, time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, tm.pipeline.Stop(stopCtx))
	require.NoError(t, <-done)
	assert.False(t, tm.pipeline.Running())

	// stopping an idle pipeline is a no-op
	require.NoError(t, tm.pipeline.Stop(stopCtx))
}
