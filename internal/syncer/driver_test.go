package syncer_test

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/mocks"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/syncer"
)

const (
	peerA = "http://10.0.0.1:4003"
	peerB = "http://10.0.0.2:4003"
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

// testMocks contains all the mocks needed for testing
type testMocks struct {
	ctrl        *gomock.Controller
	checkpoints *mocks.MockCheckpointStore
	client      *mocks.MockChainClient
	pool        *mocks.MockPeerPool
	httpClient  *mocks.MockHTTPClient
	pipeline    *mocks.MockPipeline
	clock       *mocks.MockClock
	store       store.Store
	driver      syncer.Driver
}

func setupTestDriver(t *testing.T, cfg syncer.Config) *testMocks {
	ctrl := gomock.NewController(t)
	tm := &testMocks{
		ctrl:        ctrl,
		checkpoints: mocks.NewMockCheckpointStore(ctrl),
		client:      mocks.NewMockChainClient(ctrl),
		pool:        mocks.NewMockPeerPool(ctrl),
		httpClient:  mocks.NewMockHTTPClient(ctrl),
		pipeline:    mocks.NewMockPipeline(ctrl),
		clock:       mocks.NewMockClock(ctrl),
		store:       store.NewMemoryStore(),
	}

	// the sync timeout is swapped in and restored
	gomock.InOrder(
		tm.httpClient.EXPECT().Timeout().Return(10*time.Second),
		tm.httpClient.EXPECT().SetTimeout(30*time.Second),
		tm.httpClient.EXPECT().SetTimeout(10*time.Second),
	)

	tm.driver = syncer.NewDriver(cfg, tm.checkpoints, tm.store, tm.client, tm.pool, tm.httpClient, tm.pipeline, tm.clock)
	return tm
}

func next(s string) *string {
	return &s
}

func firedAfter() <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestDriver_RunFromCheckpoint(t *testing.T) {
	tm := setupTestDriver(t, syncer.Config{GenesisHeight: 10})
	ctx := context.Background()

	tm.checkpoints.EXPECT().Load().Return(store.Checkpoint{Peer: peerA, LastParsedHeight: 250}, nil)
	tm.pool.EXPECT().Pick(gomock.Any(), peerA).Return(peerA, nil)
	tm.pipeline.EXPECT().Pending().Return(0).AnyTimes()
	// every forwarded block is ingested right away
	tm.pipeline.EXPECT().LowestPending().Return(uint64(0), false).AnyTimes()

	gomock.InOrder(
		tm.client.EXPECT().GetBlocks(gomock.Any(), peerA, 2, 100).Return(&chain.BlocksPage{
			Data: []domain.BlockHeader{
				{ID: "b240", Height: 240, Transactions: 1},
				{ID: "b249", Height: 249, Transactions: 2},
				{ID: "b250", Height: 250, Transactions: 1},
				{ID: "b251", Height: 251, Transactions: 0},
				{ID: "b260", Height: 260, Transactions: 3},
			},
			Meta: chain.PageMeta{Next: next("/blocks?page=3")},
		}, nil),
		tm.client.EXPECT().GetBlocks(gomock.Any(), peerA, 3, 100).Return(&chain.BlocksPage{
			Data: []domain.BlockHeader{{ID: "b301", Height: 301, Transactions: 1}},
		}, nil),
	)

	var enqueued []uint64
	tm.pipeline.EXPECT().
		Enqueue(gomock.Any()).
		Do(func(block domain.BlockHeader) { enqueued = append(enqueued, block.Height) }).
		Times(3)

	var saved []uint64
	tm.checkpoints.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(cp store.Checkpoint) error {
			assert.Equal(t, peerA, cp.Peer)
			saved = append(saved, cp.LastParsedHeight)
			return nil
		}).
		Times(3)

	tm.pipeline.EXPECT().Running().Return(true)

	require.NoError(t, tm.driver.Run(ctx))
	assert.Equal(t, []uint64{250, 260, 301}, enqueued)
	assert.Equal(t, []uint64{250, 260, 301}, saved)
	assert.False(t, tm.driver.Running())
}

// stalledPipeline records forwarded blocks on a mock pipeline that never ingests them
func stalledPipeline(tm *testMocks) *[]uint64 {
	var queued []uint64
	tm.pipeline.EXPECT().Pending().DoAndReturn(func() int { return len(queued) }).AnyTimes()
	tm.pipeline.EXPECT().
		Enqueue(gomock.Any()).
		Do(func(block domain.BlockHeader) { queued = append(queued, block.Height) }).
		AnyTimes()
	tm.pipeline.EXPECT().
		LowestPending().
		DoAndReturn(func() (uint64, bool) {
			if len(queued) == 0 {
				return 0, false
			}
			return slices.Min(queued), true
		}).
		AnyTimes()
	tm.pipeline.EXPECT().Running().Return(true)
	return &queued
}

func TestDriver_CheckpointWaitsForIngestion(t *testing.T) {
	ctx := context.Background()
	page := &chain.BlocksPage{
		Data: []domain.BlockHeader{
			{ID: "b10", Height: 10, Transactions: 1},
			{ID: "b20", Height: 20, Transactions: 2},
			{ID: "b30", Height: 30, Transactions: 1},
		},
	}

	// first run: blocks are forwarded but the process dies before ingesting them
	first := setupTestDriver(t, syncer.Config{})
	stalledPipeline(first)
	first.checkpoints.EXPECT().Load().Return(store.Checkpoint{}, nil)
	first.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	first.client.EXPECT().GetBlocks(gomock.Any(), peerA, 1, 100).Return(page, nil)

	var saved store.Checkpoint
	first.checkpoints.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(cp store.Checkpoint) error {
			saved = cp
			return nil
		}).
		Times(3)

	require.NoError(t, first.driver.Run(ctx))
	assert.Equal(t, uint64(9), saved.LastParsedHeight)

	// restart from the persisted checkpoint with an empty journal
	second := setupTestDriver(t, syncer.Config{})
	queued := stalledPipeline(second)
	second.checkpoints.EXPECT().Load().Return(saved, nil)
	second.pool.EXPECT().Pick(gomock.Any(), peerA).Return(peerA, nil)
	second.client.EXPECT().GetBlocks(gomock.Any(), peerA, 1, 100).Return(page, nil)
	second.checkpoints.EXPECT().Save(gomock.Any()).Return(nil).Times(3)

	require.NoError(t, second.driver.Run(ctx))
	assert.Equal(t, []uint64{10, 20, 30}, *queued)
}

func TestDriver_StartsFromJournalHeight(t *testing.T) {
	tm := setupTestDriver(t, syncer.Config{GenesisHeight: 10})
	ctx := context.Background()

	require.NoError(t, tm.store.AppendJournal(ctx, &domain.Record{
		Operation: domain.Operation{SlpType: domain.SlpTypeFungible, Op: domain.OpSend},
		Height:    512,
		Index:     1,
		TxID:      "t",
	}))

	tm.checkpoints.EXPECT().Load().Return(store.Checkpoint{LastParsedHeight: 300}, nil)
	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlocks(gomock.Any(), peerA, 5, 100).Return(&chain.BlocksPage{}, nil)
	tm.pipeline.EXPECT().Running().Return(true)

	require.NoError(t, tm.driver.Run(ctx))
}

func TestDriver_RotatesPeerOnError(t *testing.T) {
	tm := setupTestDriver(t, syncer.Config{})
	ctx := context.Background()

	tm.checkpoints.EXPECT().Load().Return(store.Checkpoint{}, errors.New("corrupt"))
	tm.clock.EXPECT().After(gomock.Any()).Return(firedAfter())

	gomock.InOrder(
		tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil),
		tm.client.EXPECT().GetBlocks(gomock.Any(), peerA, 1, 100).Return(nil, errors.New("503")),
		tm.pool.EXPECT().Drop(gomock.Any(), peerA),
		tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerB, nil),
		tm.client.EXPECT().GetBlocks(gomock.Any(), peerB, 1, 100).Return(&chain.BlocksPage{}, nil),
	)

	// the ingestion worker is brought back once sync ends
	started := make(chan struct{})
	tm.pipeline.EXPECT().Running().Return(false)
	tm.pipeline.EXPECT().
		Start(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			close(started)
			return nil
		})

	require.NoError(t, tm.driver.Run(ctx))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline was not restarted")
	}
}

func TestDriver_FailsWithoutPeer(t *testing.T) {
	tm := setupTestDriver(t, syncer.Config{})
	ctx := context.Background()

	tm.checkpoints.EXPECT().Load().Return(store.Checkpoint{}, nil)
	tm.pool.EXPECT().Pick(gomock.Any(), "").Return("", domain.ErrNoPeer)
	tm.pipeline.EXPECT().Running().Return(true)

	err := tm.driver.Run(ctx)
	assert.ErrorIs(t, err, domain.ErrNoPeer)
}

func TestDriver_StopWhileThrottled(t *testing.T) {
	tm := setupTestDriver(t, syncer.Config{MaxQueued: 1})
	ctx := context.Background()

	tm.checkpoints.EXPECT().Load().Return(store.Checkpoint{}, nil)
	tm.pool.EXPECT().Pick(gomock.Any(), "").Return(peerA, nil)
	tm.client.EXPECT().GetBlocks(gomock.Any(), peerA, 1, 100).Return(&chain.BlocksPage{
		Data: []domain.BlockHeader{{ID: "b5", Height: 5, Transactions: 1}},
		Meta: chain.PageMeta{Next: next("/blocks?page=2")},
	}, nil)

	// the queue stays full
	throttled := make(chan struct{})
	tm.pipeline.EXPECT().Pending().Return(1).AnyTimes()
	tm.clock.EXPECT().
		After(time.Second).
		DoAndReturn(func(d time.Duration) <-chan time.Time {
			select {
			case <-throttled:
			default:
				close(throttled)
			}
			return make(chan time.Time)
		}).
		AnyTimes()

	done := make(chan error, 1)
	go func() {
		done <- tm.driver.Run(ctx)
	}()

	select {
	case <-throttled:
	case <-time.After(5 * time.Second):
		t.Fatal("driver never throttled")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, tm.driver.Stop(stopCtx))
	require.NoError(t, <-done)

	// stopping an idle driver is a no-op
	require.NoError(t, tm.driver.Stop(stopCtx))
}
