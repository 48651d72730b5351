package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/ingest"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/peers"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
	"github.com/feral-file/slp-indexer/internal/store"
)

// Config holds the historical sync settings
type Config struct {
	// GenesisHeight is the lowest height worth scanning
	GenesisHeight uint64
	// BlocksPerPage is the page size of block listings
	BlocksPerPage int
	// Timeout replaces the HTTP request timeout while syncing
	Timeout time.Duration
	// RetryDelay is the pause after a failed page request
	RetryDelay time.Duration
	// MaxQueued pauses paging while the pipeline holds more blocks
	MaxQueued int
}

// Driver backfills historical blocks into the ingestion pipeline
//
//go:generate mockgen -source=driver.go -destination=../mocks/sync_driver.go -package=mocks -mock_names=Driver=MockSyncDriver
type Driver interface {
	// Run pages through the chain from the checkpoint until the last page or Stop
	Run(ctx context.Context) error
	// Stop signals the driver and waits for it to exit
	Stop(ctx context.Context) error
	// Running reports whether the driver is active
	Running() bool
}

type driver struct {
	config      Config
	checkpoints store.CheckpointStore
	store       store.Store
	client      chain.Client
	peers       peers.Pool
	httpClient  adapter.HTTPClient
	pipeline    ingest.Pipeline
	clock       adapter.Clock

	mu        sync.Mutex
	running   bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewDriver creates a historical sync driver
func NewDriver(
	cfg Config,
	checkpoints store.CheckpointStore,
	st store.Store,
	client chain.Client,
	peerPool peers.Pool,
	httpClient adapter.HTTPClient,
	pipeline ingest.Pipeline,
	clock adapter.Clock,
) Driver {
	if cfg.BlocksPerPage <= 0 {
		cfg.BlocksPerPage = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.MaxQueued <= 0 {
		cfg.MaxQueued = 1000
	}
	return &driver{
		config:      cfg,
		checkpoints: checkpoints,
		store:       st,
		client:      client,
		peers:       peerPool,
		httpClient:  httpClient,
		pipeline:    pipeline,
		clock:       clock,
	}
}

// Run pages through the chain from the checkpoint until the last page or Stop
func (d *driver) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("sync driver is already running")
	}
	d.running = true
	stop := make(chan struct{})
	stopped := make(chan struct{})
	d.stopChan, d.stoppedCh = stop, stopped
	d.mu.Unlock()

	timeout := d.httpClient.Timeout()
	d.httpClient.SetTimeout(d.config.Timeout)

	defer func() {
		d.httpClient.SetTimeout(timeout)

		d.mu.Lock()
		d.running = false
		d.stopChan = nil
		d.mu.Unlock()
		close(stopped)

		d.restartPipeline(ctx, stop)
	}()

	err := d.run(ctx, stop)
	if err != nil {
		logger.ErrorCtx(ctx, err)
	}
	return err
}

func (d *driver) run(ctx context.Context, stop <-chan struct{}) error {
	ctx = logger.With(ctx, zap.String("component", "syncer"))

	checkpoint, err := d.checkpoints.Load()
	if err != nil {
		logger.WarnCtx(ctx, "Checkpoint unreadable, starting from defaults", zap.Error(err))
		checkpoint = store.Checkpoint{}
	}

	journalHeight, err := d.store.MaxJournalHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to read journal height: %w", err)
	}

	start := max(d.config.GenesisHeight, checkpoint.LastParsedHeight, journalHeight)

	peer, err := d.peers.Pick(ctx, checkpoint.Peer)
	if err != nil {
		return fmt.Errorf("failed to pick a sync peer: %w", err)
	}

	// the start block itself is forwarded again, the journal drops what it already holds
	var last uint64
	if start > 0 {
		last = start - 1
	}
	page := max(1, int(start)/d.config.BlocksPerPage)

	logger.InfoCtx(ctx, "Historical sync started",
		zap.Uint64("start_height", start),
		zap.Int("page", page),
		zap.String("peer", peer),
	)

	for {
		if stopping(ctx, stop) {
			logger.InfoCtx(ctx, "Historical sync stopped", zap.Uint64("last_height", last))
			return nil
		}

		blocks, err := d.client.GetBlocks(ctx, peer, page, d.config.BlocksPerPage)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.WarnCtx(ctx, "Sync peer failed, rotating", zap.String("peer", peer), zap.Int("page", page), zap.Error(err))

			d.peers.Drop(ctx, peer)
			peer, err = d.peers.Pick(ctx, "")
			if err != nil {
				return fmt.Errorf("failed to rotate sync peer: %w", err)
			}
			if !d.wait(ctx, stop, d.config.RetryDelay) {
				return nil
			}
			continue
		}

		forwarded := 0
		for _, block := range blocks.Data {
			if block.Transactions == 0 || block.Height <= last {
				continue
			}
			if !d.throttle(ctx, stop) {
				return nil
			}

			d.pipeline.Enqueue(block)
			last = block.Height
			forwarded++

			d.saveCheckpoint(ctx, peer, last)
		}

		logger.DebugCtx(ctx, "Blocks page parsed",
			zap.Int("page", page),
			zap.Int("blocks", len(blocks.Data)),
			zap.Int("forwarded", forwarded),
		)

		if !blocks.HasNext() {
			logger.InfoCtx(ctx, "End of blocks reached", zap.Uint64("last_height", last))
			return nil
		}
		page++
	}
}

// saveCheckpoint persists the highest height below every block the pipeline still holds
func (d *driver) saveCheckpoint(ctx context.Context, peer string, forwarded uint64) {
	mark := forwarded
	if lowest, ok := d.pipeline.LowestPending(); ok && lowest > 0 && lowest <= mark {
		mark = lowest - 1
	}

	if err := d.checkpoints.Save(store.Checkpoint{Peer: peer, LastParsedHeight: mark}); err != nil {
		logger.ErrorCtx(ctx, err, zap.Uint64("height", mark))
	}
}

// throttle waits while the pipeline queue is full, false when stopped meanwhile
func (d *driver) throttle(ctx context.Context, stop <-chan struct{}) bool {
	for d.pipeline.Pending() >= d.config.MaxQueued {
		if !d.wait(ctx, stop, time.Second) {
			return false
		}
	}
	return true
}

func (d *driver) wait(ctx context.Context, stop <-chan struct{}, delay time.Duration) bool {
	select {
	case <-stop:
		return false
	case <-ctx.Done():
		return false
	case <-d.clock.After(delay):
		return true
	}
}

func stopping(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// restartPipeline brings the ingestion worker back after a sync that was not stopped
func (d *driver) restartPipeline(ctx context.Context, stop <-chan struct{}) {
	if stopping(ctx, stop) || d.pipeline.Running() {
		return
	}

	logger.InfoCtx(ctx, "Restarting ingestion pipeline")
	go func() {
		if err := d.pipeline.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}
	}()
}

// Stop signals the driver and waits for it to exit
func (d *driver) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running || d.stopChan == nil {
		d.mu.Unlock()
		return nil
	}
	stop, stopped := d.stopChan, d.stoppedCh
	d.stopChan = nil
	d.mu.Unlock()

	close(stop)

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the driver is active
func (d *driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
