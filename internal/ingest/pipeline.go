package ingest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/contract"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/messaging"
	"github.com/feral-file/slp-indexer/internal/peers"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
	"github.com/feral-file/slp-indexer/internal/smartbridge"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/validator"
)

// Config holds the ingestion settings
type Config struct {
	// MemoPattern, when set, must match a binary smartbridge memo before it is decoded
	MemoPattern *regexp.Regexp
	// RetryDelay is the pause after a block failed its integrity check
	RetryDelay time.Duration
	// ResumeBatch is the page size used when re-dispatching pending journal records
	ResumeBatch int
}

// Pipeline applies the smartbridge operations of queued blocks in arrival order
//
//go:generate mockgen -source=pipeline.go -destination=../mocks/pipeline.go -package=mocks -mock_names=Pipeline=MockPipeline
type Pipeline interface {
	// Start runs the worker until Stop is called or ctx is done
	Start(ctx context.Context) error
	// Stop signals the worker and waits for the block in progress to finish
	Stop(ctx context.Context) error
	// Running reports whether the worker loop is active
	Running() bool
	// Enqueue appends a block to the queue
	Enqueue(block domain.BlockHeader)
	// Requeue puts a block back at the front of the queue
	Requeue(block domain.BlockHeader)
	// Pending returns the number of queued blocks
	Pending() int
	// LowestPending returns the lowest height not yet ingested among queued blocks and the block in progress
	LowestPending() (uint64, bool)
	// ProcessBlock fetches a block's transactions and applies its smartbridges
	ProcessBlock(ctx context.Context, block domain.BlockHeader) error
	// Resume dispatches journal records left pending by a previous run
	Resume(ctx context.Context) (int, error)
}

type pipeline struct {
	config      Config
	client      chain.Client
	peers       peers.Pool
	store       store.Store
	unvalidated store.UnvalidatedStore
	engine      contract.Engine
	publisher   messaging.Publisher
	clock       adapter.Clock

	queue *blockQueue
	// fetchMu serializes block fetching and the integrity check
	fetchMu sync.Mutex
	peer    string

	mu      sync.Mutex
	running bool
	run     *runState
}

// runState holds the signalling channels of one worker run
type runState struct {
	stopChan  chan struct{}
	stoppedCh chan struct{}
	stopOnce  sync.Once
}

func newRunState() *runState {
	return &runState{stopChan: make(chan struct{}), stoppedCh: make(chan struct{})}
}

// NewPipeline creates an ingestion pipeline
func NewPipeline(
	cfg Config,
	client chain.Client,
	peerPool peers.Pool,
	st store.Store,
	unvalidated store.UnvalidatedStore,
	engine contract.Engine,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Pipeline {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 10 * time.Second
	}
	if cfg.ResumeBatch <= 0 {
		cfg.ResumeBatch = 500
	}
	return &pipeline{
		config:      cfg,
		client:      client,
		peers:       peerPool,
		store:       st,
		unvalidated: unvalidated,
		engine:      engine,
		publisher:   publisher,
		clock:       clock,
		queue:       newBlockQueue(),
		run:         newRunState(),
	}
}

// Start runs the worker until Stop is called or ctx is done
func (p *pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("ingestion pipeline is already running")
	}
	p.running = true
	run := p.run
	p.mu.Unlock()

	stop := run.stopChan
	defer func() {
		p.mu.Lock()
		p.running = false
		p.run = newRunState()
		p.mu.Unlock()
		close(run.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Ingestion pipeline started", zap.Int("queued", p.queue.Len()))

	if n, err := p.Resume(ctx); err != nil {
		logger.ErrorCtx(ctx, err)
	} else if n > 0 {
		logger.InfoCtx(ctx, "Resumed pending journal records", zap.Int("count", n))
	}

	for {
		block, ok := p.queue.Pop(ctx, stop)
		if !ok {
			logger.InfoCtx(ctx, "Ingestion pipeline stopped", zap.Int("queued", p.queue.Len()))
			return nil
		}

		err := p.ProcessBlock(ctx, block)
		p.queue.Done()
		if err != nil {
			logger.WarnCtx(ctx, "Block postponed",
				zap.Uint64("height", block.Height),
				zap.String("block_id", block.ID),
				zap.Error(err),
			)

			select {
			case <-stop:
				return nil
			case <-ctx.Done():
				return nil
			case <-p.clock.After(p.config.RetryDelay):
			}
		}
	}
}

// Stop signals the worker and waits for the block in progress to finish
func (p *pipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	run := p.run
	p.mu.Unlock()

	run.stopOnce.Do(func() { close(run.stopChan) })

	select {
	case <-run.stoppedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the worker loop is active
func (p *pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Enqueue appends a block to the queue
func (p *pipeline) Enqueue(block domain.BlockHeader) {
	p.queue.PushBack(block)
}

// Requeue puts a block back at the front of the queue
func (p *pipeline) Requeue(block domain.BlockHeader) {
	p.queue.PushFront(block)
}

// Pending returns the number of queued blocks
func (p *pipeline) Pending() int {
	return p.queue.Len()
}

// LowestPending returns the lowest height not yet ingested among queued blocks and the block in progress
func (p *pipeline) LowestPending() (uint64, bool) {
	return p.queue.Lowest()
}

// ProcessBlock fetches a block's transactions and applies its smartbridges
// A block failing the integrity check is requeued at the front and its peer dropped
func (p *pipeline) ProcessBlock(ctx context.Context, block domain.BlockHeader) error {
	ctx = logger.With(ctx, zap.Uint64("height", block.Height), zap.String("block", block.ID))

	txs, err := p.fetch(ctx, block)
	if err != nil {
		return err
	}

	for i, tx := range txs {
		if tx.Type != domain.TRANSFER_TX_TYPE || tx.VendorField == "" {
			continue
		}

		stamp := domain.BlockStamp{Height: block.Height, Index: uint32(i + 1)}
		if err := p.processTransaction(ctx, stamp, tx); err != nil {
			p.logSkipped(ctx, stamp, tx, err)
		}
	}

	return nil
}

// fetch lists the block transactions and checks them against the declared count
func (p *pipeline) fetch(ctx context.Context, block domain.BlockHeader) ([]domain.Transaction, error) {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	peer, err := p.peers.Pick(ctx, p.peer)
	if err != nil {
		p.queue.PushFront(block)
		return nil, fmt.Errorf("failed to pick a peer for block %d: %w", block.Height, err)
	}
	p.peer = peer

	txs, err := p.client.GetBlockTransactions(ctx, peer, block.ID)
	if err == nil && len(txs) == block.Transactions {
		return txs, nil
	}
	if err == nil {
		err = fmt.Errorf("%w: block %d declares %d transactions, %s returned %d",
			domain.ErrIntegrity, block.Height, block.Transactions, peer, len(txs))
	}

	p.queue.PushFront(block)
	p.peers.Drop(ctx, peer)
	p.peer = ""

	return nil, err
}

// processTransaction turns one memo into a journaled record and dispatches it
func (p *pipeline) processTransaction(ctx context.Context, stamp domain.BlockStamp, tx domain.Transaction) error {
	memo := strings.TrimSpace(tx.VendorField)
	if p.config.MemoPattern != nil && !strings.HasPrefix(memo, "{") && !p.config.MemoPattern.MatchString(memo) {
		return smartbridge.ErrNotSmartbridge
	}

	payload, err := smartbridge.Parse(memo)
	if err != nil {
		return err
	}

	if err := validator.Validate(payload.Fields); err != nil {
		if putErr := p.unvalidated.Put(payload.SlpType, stamp, payload.Fields); putErr != nil {
			logger.ErrorCtx(ctx, putErr, zap.String("blockstamp", stamp.String()))
		}
		return err
	}

	op, err := payload.Operation()
	if err != nil {
		return err
	}

	record := &domain.Record{
		Operation: *op,
		Height:    stamp.Height,
		Index:     stamp.Index,
		TxID:      tx.ID,
		Emitter:   tx.Sender,
		Receiver:  tx.Recipient,
		Cost:      tx.Amount,
	}
	if record.Op == domain.OpGenesis {
		record.TokenID = domain.NewTokenID(record.SlpType, record.Symbol, record.Height, record.TxID)
	}

	if err := p.store.AppendJournal(ctx, record); err != nil {
		return err
	}

	return p.dispatch(ctx, record)
}

// dispatch runs the contract engine and notifies applied operations
func (p *pipeline) dispatch(ctx context.Context, record *domain.Record) error {
	result, err := p.engine.Manage(ctx, record)
	if err != nil {
		return err
	}
	if result != contract.ResultApplied {
		return nil
	}

	if err := p.publisher.PublishEvent(ctx, domain.NewLedgerEvent(record, p.clock.Now())); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish ledger event: %w", err),
			zap.String("blockstamp", record.Stamp().String()))
	}

	return nil
}

// Resume dispatches journal records left pending by a previous run
func (p *pipeline) Resume(ctx context.Context) (int, error) {
	var (
		count int
		after domain.BlockStamp
	)

	for {
		records, err := p.store.ListJournal(ctx, store.JournalFilter{
			After:   after,
			Pending: true,
			Limit:   p.config.ResumeBatch,
		})
		if err != nil {
			return count, fmt.Errorf("failed to list pending journal records: %w", err)
		}

		for _, record := range records {
			if err := p.dispatch(ctx, record); err != nil {
				return count, fmt.Errorf("failed to resume record %s: %w", record.Stamp(), err)
			}
			after = record.Stamp()
			count++
		}

		if len(records) < p.config.ResumeBatch {
			return count, nil
		}
	}
}

func (p *pipeline) logSkipped(ctx context.Context, stamp domain.BlockStamp, tx domain.Transaction, err error) {
	fields := []zap.Field{
		zap.String("blockstamp", stamp.String()),
		zap.String("txid", tx.ID),
		zap.Error(err),
	}

	switch {
	case errors.Is(err, domain.ErrDecode), errors.Is(err, domain.ErrDuplicate):
		logger.DebugCtx(ctx, "Transaction skipped", fields...)
	case errors.Is(err, domain.ErrValidation):
		logger.WarnCtx(ctx, "Smartbridge failed validation", fields...)
	default:
		logger.ErrorCtx(ctx, err, fields[:2]...)
	}
}
