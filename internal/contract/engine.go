package contract

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/store"
)

// Result is the outcome of managing one journal record
type Result string

const (
	// ResultApplied means the operation changed the ledger and legit is now true
	ResultApplied Result = "applied"
	// ResultRejected means a rule refused the operation and legit is now false
	ResultRejected Result = "rejected"
	// ResultAlreadyApplied means legit was already set, nothing was touched
	ResultAlreadyApplied Result = "already_applied"
)

// errAlreadyResolved aborts a transaction whose record was resolved concurrently
var errAlreadyResolved = errors.New("journal record already resolved")

// Config holds the protocol parameters shared by every engine
type Config struct {
	// MasterAddress is the address that receives GENESIS and control operations
	MasterAddress string
	// GenesisCost is the minimum transaction amount of a GENESIS per family
	GenesisCost map[domain.SlpType]uint64
}

// Engine applies journaled operations to contract and holder state
//
//go:generate mockgen -source=engine.go -destination=../mocks/engine.go -package=mocks -mock_names=Engine=MockEngine
type Engine interface {
	// Manage applies a pending record and resolves its legit flag
	Manage(ctx context.Context, record *domain.Record) (Result, error)
}

// handler checks the rules of one operation and applies its state change through tx
type handler func(ctx context.Context, tx store.Store, r *domain.Record) error

// engine dispatches the records of one token family to its handler table
type engine struct {
	slpType  domain.SlpType
	store    store.Store
	config   Config
	handlers map[domain.OpType]handler
}

// Manage applies the record and moves its legit flag from null to true, or
// to false with an audit copy when a rule refuses it
func (e *engine) Manage(ctx context.Context, record *domain.Record) (Result, error) {
	if record.Legit != nil {
		return ResultAlreadyApplied, nil
	}

	h, ok := e.handlers[record.Op]
	if !ok {
		return e.reject(ctx, record, violation(record.Op, "operation not supported by %s", e.slpType))
	}

	err := e.store.WithTx(ctx, func(tx store.Store) error {
		if err := h(ctx, tx, record); err != nil {
			return err
		}
		ok, err := tx.SetLegit(ctx, record.Stamp(), true)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyResolved
		}
		return nil
	})
	switch {
	case err == nil:
		legit := true
		record.Legit = &legit
		logger.DebugCtx(ctx, "Operation applied", recordFields(record)...)
		return ResultApplied, nil
	case errors.Is(err, errAlreadyResolved):
		return ResultAlreadyApplied, nil
	}

	return e.reject(ctx, record, err)
}

// reject marks the record as not legit and keeps an audit copy
func (e *engine) reject(ctx context.Context, record *domain.Record, cause error) (Result, error) {
	reason := cause.Error()
	if errors.Is(cause, domain.ErrStore) {
		logger.ErrorCtx(ctx, cause, recordFields(record)...)
	} else {
		logger.WarnCtx(ctx, "Operation rejected", append(recordFields(record), zap.String("reason", reason))...)
	}

	err := e.store.WithTx(ctx, func(tx store.Store) error {
		ok, err := tx.SetLegit(ctx, record.Stamp(), false)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyResolved
		}
		return tx.InsertRejected(ctx, record, reason)
	})
	if errors.Is(err, errAlreadyResolved) {
		return ResultAlreadyApplied, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to reject operation %s: %w", record.Stamp(), err)
	}

	legit := false
	record.Legit = &legit
	return ResultRejected, nil
}

func recordFields(r *domain.Record) []zap.Field {
	return []zap.Field{
		zap.String("slp_type", string(r.SlpType)),
		zap.String("op", string(r.Op)),
		zap.String("token_id", r.TokenID),
		zap.Uint64("height", r.Height),
		zap.Uint32("index", r.Index),
		zap.String("txid", r.TxID),
		zap.String("emitter", r.Emitter),
		zap.String("receiver", r.Receiver),
	}
}

// router sends each record to the engine of its family
type router struct {
	engines map[domain.SlpType]Engine
}

// NewRouter creates an engine that dispatches on the record family
func NewRouter(engines map[domain.SlpType]Engine) Engine {
	return &router{engines: engines}
}

// NewEngines builds the router over both token families
func NewEngines(st store.Store, cfg Config) Engine {
	return NewRouter(map[domain.SlpType]Engine{
		domain.SlpTypeFungible: NewFungibleEngine(st, cfg),
		domain.SlpTypeNFT:      NewNFTEngine(st, cfg),
	})
}

// Manage forwards the record to the engine of its family
func (r *router) Manage(ctx context.Context, record *domain.Record) (Result, error) {
	e, ok := r.engines[record.SlpType]
	if !ok {
		return "", fmt.Errorf("no engine for token family %q", record.SlpType)
	}
	return e.Manage(ctx, record)
}
