package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

var (
	// ErrHolderNotFound is returned when an exchange debits an unknown holder
	ErrHolderNotFound = fmt.Errorf("%w: holder not found", domain.ErrStore)
	// ErrInsufficientBalance is returned when an exchange would leave a negative balance
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", domain.ErrStore)
	// ErrContractNotFound is returned when updating an unknown contract
	ErrContractNotFound = fmt.Errorf("%w: contract not found", domain.ErrStore)
)

// Store defines the interface for ledger persistence
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// WithTx runs fn against a transactional view of the store, any error from fn rolls back its writes
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// AppendJournal inserts a pending journal record, domain.ErrDuplicate if its blockstamp is taken
	AppendJournal(ctx context.Context, record *domain.Record) error
	// GetJournal retrieves a journal record by blockstamp
	GetJournal(ctx context.Context, stamp domain.BlockStamp) (*domain.Record, error)
	// SetLegit moves legit from null to the given value and reports whether this call made the transition
	SetLegit(ctx context.Context, stamp domain.BlockStamp, legit bool) (bool, error)
	// GetGenesisRecord retrieves the journaled GENESIS of a token
	GetGenesisRecord(ctx context.Context, tokenID string) (*domain.Record, error)
	// MaxJournalHeight returns the highest journaled block height, 0 when empty
	MaxJournalHeight(ctx context.Context) (uint64, error)
	// ListJournal returns up to limit records after the given blockstamp in blockstamp order
	ListJournal(ctx context.Context, filter JournalFilter) ([]*domain.Record, error)

	// GetContract retrieves a contract by token id
	GetContract(ctx context.Context, tokenID string) (*schema.Contract, error)
	// CreateContract inserts a new contract, domain.ErrDuplicate if the token id exists
	CreateContract(ctx context.Context, contract *schema.Contract) error
	// UpdateContract replaces the mutable fields of an existing contract
	UpdateContract(ctx context.Context, contract *schema.Contract) error

	// GetHolder retrieves the holder record of an address for a token
	GetHolder(ctx context.Context, address, tokenID string) (*schema.Holder, error)
	// CreateHolder inserts a new holder, domain.ErrDuplicate if it exists
	CreateHolder(ctx context.Context, holder *schema.Holder) error
	// UpsertHolder inserts or replaces a holder record
	UpsertHolder(ctx context.Context, holder *schema.Holder) error
	// Exchange debits from and credits to by qty, creating the receiver holder when absent
	Exchange(ctx context.Context, tokenID, from, to string, qty domain.Quantity, stamp domain.BlockStamp) error

	// InsertRejected keeps an audit copy of a rejected journal record
	InsertRejected(ctx context.Context, record *domain.Record, reason string) error
	// ListRejected returns rejected operations, newest first
	ListRejected(ctx context.Context, limit int) ([]*schema.Rejected, error)

	// GetValue retrieves a key/value entry, empty when absent
	GetValue(ctx context.Context, key string) (string, error)
	// SetValue stores a key/value entry
	SetValue(ctx context.Context, key, value string) error
}

// JournalFilter selects journal records for ListJournal
type JournalFilter struct {
	// After excludes records at or before this blockstamp
	After domain.BlockStamp
	// Legit filters on the tri-state, nil matches pending records only when Pending is set
	Legit *bool
	// Pending selects records whose legit is still null
	Pending bool
	// Limit caps the page size
	Limit int
}

func (f JournalFilter) matches(r *domain.Record) bool {
	if !r.Stamp().After(f.After) {
		return false
	}
	if f.Pending {
		return r.Legit == nil
	}
	if f.Legit != nil {
		return r.Legit != nil && *r.Legit == *f.Legit
	}
	return true
}

// IsDuplicate reports whether err marks an already stored record
func IsDuplicate(err error) bool {
	return errors.Is(err, domain.ErrDuplicate)
}
