package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

type memState struct {
	journal   map[domain.BlockStamp]domain.Record
	contracts map[string]schema.Contract
	holders   map[string]schema.Holder
	rejected  map[domain.BlockStamp]schema.Rejected
	values    map[string]string
	nextID    uint64
}

type memoryStore struct {
	mu *sync.Mutex
	st *memState
	// undo is set on transactional views and collects the inverse of every write
	undo *[]func()
}

// NewMemoryStore creates a store kept in process memory
func NewMemoryStore() Store {
	return &memoryStore{
		mu: &sync.Mutex{},
		st: &memState{
			journal:   make(map[domain.BlockStamp]domain.Record),
			contracts: make(map[string]schema.Contract),
			holders:   make(map[string]schema.Holder),
			rejected:  make(map[domain.BlockStamp]schema.Rejected),
			values:    make(map[string]string),
		},
	}
}

func holderKey(address, tokenID string) string {
	return address + "|" + tokenID
}

// lock takes the store mutex unless the view already runs inside WithTx
func (s *memoryStore) lock() func() {
	if s.undo != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memoryStore) onRollback(fn func()) {
	if s.undo != nil {
		*s.undo = append(*s.undo, fn)
	}
}

// WithTx holds the store mutex for the duration of fn and reverts its writes on error
func (s *memoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.undo == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	var undo []func()
	tx := &memoryStore{mu: s.mu, st: s.st, undo: &undo}
	if err := fn(tx); err != nil {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		return err
	}

	if s.undo != nil {
		*s.undo = append(*s.undo, undo...)
	}
	return nil
}

func copyRecord(r domain.Record) *domain.Record {
	if r.Data != nil {
		data := make(map[string]string, len(r.Data))
		for k, v := range r.Data {
			data[k] = v
		}
		r.Data = data
	}
	if r.Legit != nil {
		legit := *r.Legit
		r.Legit = &legit
	}
	return &r
}

func copyHolder(h schema.Holder) *schema.Holder {
	if h.Metadata != nil {
		h.Metadata = append([]byte(nil), h.Metadata...)
	}
	return &h
}

func (s *memoryStore) putJournal(r domain.Record) {
	stamp := r.Stamp()
	prev, existed := s.st.journal[stamp]
	s.onRollback(func() {
		if existed {
			s.st.journal[stamp] = prev
		} else {
			delete(s.st.journal, stamp)
		}
	})
	s.st.journal[stamp] = r
}

func (s *memoryStore) putContract(c schema.Contract) {
	prev, existed := s.st.contracts[c.TokenID]
	s.onRollback(func() {
		if existed {
			s.st.contracts[c.TokenID] = prev
		} else {
			delete(s.st.contracts, c.TokenID)
		}
	})
	s.st.contracts[c.TokenID] = c
}

func (s *memoryStore) putHolder(h schema.Holder) {
	key := holderKey(h.Address, h.TokenID)
	prev, existed := s.st.holders[key]
	s.onRollback(func() {
		if existed {
			s.st.holders[key] = prev
		} else {
			delete(s.st.holders, key)
		}
	})
	now := time.Now()
	if !existed {
		h.CreatedAt = now
	} else {
		h.CreatedAt = prev.CreatedAt
	}
	h.UpdatedAt = now
	s.st.holders[key] = *copyHolder(h)
}

// AppendJournal inserts a pending journal record
func (s *memoryStore) AppendJournal(ctx context.Context, record *domain.Record) error {
	unlock := s.lock()
	defer unlock()

	if _, ok := s.st.journal[record.Stamp()]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, record.Stamp())
	}

	r := copyRecord(*record)
	r.Legit = nil
	s.putJournal(*r)

	return nil
}

// GetJournal retrieves a journal record by blockstamp
func (s *memoryStore) GetJournal(ctx context.Context, stamp domain.BlockStamp) (*domain.Record, error) {
	unlock := s.lock()
	defer unlock()

	r, ok := s.st.journal[stamp]
	if !ok {
		return nil, nil
	}
	return copyRecord(r), nil
}

// SetLegit resolves a pending record
func (s *memoryStore) SetLegit(ctx context.Context, stamp domain.BlockStamp, legit bool) (bool, error) {
	unlock := s.lock()
	defer unlock()

	r, ok := s.st.journal[stamp]
	if !ok || r.Legit != nil {
		return false, nil
	}
	r.Legit = &legit
	s.putJournal(r)

	return true, nil
}

// GetGenesisRecord retrieves the journaled GENESIS of a token
func (s *memoryStore) GetGenesisRecord(ctx context.Context, tokenID string) (*domain.Record, error) {
	unlock := s.lock()
	defer unlock()

	var found *domain.Record
	for _, r := range s.st.journal {
		if r.TokenID != tokenID || r.Op != domain.OpGenesis {
			continue
		}
		if found == nil || found.Stamp().After(r.Stamp()) {
			found = copyRecord(r)
		}
	}
	return found, nil
}

// MaxJournalHeight returns the highest journaled block height
func (s *memoryStore) MaxJournalHeight(ctx context.Context) (uint64, error) {
	unlock := s.lock()
	defer unlock()

	var height uint64
	for stamp := range s.st.journal {
		height = max(height, stamp.Height)
	}
	return height, nil
}

// ListJournal returns journal records after a blockstamp in blockstamp order
func (s *memoryStore) ListJournal(ctx context.Context, filter JournalFilter) ([]*domain.Record, error) {
	unlock := s.lock()
	defer unlock()

	records := make([]*domain.Record, 0)
	for _, r := range s.st.journal {
		if filter.matches(&r) {
			records = append(records, copyRecord(r))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Stamp().Compare(records[j].Stamp()) < 0
	})
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}

	return records, nil
}

// GetContract retrieves a contract by token id
func (s *memoryStore) GetContract(ctx context.Context, tokenID string) (*schema.Contract, error) {
	unlock := s.lock()
	defer unlock()

	c, ok := s.st.contracts[tokenID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// CreateContract inserts a new contract
func (s *memoryStore) CreateContract(ctx context.Context, contract *schema.Contract) error {
	unlock := s.lock()
	defer unlock()

	if _, ok := s.st.contracts[contract.TokenID]; ok {
		return fmt.Errorf("%w: contract %s", domain.ErrDuplicate, contract.TokenID)
	}

	c := *contract
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.putContract(c)

	return nil
}

// UpdateContract replaces the mutable fields of an existing contract
func (s *memoryStore) UpdateContract(ctx context.Context, contract *schema.Contract) error {
	unlock := s.lock()
	defer unlock()

	c, ok := s.st.contracts[contract.TokenID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, contract.TokenID)
	}

	c.Owner = contract.Owner
	c.Supply = contract.Supply
	c.Minted = contract.Minted
	c.Burned = contract.Burned
	c.Exited = contract.Exited
	c.DocumentURI = contract.DocumentURI
	c.Notes = contract.Notes
	c.Paused = contract.Paused
	c.UpdatedAt = time.Now()
	s.putContract(c)

	return nil
}

// GetHolder retrieves the holder record of an address for a token
func (s *memoryStore) GetHolder(ctx context.Context, address, tokenID string) (*schema.Holder, error) {
	unlock := s.lock()
	defer unlock()

	h, ok := s.st.holders[holderKey(address, tokenID)]
	if !ok {
		return nil, nil
	}
	return copyHolder(h), nil
}

// CreateHolder inserts a new holder
func (s *memoryStore) CreateHolder(ctx context.Context, holder *schema.Holder) error {
	unlock := s.lock()
	defer unlock()

	if _, ok := s.st.holders[holderKey(holder.Address, holder.TokenID)]; ok {
		return fmt.Errorf("%w: holder %s of %s", domain.ErrDuplicate, holder.Address, holder.TokenID)
	}
	s.putHolder(*holder)

	return nil
}

// UpsertHolder inserts or replaces a holder record
func (s *memoryStore) UpsertHolder(ctx context.Context, holder *schema.Holder) error {
	unlock := s.lock()
	defer unlock()

	s.putHolder(*holder)

	return nil
}

// Exchange credits the receiver then debits the sender, a failed debit is
// compensated by debiting the receiver again
func (s *memoryStore) Exchange(ctx context.Context, tokenID, from, to string, qty domain.Quantity, stamp domain.BlockStamp) error {
	unlock := s.lock()
	defer unlock()

	sender, ok := s.st.holders[holderKey(from, tokenID)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrHolderNotFound, from)
	}
	if from == to {
		_, _, err := transfer(&sender, &sender, qty)
		if err != nil {
			return err
		}
		sender.BlockStamp = stamp.String()
		s.putHolder(sender)
		return nil
	}

	receiver, ok := s.st.holders[holderKey(to, tokenID)]
	if !ok {
		receiver = schema.Holder{Address: to, TokenID: tokenID}
	}

	// credit
	current, err := domain.NewQuantity(receiver.Balance, qty.Decimals())
	if err != nil {
		return err
	}
	credited, err := current.Add(qty)
	if err != nil {
		return err
	}
	receiver.Balance = credited.Scaled()
	receiver.BlockStamp = stamp.String()
	s.putHolder(receiver)

	// debit
	if err := s.debit(sender, qty, stamp); err != nil {
		compensated, cerr := credited.Sub(qty)
		if cerr == nil {
			receiver.Balance = compensated.Scaled()
			s.putHolder(receiver)
		}
		return err
	}

	return nil
}

func (s *memoryStore) debit(sender schema.Holder, qty domain.Quantity, stamp domain.BlockStamp) error {
	balance, err := domain.NewQuantity(sender.Balance, qty.Decimals())
	if err != nil {
		return err
	}
	debited, err := balance.Sub(qty)
	if err != nil {
		return err
	}
	if debited.Sign() < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, sender.Address, balance, qty)
	}

	sender.Balance = debited.Scaled()
	sender.BlockStamp = stamp.String()
	s.putHolder(sender)

	return nil
}

// InsertRejected keeps an audit copy of a rejected journal record
func (s *memoryStore) InsertRejected(ctx context.Context, record *domain.Record, reason string) error {
	unlock := s.lock()
	defer unlock()

	if _, ok := s.st.rejected[record.Stamp()]; ok {
		return nil
	}

	row, err := newRejected(record, reason)
	if err != nil {
		return err
	}
	s.st.nextID++
	row.ID = s.st.nextID
	row.CreatedAt = time.Now()

	stamp := record.Stamp()
	s.onRollback(func() { delete(s.st.rejected, stamp) })
	s.st.rejected[stamp] = *row

	return nil
}

// ListRejected returns rejected operations, newest first
func (s *memoryStore) ListRejected(ctx context.Context, limit int) ([]*schema.Rejected, error) {
	unlock := s.lock()
	defer unlock()

	rows := make([]*schema.Rejected, 0, len(s.st.rejected))
	for _, r := range s.st.rejected {
		rows = append(rows, &r)
	}
	sort.Slice(rows, func(i, j int) bool {
		a := domain.BlockStamp{Height: rows[i].Height, Index: rows[i].TxIndex}
		b := domain.BlockStamp{Height: rows[j].Height, Index: rows[j].TxIndex}
		return a.After(b)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, nil
}

// GetValue retrieves a key/value entry
func (s *memoryStore) GetValue(ctx context.Context, key string) (string, error) {
	unlock := s.lock()
	defer unlock()

	return s.st.values[key], nil
}

// SetValue stores a key/value entry
func (s *memoryStore) SetValue(ctx context.Context, key, value string) error {
	unlock := s.lock()
	defer unlock()

	prev, existed := s.st.values[key]
	s.onRollback(func() {
		if existed {
			s.st.values[key] = prev
		} else {
			delete(s.st.values, key)
		}
	})
	s.st.values[key] = value

	return nil
}
