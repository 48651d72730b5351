package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the ledger tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&schema.Journal{},
		&schema.Contract{},
		&schema.Holder{},
		&schema.Rejected{},
		&schema.KeyValueStore{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, NormalizeConnectionPoolSettings defaults are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 10
	}
	if maxIdleConns == 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// WithTx runs fn inside a database transaction, nested calls use savepoints
func (s *pgStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// AppendJournal inserts a pending journal record
func (s *pgStore) AppendJournal(ctx context.Context, record *domain.Record) error {
	row, err := schema.NewJournal(record)
	if err != nil {
		return err
	}
	row.Legit = nil

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to append journal: %v", domain.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, record.Stamp())
	}

	return nil
}

// GetJournal retrieves a journal record by blockstamp
func (s *pgStore) GetJournal(ctx context.Context, stamp domain.BlockStamp) (*domain.Record, error) {
	var row schema.Journal
	err := s.db.WithContext(ctx).
		Where("height = ? AND tx_index = ?", stamp.Height, stamp.Index).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get journal: %v", domain.ErrStore, err)
	}

	return row.Record()
}

// SetLegit resolves a pending record, the conditional update is the single-application guard
func (s *pgStore) SetLegit(ctx context.Context, stamp domain.BlockStamp, legit bool) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Journal{}).
		Where("height = ? AND tx_index = ? AND legit IS NULL", stamp.Height, stamp.Index).
		Update("legit", legit)
	if result.Error != nil {
		return false, fmt.Errorf("%w: failed to set legit: %v", domain.ErrStore, result.Error)
	}

	return result.RowsAffected == 1, nil
}

// GetGenesisRecord retrieves the journaled GENESIS of a token
func (s *pgStore) GetGenesisRecord(ctx context.Context, tokenID string) (*domain.Record, error) {
	var row schema.Journal
	err := s.db.WithContext(ctx).
		Where("token_id = ? AND tp = ?", tokenID, string(domain.OpGenesis)).
		Order("height ASC, tx_index ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get genesis record: %v", domain.ErrStore, err)
	}

	return row.Record()
}

// MaxJournalHeight returns the highest journaled block height
func (s *pgStore) MaxJournalHeight(ctx context.Context) (uint64, error) {
	var height uint64
	err := s.db.WithContext(ctx).
		Model(&schema.Journal{}).
		Select("COALESCE(MAX(height), 0)").
		Scan(&height).Error
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get max journal height: %v", domain.ErrStore, err)
	}

	return height, nil
}

// ListJournal returns journal records after a blockstamp in blockstamp order
func (s *pgStore) ListJournal(ctx context.Context, filter JournalFilter) ([]*domain.Record, error) {
	query := s.db.WithContext(ctx).
		Where("(height, tx_index) > (?, ?)", filter.After.Height, filter.After.Index)

	switch {
	case filter.Pending:
		query = query.Where("legit IS NULL")
	case filter.Legit != nil:
		query = query.Where("legit = ?", *filter.Legit)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []schema.Journal
	if err := query.Order("height ASC, tx_index ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list journal: %v", domain.ErrStore, err)
	}

	records := make([]*domain.Record, 0, len(rows))
	for i := range rows {
		r, err := rows[i].Record()
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, nil
}

// GetContract retrieves a contract by token id
func (s *pgStore) GetContract(ctx context.Context, tokenID string) (*schema.Contract, error) {
	var contract schema.Contract
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get contract: %v", domain.ErrStore, err)
	}

	return &contract, nil
}

// CreateContract inserts a new contract
func (s *pgStore) CreateContract(ctx context.Context, contract *schema.Contract) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(contract)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to create contract: %v", domain.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: contract %s", domain.ErrDuplicate, contract.TokenID)
	}

	return nil
}

// UpdateContract replaces the mutable fields of an existing contract
func (s *pgStore) UpdateContract(ctx context.Context, contract *schema.Contract) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Contract{}).
		Where("token_id = ?", contract.TokenID).
		Updates(map[string]any{
			"owner":        contract.Owner,
			"supply":       contract.Supply,
			"minted":       contract.Minted,
			"burned":       contract.Burned,
			"exited":       contract.Exited,
			"document_uri": contract.DocumentURI,
			"notes":        contract.Notes,
			"paused":       contract.Paused,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: failed to update contract: %v", domain.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrContractNotFound, contract.TokenID)
	}

	return nil
}

// GetHolder retrieves the holder record of an address for a token
func (s *pgStore) GetHolder(ctx context.Context, address, tokenID string) (*schema.Holder, error) {
	var holder schema.Holder
	err := s.db.WithContext(ctx).
		Where("address = ? AND token_id = ?", address, tokenID).
		First(&holder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get holder: %v", domain.ErrStore, err)
	}

	return &holder, nil
}

// CreateHolder inserts a new holder
func (s *pgStore) CreateHolder(ctx context.Context, holder *schema.Holder) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(holder)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to create holder: %v", domain.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: holder %s of %s", domain.ErrDuplicate, holder.Address, holder.TokenID)
	}

	return nil
}

// UpsertHolder inserts or replaces a holder record
func (s *pgStore) UpsertHolder(ctx context.Context, holder *schema.Holder) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}, {Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "owner", "frozen", "block_stamp", "metadata", "updated_at"}),
		}).
		Create(holder).Error
	if err != nil {
		return fmt.Errorf("%w: failed to upsert holder: %v", domain.ErrStore, err)
	}

	return nil
}

// Exchange moves qty between two holders inside one transaction
func (s *pgStore) Exchange(ctx context.Context, tokenID, from, to string, qty domain.Quantity, stamp domain.BlockStamp) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holders []schema.Holder
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ? AND address IN ?", tokenID, []string{from, to}).
			Find(&holders).Error
		if err != nil {
			return fmt.Errorf("%w: failed to lock holders: %v", domain.ErrStore, err)
		}

		var sender, receiver *schema.Holder
		for i := range holders {
			switch holders[i].Address {
			case from:
				sender = &holders[i]
			case to:
				receiver = &holders[i]
			}
		}
		if sender == nil {
			return fmt.Errorf("%w: %s", ErrHolderNotFound, from)
		}
		switch {
		case from == to:
			receiver = sender
		case receiver == nil:
			receiver = &schema.Holder{Address: to, TokenID: tokenID}
		}

		debited, credited, err := transfer(sender, receiver, qty)
		if err != nil {
			return err
		}

		sender.Balance = debited
		sender.BlockStamp = stamp.String()
		receiver.Balance = credited
		receiver.BlockStamp = stamp.String()

		for _, h := range []*schema.Holder{receiver, sender} {
			if err := (&pgStore{db: tx}).UpsertHolder(ctx, h); err != nil {
				return err
			}
		}

		return nil
	})
}

// transfer computes the scaled balances after moving qty, a self transfer keeps both unchanged
func transfer(sender, receiver *schema.Holder, qty domain.Quantity) (int64, int64, error) {
	balance, err := domain.NewQuantity(sender.Balance, qty.Decimals())
	if err != nil {
		return 0, 0, err
	}
	debited, err := balance.Sub(qty)
	if err != nil {
		return 0, 0, err
	}
	if debited.Sign() < 0 {
		return 0, 0, fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, sender.Address, balance, qty)
	}
	if sender.Address == receiver.Address {
		return sender.Balance, sender.Balance, nil
	}

	current, err := domain.NewQuantity(receiver.Balance, qty.Decimals())
	if err != nil {
		return 0, 0, err
	}
	credited, err := current.Add(qty)
	if err != nil {
		return 0, 0, err
	}

	return debited.Scaled(), credited.Scaled(), nil
}

// InsertRejected keeps an audit copy of a rejected journal record
func (s *pgStore) InsertRejected(ctx context.Context, record *domain.Record, reason string) error {
	row, err := newRejected(record, reason)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("%w: failed to insert rejected record: %v", domain.ErrStore, err)
	}

	logger.DebugCtx(ctx, "Recorded rejected operation",
		zap.String("stamp", record.Stamp().String()),
		zap.String("reason", reason))

	return nil
}

func newRejected(record *domain.Record, reason string) (*schema.Rejected, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rejected record: %w", err)
	}

	return &schema.Rejected{
		Height:  record.Height,
		TxIndex: record.Index,
		TxID:    record.TxID,
		SlpType: string(record.SlpType),
		Op:      string(record.Op),
		TokenID: record.TokenID,
		Reason:  reason,
		Record:  datatypes.JSON(data),
	}, nil
}

// ListRejected returns rejected operations, newest first
func (s *pgStore) ListRejected(ctx context.Context, limit int) ([]*schema.Rejected, error) {
	query := s.db.WithContext(ctx).Order("height DESC, tx_index DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*schema.Rejected
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list rejected records: %v", domain.ErrStore, err)
	}

	return rows, nil
}

// GetValue retrieves a key/value entry
func (s *pgStore) GetValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: failed to get value: %v", domain.ErrStore, err)
	}

	return kv.Value, nil
}

// SetValue stores a key/value entry
func (s *pgStore) SetValue(ctx context.Context, key, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("%w: failed to set value: %v", domain.ErrStore, err)
	}

	return nil
}
