package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/feral-file/slp-indexer/internal/domain"
)

// Journal represents the journal table - the append-only log of decoded smartbridge operations
type Journal struct {
	// Height is the host chain block height
	Height uint64 `gorm:"column:height;primaryKey;autoIncrement:false"`
	// TxIndex is the 1-based position of the transaction in its block
	TxIndex uint32 `gorm:"column:tx_index;primaryKey;autoIncrement:false"`
	// TxID is the host chain transaction id
	TxID string `gorm:"column:txid;not null;type:text;index"`
	// SlpType is the token family tag (aslp1, aslp2)
	SlpType string `gorm:"column:slp_type;not null;type:text"`
	// Emitter is the transaction sender
	Emitter string `gorm:"column:emitter;not null;type:text"`
	// Receiver is the transaction recipient
	Receiver string `gorm:"column:receiver;not null;type:text"`
	// Cost is the chain-native amount transferred by the transaction
	Cost uint64 `gorm:"column:cost;not null;default:0"`

	Op          string           `gorm:"column:tp;not null;type:text"`
	TokenID     string           `gorm:"column:token_id;type:text;index"`
	Decimals    *int16           `gorm:"column:de"`
	Quantity    *decimal.Decimal `gorm:"column:qt;type:numeric(38,8)"`
	Symbol      string           `gorm:"column:sy;type:text"`
	Name        string           `gorm:"column:na;type:text"`
	DocumentURI string           `gorm:"column:du;type:text"`
	Notes       string           `gorm:"column:no;type:text"`
	Pausable    *bool            `gorm:"column:pa"`
	Mintable    *bool            `gorm:"column:mi"`
	Chunk       *int16           `gorm:"column:ch"`
	Data        datatypes.JSON   `gorm:"column:dt;type:jsonb"`
	VoidTx      string           `gorm:"column:tx;type:text"`

	// Legit is null while pending, then true (applied) or false (rejected)
	Legit *bool `gorm:"column:legit;index"`
	// CreatedAt is the timestamp when the record was journaled
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Journal model
func (Journal) TableName() string {
	return "journal"
}

// NewJournal converts a domain record into its row representation
func NewJournal(r *domain.Record) (*Journal, error) {
	j := &Journal{
		Height:      r.Height,
		TxIndex:     r.Index,
		TxID:        r.TxID,
		SlpType:     string(r.SlpType),
		Emitter:     r.Emitter,
		Receiver:    r.Receiver,
		Cost:        r.Cost,
		Op:          string(r.Op),
		TokenID:     r.TokenID,
		Quantity:    r.Quantity,
		Symbol:      r.Symbol,
		Name:        r.Name,
		DocumentURI: r.DocumentURI,
		Notes:       r.Notes,
		Pausable:    r.Pausable,
		Mintable:    r.Mintable,
		VoidTx:      r.VoidTx,
		Legit:       r.Legit,
	}
	if r.Decimals != nil {
		de := int16(*r.Decimals)
		j.Decimals = &de
	}
	if r.Chunk != nil {
		ch := int16(*r.Chunk)
		j.Chunk = &ch
	}
	if len(r.Data) > 0 {
		data, err := json.Marshal(r.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		j.Data = datatypes.JSON(data)
	}
	return j, nil
}

// Record converts the row back into a domain record
func (j *Journal) Record() (*domain.Record, error) {
	r := &domain.Record{
		Operation: domain.Operation{
			SlpType:     domain.SlpType(j.SlpType),
			Op:          domain.OpType(j.Op),
			TokenID:     j.TokenID,
			Quantity:    j.Quantity,
			Symbol:      j.Symbol,
			Name:        j.Name,
			DocumentURI: j.DocumentURI,
			Notes:       j.Notes,
			Pausable:    j.Pausable,
			Mintable:    j.Mintable,
			VoidTx:      j.VoidTx,
		},
		Height:   j.Height,
		Index:    j.TxIndex,
		TxID:     j.TxID,
		Emitter:  j.Emitter,
		Receiver: j.Receiver,
		Cost:     j.Cost,
		Legit:    j.Legit,
	}
	if j.Decimals != nil {
		de := uint8(*j.Decimals) //nolint:gosec,G115
		r.Decimals = &de
	}
	if j.Chunk != nil {
		ch := uint8(*j.Chunk) //nolint:gosec,G115
		r.Chunk = &ch
	}
	if len(j.Data) > 0 {
		if err := json.Unmarshal(j.Data, &r.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return r, nil
}
