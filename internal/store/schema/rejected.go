package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Rejected represents the rejected table - audit copies of journal records refused by a contract engine
type Rejected struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Height and TxIndex identify the rejected journal record
	Height  uint64 `gorm:"column:height;not null;uniqueIndex:idx_rejected_stamp,priority:1"`
	TxIndex uint32 `gorm:"column:tx_index;not null;uniqueIndex:idx_rejected_stamp,priority:2"`
	TxID    string `gorm:"column:txid;not null;type:text"`
	SlpType string `gorm:"column:slp_type;not null;type:text"`
	Op      string `gorm:"column:tp;not null;type:text"`
	TokenID string `gorm:"column:token_id;type:text;index"`
	// Reason is the failed rule
	Reason string `gorm:"column:reason;not null;type:text"`
	// Record is the full journal record as JSON
	Record datatypes.JSON `gorm:"column:record;not null;type:jsonb"`
	// CreatedAt is the timestamp when the rejection was recorded
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Rejected model
func (Rejected) TableName() string {
	return "rejected"
}
