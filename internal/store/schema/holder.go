package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/slp-indexer/internal/domain"
)

// Holder represents the holders table - the balance or metadata of one address for one token
type Holder struct {
	// Address is the holder's host chain address
	Address string `gorm:"column:address;primaryKey;type:text"`
	// TokenID references the contract
	TokenID string `gorm:"column:token_id;primaryKey;type:text;index"`
	// Balance is scaled by 10^Decimals of the contract
	Balance int64 `gorm:"column:balance;not null;default:0"`
	// Owner is set on the address currently controlling the token
	Owner bool `gorm:"column:owner;not null;default:false"`
	// Frozen holders cannot send
	Frozen bool `gorm:"column:frozen;not null;default:false"`
	// BlockStamp is the "{height}#{index}" of the last operation that touched this holder
	BlockStamp string `gorm:"column:block_stamp;not null;type:text"`
	// Metadata is the key/value blob held by a non-fungible holder
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// CreatedAt is the timestamp when this record was first created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Holder model
func (Holder) TableName() string {
	return "holders"
}

// Stamp parses the stored blockstamp, an empty stamp sorts before every operation
func (h *Holder) Stamp() (domain.BlockStamp, error) {
	if h.BlockStamp == "" {
		return domain.BlockStamp{}, nil
	}
	return domain.ParseBlockStamp(h.BlockStamp)
}

// MetadataMap decodes the metadata blob
func (h *Holder) MetadataMap() (map[string]string, error) {
	m := make(map[string]string)
	if len(h.Metadata) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(h.Metadata, &m); err != nil {
		return nil, fmt.Errorf("failed to decode holder metadata: %w", err)
	}
	return m, nil
}

// SetMetadata encodes m into the metadata blob
func (h *Holder) SetMetadata(m map[string]string) error {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode holder metadata: %w", err)
	}
	h.Metadata = datatypes.JSON(data)
	return nil
}
