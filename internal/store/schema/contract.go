package schema

import (
	"time"

	"github.com/feral-file/slp-indexer/internal/domain"
)

// Contract represents the contracts table - one row per token created by a GENESIS operation
type Contract struct {
	// TokenID is the content-derived token identifier
	TokenID string `gorm:"column:token_id;primaryKey;type:text"`
	// SlpType is the token family tag (aslp1, aslp2)
	SlpType string `gorm:"column:slp_type;not null;type:text"`
	// Symbol is the declared ticker
	Symbol string `gorm:"column:symbol;not null;type:text"`
	// Name is the declared token name
	Name string `gorm:"column:name;not null;type:text"`
	// Owner is the address currently controlling the token
	Owner string `gorm:"column:owner;not null;type:text;index"`
	// Decimals is the precision of every quantity of this token
	Decimals int16 `gorm:"column:decimals;not null;default:0"`
	// Supply, Minted, Burned and Exited are scaled by 10^Decimals
	Supply int64 `gorm:"column:supply;not null;default:0"`
	Minted int64 `gorm:"column:minted;not null;default:0"`
	Burned int64 `gorm:"column:burned;not null;default:0"`
	Exited int64 `gorm:"column:exited;not null;default:0"`
	// DocumentURI and Notes are the declared token documentation
	DocumentURI string `gorm:"column:document_uri;type:text"`
	Notes       string `gorm:"column:notes;type:text"`
	Pausable    bool   `gorm:"column:pausable;not null;default:false"`
	Mintable    bool   `gorm:"column:mintable;not null;default:false"`
	Paused      bool   `gorm:"column:paused;not null;default:false"`
	// GenesisStamp is the blockstamp of the GENESIS operation
	GenesisStamp string `gorm:"column:genesis_stamp;not null;type:text"`
	// CreatedAt is the timestamp when this record was first created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Contract model
func (Contract) TableName() string {
	return "contracts"
}

// Quantity wraps a scaled value at the contract precision
func (c *Contract) Quantity(scaled int64) (domain.Quantity, error) {
	return domain.NewQuantity(scaled, uint8(c.Decimals)) //nolint:gosec,G115
}

// Circulating returns minted + burned + exited, the amount counted against the supply
func (c *Contract) Circulating() (domain.Quantity, error) {
	minted, err := c.Quantity(c.Minted)
	if err != nil {
		return domain.Quantity{}, err
	}
	burned, err := c.Quantity(c.Burned)
	if err != nil {
		return domain.Quantity{}, err
	}
	exited, err := c.Quantity(c.Exited)
	if err != nil {
		return domain.Quantity{}, err
	}
	total, err := minted.Add(burned)
	if err != nil {
		return domain.Quantity{}, err
	}
	return total.Add(exited)
}
