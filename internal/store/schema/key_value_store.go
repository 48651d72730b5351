package schema

import "time"

// KeyValueStore represents the key_value_store table - small pieces of node state
// such as registered webhook tokens ("webhook:{digest}") and the active subscription
type KeyValueStore struct {
	Key string `gorm:"column:key;primaryKey;type:text"`
	// Value is empty once the entry has been cleared
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the KeyValueStore model
func (KeyValueStore) TableName() string {
	return "key_value_store"
}
