package schema

import "time"

// FaucetGrant represents the faucet_grants table - the last grant handed to each address
type FaucetGrant struct {
	// Address is the lowercase hex address that received the grant
	Address string `gorm:"column:address;primaryKey;type:text"`
	// LastGrantAt is when the cooldown window of the address started
	LastGrantAt time.Time `gorm:"column:last_grant_at;not null"`
	// GrantID identifies the latest grant (ULID)
	GrantID string `gorm:"column:grant_id;not null;type:text"`
	// CreatedAt is the timestamp of the first grant to the address
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the FaucetGrant model
func (FaucetGrant) TableName() string {
	return "faucet_grants"
}
