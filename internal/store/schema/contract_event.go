package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ContractEvent represents the contract_events table - decoded logs emitted by the watched contracts
type ContractEvent struct {
	// ID is a ULID assigned when the event is first seen
	ID string `gorm:"column:id;primaryKey;type:text"`
	// ChainID is the EIP-155 chain id the log was read from
	ChainID uint64 `gorm:"column:chain_id;not null"`
	// Contract is the registry name of the emitting contract (e.g. DeciblingAuction)
	Contract string `gorm:"column:contract;not null;type:text;index:idx_contract_events_contract_event"`
	// Address is the lowercase hex address of the emitting contract
	Address string `gorm:"column:address;not null;type:text"`
	// Event is the ABI event name
	Event string `gorm:"column:event;not null;type:text;index:idx_contract_events_contract_event"`
	// BlockNumber is the block the log was included in
	BlockNumber uint64 `gorm:"column:block_number;not null;index"`
	// BlockTime is the timestamp of that block, null when the header could not be read
	BlockTime *time.Time `gorm:"column:block_time"`
	// TxHash is the hash of the emitting transaction
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_contract_events_tx_log"`
	// LogIndex is the position of the log in its block
	LogIndex uint `gorm:"column:log_index;not null;uniqueIndex:idx_contract_events_tx_log"`
	// Args holds the decoded event arguments keyed by ABI name
	Args datatypes.JSON `gorm:"column:args;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the ContractEvent model
func (ContractEvent) TableName() string {
	return "contract_events"
}
