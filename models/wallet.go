package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType is the direction of a wallet ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Wallet holds a store's running payout balance.
type Wallet struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"store_id"`
	Balance float64   `gorm:"not null;default:0" json:"balance"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WalletTransaction is an append-only ledger entry. BalanceAfter captures the
// wallet balance once the entry was applied.
type WalletTransaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Type         TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Amount       float64         `gorm:"not null" json:"amount"`
	BalanceAfter float64         `gorm:"not null" json:"balance_after"`
	OrderID      *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Note         string          `gorm:"type:varchar(255)" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AdjustWalletRequest is the admin payload for manual wallet adjustments.
type AdjustWalletRequest struct {
	Type   TransactionType `json:"type" binding:"required,oneof=credit debit"`
	Amount float64         `json:"amount" binding:"required,gt=0"`
	Note   string          `json:"note" binding:"required,max=255"`
}
