package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreStatus is the onboarding state of a vendor store.
type StoreStatus string

const (
	StoreStatusPending   StoreStatus = "pending"
	StoreStatusApproved  StoreStatus = "approved"
	StoreStatusSuspended StoreStatus = "suspended"
)

// Store is a vendor storefront. Every product and order belongs to exactly
// one store.
type Store struct {
	ID             uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string      `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	OwnerUserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	Status         StoreStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CommissionRate float64     `gorm:"not null;default:0.10" json:"commission_rate"` // fraction of subtotal
	Email          string      `gorm:"type:varchar(255);not null" json:"email"`
	Phone          string      `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address        Address     `gorm:"embedded;embeddedPrefix:addr_" json:"address"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RegisterStoreRequest is the vendor onboarding payload. It creates the
// vendor account, the store and its wallet in one call.
type RegisterStoreRequest struct {
	StoreName string  `json:"store_name" binding:"required,min=3,max=255"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	OwnerName string  `json:"owner_name" binding:"required"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// UpdateStoreStatusRequest is the admin payload for approving or suspending a
// store.
type UpdateStoreStatusRequest struct {
	Status StoreStatus `json:"status" binding:"required,oneof=pending approved suspended"`
}
