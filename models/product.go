package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Limits on product media references.
const (
	MaxProductImages = 10
	MaxProductVideos = 2
)

// Product is a catalog item owned by exactly one store. Code and Slug are
// globally unique.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	SKU         string    `gorm:"type:varchar(64);not null" json:"sku"`
	Description string    `gorm:"type:text" json:"description"`

	SellingPrice float64 `gorm:"not null" json:"selling_price"`
	MRP          float64 `gorm:"not null;default:0" json:"mrp"`
	CostPrice    float64 `gorm:"not null;default:0" json:"cost_price"`
	TaxRate      float64 `gorm:"not null;default:0" json:"tax_rate"`

	Quantity int `gorm:"not null;default:0" json:"quantity"`

	// Packaging dimensions in cm/kg.
	LengthCm float64 `gorm:"default:0" json:"length_cm"`
	WidthCm  float64 `gorm:"default:0" json:"width_cm"`
	HeightCm float64 `gorm:"default:0" json:"height_cm"`
	WeightKg float64 `gorm:"default:0" json:"weight_kg"`

	// Media references, capped at MaxProductImages/MaxProductVideos.
	Images StringArray `gorm:"type:text" json:"images"`
	Videos StringArray `gorm:"type:text" json:"videos"`

	CategoryID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	SubCategoryID *uuid.UUID `gorm:"type:uuid;index" json:"sub_category_id,omitempty"`
	StoreID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"store_id"`

	IsActive   bool `gorm:"not null;default:true" json:"is_active"`
	IsFeatured bool `gorm:"not null;default:false" json:"is_featured"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateProductRequest is the payload for creating a single product via the
// API (bulk creation goes through the CSV importer).
type CreateProductRequest struct {
	Code          string   `json:"code" binding:"required,max=64"`
	Name          string   `json:"name" binding:"required,max=255"`
	SKU           string   `json:"sku" binding:"required,max=64"`
	Description   string   `json:"description"`
	SellingPrice  float64  `json:"selling_price" binding:"required,gte=0"`
	MRP           float64  `json:"mrp" binding:"gte=0"`
	CostPrice     float64  `json:"cost_price" binding:"gte=0"`
	TaxRate       float64  `json:"tax_rate" binding:"gte=0"`
	Quantity      int      `json:"quantity" binding:"gte=0"`
	LengthCm      float64  `json:"length_cm" binding:"gte=0"`
	WidthCm       float64  `json:"width_cm" binding:"gte=0"`
	HeightCm      float64  `json:"height_cm" binding:"gte=0"`
	WeightKg      float64  `json:"weight_kg" binding:"gte=0"`
	Images        []string `json:"images" binding:"max=10"`
	Videos        []string `json:"videos" binding:"max=2"`
	CategoryID    string   `json:"category_id" binding:"required,uuid"`
	SubCategoryID string   `json:"sub_category_id" binding:"omitempty,uuid"`
	IsFeatured    bool     `json:"is_featured"`
}

// UpdateProductRequest carries optional fields for PATCH /products/:id.
// Pointers distinguish "not sent" from zero values.
type UpdateProductRequest struct {
	Name         *string  `json:"name" binding:"omitempty,max=255"`
	SKU          *string  `json:"sku" binding:"omitempty,max=64"`
	Description  *string  `json:"description"`
	SellingPrice *float64 `json:"selling_price" binding:"omitempty,gte=0"`
	MRP          *float64 `json:"mrp" binding:"omitempty,gte=0"`
	CostPrice    *float64 `json:"cost_price" binding:"omitempty,gte=0"`
	TaxRate      *float64 `json:"tax_rate" binding:"omitempty,gte=0"`
	Quantity     *int     `json:"quantity" binding:"omitempty,gte=0"`
	Images       []string `json:"images" binding:"omitempty,max=10"`
	Videos       []string `json:"videos" binding:"omitempty,max=2"`
	IsActive     *bool    `json:"is_active"`
	IsFeatured   *bool    `json:"is_featured"`
}
