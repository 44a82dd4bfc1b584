package repository

import (
	"context"

	"shopzeo-backend/models"

	"gorm.io/gorm"
)

// StatusCount is one row of the order status breakdown.
type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// StoreRevenue is one row of the top-stores report.
type StoreRevenue struct {
	StoreID    string  `json:"store_id"`
	StoreName  string  `json:"store_name"`
	OrderCount int64   `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// AnalyticsRepository runs the admin aggregate queries.
type AnalyticsRepository interface {
	OrderTotals(ctx context.Context) (orders int64, revenue, commission float64, err error)
	OrderStatusBreakdown(ctx context.Context) ([]StatusCount, error)
	CountProducts(ctx context.Context) (int64, error)
	CountStores(ctx context.Context) (int64, error)
	TopStoresByRevenue(ctx context.Context, limit int) ([]StoreRevenue, error)
}

// GormAnalyticsRepository implements AnalyticsRepository using GORM.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository.
func NewGormAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// OrderTotals returns the order count plus summed revenue and commission over
// delivered orders.
func (r *GormAnalyticsRepository) OrderTotals(ctx context.Context) (int64, float64, float64, error) {
	var orders int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&orders).Error; err != nil {
		return 0, 0, 0, err
	}

	type sums struct {
		Revenue    float64
		Commission float64
	}
	var s sums
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COALESCE(SUM(commission), 0) AS commission").
		Where("status = ?", models.OrderStatusDelivered).
		Scan(&s).Error
	if err != nil {
		return 0, 0, 0, err
	}

	return orders, s.Revenue, s.Commission, nil
}

// OrderStatusBreakdown counts orders per status.
func (r *GormAnalyticsRepository) OrderStatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// CountProducts counts live products.
func (r *GormAnalyticsRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountStores counts live stores.
func (r *GormAnalyticsRepository) CountStores(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&count).Error
	return count, err
}

// TopStoresByRevenue ranks stores by delivered-order revenue.
func (r *GormAnalyticsRepository) TopStoresByRevenue(ctx context.Context, limit int) ([]StoreRevenue, error) {
	var rows []StoreRevenue
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("orders.store_id AS store_id, stores.name AS store_name, COUNT(*) AS order_count, COALESCE(SUM(orders.total), 0) AS revenue").
		Joins("JOIN stores ON stores.id = orders.store_id").
		Where("orders.status = ?", models.OrderStatusDelivered).
		Group("orders.store_id, stores.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
