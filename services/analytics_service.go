package services

import (
	"context"

	"shopzeo-backend/repository"

	"go.uber.org/zap"
)

// DashboardSummary is the admin overview payload.
type DashboardSummary struct {
	TotalOrders     int64                    `json:"total_orders"`
	TotalRevenue    float64                  `json:"total_revenue"`
	TotalCommission float64                  `json:"total_commission"`
	TotalProducts   int64                    `json:"total_products"`
	TotalStores     int64                    `json:"total_stores"`
	StatusBreakdown []repository.StatusCount `json:"status_breakdown"`
}

// AnalyticsService defines the business logic interface for admin reporting.
type AnalyticsService interface {
	DashboardSummary(ctx context.Context) (*DashboardSummary, *ServiceError)
	TopStores(ctx context.Context, limit int) ([]repository.StoreRevenue, *ServiceError)
}

type analyticsServiceImpl struct {
	analyticsRepo repository.AnalyticsRepository
	logger        *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, logger *zap.Logger) AnalyticsService {
	return &analyticsServiceImpl{analyticsRepo: analyticsRepo, logger: logger}
}

// DashboardSummary aggregates the top-level marketplace numbers. Revenue and
// commission count delivered orders only.
func (s *analyticsServiceImpl) DashboardSummary(ctx context.Context) (*DashboardSummary, *ServiceError) {
	orders, revenue, commission, err := s.analyticsRepo.OrderTotals(ctx)
	if err != nil {
		s.logger.Error("Order totals query failed", zap.Error(err))
		return nil, internalError("Failed to build dashboard summary")
	}

	breakdown, err := s.analyticsRepo.OrderStatusBreakdown(ctx)
	if err != nil {
		s.logger.Error("Status breakdown query failed", zap.Error(err))
		return nil, internalError("Failed to build dashboard summary")
	}

	products, err := s.analyticsRepo.CountProducts(ctx)
	if err != nil {
		s.logger.Error("Product count query failed", zap.Error(err))
		return nil, internalError("Failed to build dashboard summary")
	}

	stores, err := s.analyticsRepo.CountStores(ctx)
	if err != nil {
		s.logger.Error("Store count query failed", zap.Error(err))
		return nil, internalError("Failed to build dashboard summary")
	}

	return &DashboardSummary{
		TotalOrders:     orders,
		TotalRevenue:    revenue,
		TotalCommission: commission,
		TotalProducts:   products,
		TotalStores:     stores,
		StatusBreakdown: breakdown,
	}, nil
}

// TopStores ranks stores by delivered revenue.
func (s *analyticsServiceImpl) TopStores(ctx context.Context, limit int) ([]repository.StoreRevenue, *ServiceError) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.analyticsRepo.TopStoresByRevenue(ctx, limit)
	if err != nil {
		s.logger.Error("Top stores query failed", zap.Error(err))
		return nil, internalError("Failed to build top stores report")
	}
	return rows, nil
}
