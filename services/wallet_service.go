package services

import (
	"context"
	"errors"

	"shopzeo-backend/models"
	"shopzeo-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WalletService defines the business logic interface for store wallets.
type WalletService interface {
	GetWallet(ctx context.Context, storeID uuid.UUID) (*models.Wallet, *ServiceError)
	ListTransactions(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, *ServiceError)
	Adjust(ctx context.Context, storeID uuid.UUID, req *models.AdjustWalletRequest) (*models.WalletTransaction, *ServiceError)
}

type walletServiceImpl struct {
	walletRepo repository.WalletRepository
	logger     *zap.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repository.WalletRepository, logger *zap.Logger) WalletService {
	return &walletServiceImpl{walletRepo: walletRepo, logger: logger}
}

// GetWallet retrieves the wallet for a store.
func (s *walletServiceImpl) GetWallet(ctx context.Context, storeID uuid.UUID) (*models.Wallet, *ServiceError) {
	wallet, err := s.walletRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Wallet not found")
		}
		s.logger.Error("Failed to load wallet", zap.Error(err))
		return nil, internalError("Failed to retrieve wallet")
	}
	return wallet, nil
}

// ListTransactions retrieves the paginated ledger, newest first.
func (s *walletServiceImpl) ListTransactions(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, *ServiceError) {
	wallet, svcErr := s.GetWallet(ctx, storeID)
	if svcErr != nil {
		return nil, 0, svcErr
	}

	entries, total, err := s.walletRepo.Transactions(ctx, wallet.ID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list wallet transactions", zap.Error(err))
		return nil, 0, internalError("Failed to retrieve wallet transactions")
	}
	return entries, total, nil
}

// Adjust applies a manual admin credit or debit. Debits that would overdraw
// the wallet are rejected.
func (s *walletServiceImpl) Adjust(ctx context.Context, storeID uuid.UUID, req *models.AdjustWalletRequest) (*models.WalletTransaction, *ServiceError) {
	wallet, svcErr := s.GetWallet(ctx, storeID)
	if svcErr != nil {
		return nil, svcErr
	}

	entry, err := s.walletRepo.ApplyTransaction(ctx, wallet.ID, req.Type, req.Amount, nil, req.Note)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, conflictError("Insufficient wallet balance")
		}
		s.logger.Error("Wallet adjustment failed", zap.String("store_id", storeID.String()), zap.Error(err))
		return nil, internalError("Failed to adjust wallet")
	}

	s.logger.Info("Wallet adjusted",
		zap.String("store_id", storeID.String()),
		zap.String("type", string(req.Type)),
		zap.Float64("amount", req.Amount),
	)
	return entry, nil
}
