package repository

import (
	"context"
	"errors"

	"shopzeo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a debit would take the wallet
// negative.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// ErrInvalidAmount is returned when a transaction amount is zero or negative.
// A negative credit would silently act as an unguarded debit.
var ErrInvalidAmount = errors.New("transaction amount must be positive")

// WalletRepository defines the interface for wallet data access.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	FindByStoreID(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error)
	// ApplyTransaction atomically moves the balance and appends the ledger
	// row. Debits that would take the balance negative fail with
	// ErrInsufficientBalance and leave no ledger entry. Amounts must be
	// positive; anything else fails with ErrInvalidAmount.
	ApplyTransaction(ctx context.Context, walletID uuid.UUID, txType models.TransactionType, amount float64, orderID *uuid.UUID, note string) (*models.WalletTransaction, error)
	Transactions(ctx context.Context, walletID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, error)
}

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository.
func NewGormWalletRepository(db *gorm.DB) WalletRepository {
	return &GormWalletRepository{db: db}
}

// Create inserts a new wallet.
func (r *GormWalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

// FindByStoreID retrieves the wallet belonging to a store.
func (r *GormWalletRepository) FindByStoreID(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ApplyTransaction runs the balance move and ledger append in one database
// transaction. The balance update is guarded so a debit never overdraws.
func (r *GormWalletRepository) ApplyTransaction(ctx context.Context, walletID uuid.UUID, txType models.TransactionType, amount float64, orderID *uuid.UUID, note string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *models.WalletTransaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		delta := amount
		guard := tx.Model(&models.Wallet{}).Where("id = ?", walletID)
		if txType == models.TransactionTypeDebit {
			delta = -amount
			guard = guard.Where("balance >= ?", amount)
		}

		result := guard.UpdateColumn("balance", gorm.Expr("balance + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if txType == models.TransactionTypeDebit {
				return ErrInsufficientBalance
			}
			return gorm.ErrRecordNotFound
		}

		var wallet models.Wallet
		if err := tx.Where("id = ?", walletID).First(&wallet).Error; err != nil {
			return err
		}

		entry = &models.WalletTransaction{
			WalletID:     walletID,
			Type:         txType,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			OrderID:      orderID,
			Note:         note,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Transactions retrieves paginated ledger entries, newest first.
func (r *GormWalletRepository) Transactions(ctx context.Context, walletID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, error) {
	var entries []models.WalletTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).Where("wallet_id = ?", walletID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
