package services

import (
	"context"
	"errors"
	"net/http"

	"shopzeo-backend/models"
	"shopzeo-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StoreService defines the business logic interface for vendor stores.
type StoreService interface {
	RegisterStore(ctx context.Context, req *models.RegisterStoreRequest) (*models.Store, *ServiceError)
	GetStore(ctx context.Context, id uuid.UUID) (*models.Store, *ServiceError)
	ListStores(ctx context.Context, page, limit int) ([]models.Store, int64, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.StoreStatus) (*models.Store, *ServiceError)
}

type storeServiceImpl struct {
	storeRepo  repository.StoreRepository
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
	logger     *zap.Logger
}

// NewStoreService creates a new StoreService.
func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	logger *zap.Logger,
) StoreService {
	return &storeServiceImpl{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		logger:     logger,
	}
}

// RegisterStore onboards a vendor: account, store and an empty wallet. The
// store starts in pending status until an admin approves it.
func (s *storeServiceImpl) RegisterStore(ctx context.Context, req *models.RegisterStoreRequest) (*models.Store, *ServiceError) {
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, conflictError("Email already registered")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Email lookup failed", zap.Error(err))
		return nil, internalError("Failed to register store")
	}

	slug := Slugify(req.StoreName)
	taken, err := s.storeRepo.SlugExists(ctx, slug)
	if err != nil {
		s.logger.Error("Slug lookup failed", zap.Error(err))
		return nil, internalError("Failed to register store")
	}
	if taken {
		return nil, conflictError("Store name already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Password hashing failed", zap.Error(err))
		return nil, internalError("Failed to register store")
	}

	owner := &models.User{
		Name:         req.OwnerName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleVendor,
	}
	if err := s.userRepo.Create(ctx, owner); err != nil {
		s.logger.Error("Failed to create vendor account", zap.Error(err))
		return nil, internalError("Failed to register store")
	}

	store := &models.Store{
		Name:           req.StoreName,
		Slug:           slug,
		OwnerUserID:    owner.ID,
		Status:         models.StoreStatusPending,
		CommissionRate: 0.10,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		s.logger.Error("Failed to create store", zap.Error(err))
		s.rollbackOnboarding(ctx, owner.ID, uuid.Nil)
		return nil, internalError("Failed to register store")
	}

	if err := s.walletRepo.Create(ctx, &models.Wallet{StoreID: store.ID}); err != nil {
		s.logger.Error("Failed to create store wallet", zap.String("store_id", store.ID.String()), zap.Error(err))
		s.rollbackOnboarding(ctx, owner.ID, store.ID)
		return nil, internalError("Failed to register store")
	}

	s.logger.Info("Store registered",
		zap.String("store_id", store.ID.String()),
		zap.String("slug", store.Slug),
	)
	return store, nil
}

// rollbackOnboarding removes the records a failed registration left behind so
// the email and slug are free for a retry. Cleanup failures are logged only.
func (s *storeServiceImpl) rollbackOnboarding(ctx context.Context, userID, storeID uuid.UUID) {
	if storeID != uuid.Nil {
		if err := s.storeRepo.Delete(ctx, storeID); err != nil {
			s.logger.Error("Failed to roll back store", zap.String("store_id", storeID.String()), zap.Error(err))
		}
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to roll back vendor account", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// GetStore retrieves a store by id.
func (s *storeServiceImpl) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, *ServiceError) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Store not found")
		}
		s.logger.Error("Failed to load store", zap.Error(err))
		return nil, internalError("Failed to retrieve store")
	}
	return store, nil
}

// ListStores retrieves paginated stores.
func (s *storeServiceImpl) ListStores(ctx context.Context, page, limit int) ([]models.Store, int64, *ServiceError) {
	stores, total, err := s.storeRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list stores", zap.Error(err))
		return nil, 0, internalError("Failed to retrieve stores")
	}
	return stores, total, nil
}

// UpdateStatus approves or suspends a store. Suspending stops new orders but
// keeps catalog and wallet data.
func (s *storeServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status models.StoreStatus) (*models.Store, *ServiceError) {
	switch status {
	case models.StoreStatusPending, models.StoreStatusApproved, models.StoreStatusSuspended:
	default:
		return nil, newServiceError(http.StatusBadRequest, "Unknown store status: "+string(status))
	}

	if err := s.storeRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Store not found")
		}
		s.logger.Error("Failed to update store status", zap.Error(err))
		return nil, internalError("Failed to update store status")
	}

	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to reload store", zap.Error(err))
		return nil, internalError("Failed to update store status")
	}

	s.logger.Info("Store status updated",
		zap.String("store_id", id.String()),
		zap.String("status", string(status)),
	)
	return store, nil
}
