package repository

import (
	"context"

	"shopzeo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Store, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.StoreStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormStoreRepository implements StoreRepository using GORM.
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository.
func NewGormStoreRepository(db *gorm.DB) StoreRepository {
	return &GormStoreRepository{db: db}
}

// Create inserts a new store.
func (r *GormStoreRepository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID retrieves a store by primary key.
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByOwner retrieves the store owned by the given user.
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// SlugExists reports whether any store already uses the slug.
func (r *GormStoreRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// FindAll retrieves paginated stores.
func (r *GormStoreRepository) FindAll(ctx context.Context, page, limit int) ([]models.Store, int64, error) {
	var stores []models.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Store{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&stores).Error; err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

// Delete hard deletes a store, releasing its unique slug. Used when
// onboarding fails partway and the half-created records must go.
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Store{}, "id = ?", id).Error
}

// UpdateStatus sets the onboarding status of a store.
func (r *GormStoreRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.StoreStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
