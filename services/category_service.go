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

// CategoryService defines the business logic interface for categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError)
	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
	DeleteCategory(ctx context.Context, id uuid.UUID) *ServiceError
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo, logger: logger}
}

// CreateCategory inserts a category, optionally nested under a parent.
func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError) {
	category := &models.Category{
		Name: req.Name,
		Slug: Slugify(req.Name),
	}

	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, badRequestError("Invalid parent id")
		}
		exists, err := s.categoryRepo.ExistsByID(ctx, parentID)
		if err != nil {
			s.logger.Error("Parent category lookup failed", zap.Error(err))
			return nil, internalError("Failed to create category")
		}
		if !exists {
			return nil, badRequestError("Parent category not found")
		}
		category.ParentID = &parentID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, internalError("Failed to create category")
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, internalError("Failed to retrieve categories")
	}
	return categories, nil
}

// DeleteCategory soft deletes a category.
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.categoryRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Category not found")
		}
		s.logger.Error("Failed to delete category", zap.Error(err))
		return internalError("Failed to delete category")
	}
	return nil
}
