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

// ProductService defines the business logic interface for the catalog.
type ProductService interface {
	CreateProduct(ctx context.Context, storeID uuid.UUID, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	ListProducts(ctx context.Context, params repository.ProductListParams) ([]models.Product, int64, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
}

type productServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	storeRepo    repository.StoreRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	storeRepo repository.StoreRepository,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storeRepo:    storeRepo,
		logger:       logger,
	}
}

// CreateProduct validates references and inserts a single catalog item for
// the given store.
func (s *productServiceImpl) CreateProduct(ctx context.Context, storeID uuid.UUID, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Store not found")
		}
		s.logger.Error("Store lookup failed", zap.Error(err))
		return nil, internalError("Failed to create product")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, badRequestError("Invalid category id")
	}
	exists, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		s.logger.Error("Category lookup failed", zap.Error(err))
		return nil, internalError("Failed to create product")
	}
	if !exists {
		return nil, badRequestError("Category not found")
	}

	var subCategoryID *uuid.UUID
	if req.SubCategoryID != "" {
		subID, err := uuid.Parse(req.SubCategoryID)
		if err != nil {
			return nil, badRequestError("Invalid sub category id")
		}
		ok, err := s.categoryRepo.ExistsByID(ctx, subID)
		if err != nil {
			s.logger.Error("Sub category lookup failed", zap.Error(err))
			return nil, internalError("Failed to create product")
		}
		if !ok {
			return nil, badRequestError("Sub category not found")
		}
		subCategoryID = &subID
	}

	if existing, err := s.productRepo.FindByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, conflictError("Product code already in use")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Product code lookup failed", zap.Error(err))
		return nil, internalError("Failed to create product")
	}

	slug := Slugify(req.Name)
	taken, err := s.productRepo.SlugExists(ctx, slug)
	if err != nil {
		s.logger.Error("Slug lookup failed", zap.Error(err))
		return nil, internalError("Failed to create product")
	}
	if taken {
		slug = slug + "-" + Slugify(req.Code)
	}

	product := &models.Product{
		Code:          req.Code,
		Name:          req.Name,
		Slug:          slug,
		SKU:           req.SKU,
		Description:   req.Description,
		SellingPrice:  req.SellingPrice,
		MRP:           req.MRP,
		CostPrice:     req.CostPrice,
		TaxRate:       req.TaxRate,
		Quantity:      req.Quantity,
		LengthCm:      req.LengthCm,
		WidthCm:       req.WidthCm,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		Images:        req.Images,
		Videos:        req.Videos,
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		StoreID:       storeID,
		IsActive:      true,
		IsFeatured:    req.IsFeatured,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, internalError("Failed to create product")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)
	return product, nil
}

// UpdateProduct applies the fields present in the request. Slug and code stay
// stable across updates.
func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		s.logger.Error("Failed to load product", zap.Error(err))
		return nil, internalError("Failed to update product")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.MRP != nil {
		product.MRP = *req.MRP
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Videos != nil {
		product.Videos = req.Videos
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, internalError("Failed to update product")
	}
	return product, nil
}

// GetProduct retrieves a product by id.
func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		s.logger.Error("Failed to load product", zap.Error(err))
		return nil, internalError("Failed to retrieve product")
	}
	return product, nil
}

// ListProducts retrieves paginated products with filters.
func (s *productServiceImpl) ListProducts(ctx context.Context, params repository.ProductListParams) ([]models.Product, int64, *ServiceError) {
	products, total, err := s.productRepo.FindAll(ctx, params)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, internalError("Failed to retrieve products")
	}
	return products, total, nil
}

// DeleteProduct soft deletes a product. It disappears from listings but stays
// referenced by historical orders.
func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Product not found")
		}
		s.logger.Error("Failed to delete product", zap.Error(err))
		return internalError("Failed to delete product")
	}
	return nil
}
