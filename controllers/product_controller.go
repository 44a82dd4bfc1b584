package controllers

import (
	"context"
	"net/http"
	"time"

	"shopzeo-backend/middleware"
	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductController handles catalog endpoints.
type ProductController struct {
	productService services.ProductService
	cache          *CacheManager
	validator      *RequestValidator
	timeout        time.Duration
}

func NewProductController(ps services.ProductService, cache *CacheManager, validator *RequestValidator) *ProductController {
	return &ProductController{
		productService: ps,
		cache:          cache,
		validator:      validator,
		timeout:        DefaultContextTimeout,
	}
}

// CreateProduct creates a single product for the vendor's store.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	storeID, err := middleware.GetStoreID(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Store context required"})
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	product, svcErr := pc.productService.CreateProduct(ctx, storeID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	if pc.cache != nil {
		pc.cache.InvalidateProduct(ctx, product.ID.String())
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct returns a single product, cache first.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	if pc.cache != nil {
		if product, ok := pc.cache.GetProduct(ctx, id.String()); ok {
			c.JSON(http.StatusOK, product)
			return
		}
	}

	product, svcErr := pc.productService.GetProduct(ctx, id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	if pc.cache != nil {
		pc.cache.SetProductAsync(id.String(), product)
	}

	c.JSON(http.StatusOK, product)
}

// ListProducts returns paginated, filtered products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	params, err := pc.validator.ParseProductFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	if pc.cache != nil {
		if cached, ok := pc.cache.GetProductList(ctx, params); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, total, svcErr := pc.productService.ListProducts(ctx, params)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	response := map[string]interface{}{
		"products":   products,
		"pagination": newPaginationMeta(params.Page, params.Limit, total),
	}

	if pc.cache != nil {
		pc.cache.SetProductListAsync(params, response)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProduct applies a partial update to a product.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	product, svcErr := pc.productService.UpdateProduct(ctx, id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	if pc.cache != nil {
		pc.cache.InvalidateProduct(ctx, id.String())
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft deletes a product.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	if svcErr := pc.productService.DeleteProduct(ctx, id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	if pc.cache != nil {
		pc.cache.InvalidateProduct(ctx, id.String())
	}

	zap.L().Info("Product deleted", zap.String("product_id", id.String()))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
