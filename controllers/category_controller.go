package controllers

import (
	"context"
	"net/http"
	"time"

	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryController handles category endpoints.
type CategoryController struct {
	categoryService services.CategoryService
	timeout         time.Duration
}

func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService, timeout: DefaultContextTimeout}
}

// CreateCategory creates a category (admin).
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), cc.timeout)
	defer cancel()

	category, svcErr := cc.categoryService.CreateCategory(ctx, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories returns all categories.
func (cc *CategoryController) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), cc.timeout)
	defer cancel()

	categories, svcErr := cc.categoryService.ListCategories(ctx)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// DeleteCategory soft deletes a category (admin).
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), cc.timeout)
	defer cancel()

	if svcErr := cc.categoryService.DeleteCategory(ctx, id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
