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

// StoreController handles vendor store endpoints.
type StoreController struct {
	storeService services.StoreService
	validator    *RequestValidator
	timeout      time.Duration
}

func NewStoreController(storeService services.StoreService, validator *RequestValidator) *StoreController {
	return &StoreController{
		storeService: storeService,
		validator:    validator,
		timeout:      DefaultContextTimeout,
	}
}

// RegisterStore onboards a new vendor.
func (sc *StoreController) RegisterStore(c *gin.Context) {
	var req models.RegisterStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sc.timeout)
	defer cancel()

	store, svcErr := sc.storeService.RegisterStore(ctx, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, store)
}

// GetStore returns a single store.
func (sc *StoreController) GetStore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sc.timeout)
	defer cancel()

	store, svcErr := sc.storeService.GetStore(ctx, id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, store)
}

// ListStores returns paginated stores.
func (sc *StoreController) ListStores(c *gin.Context) {
	page, limit, err := sc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sc.timeout)
	defer cancel()

	stores, total, svcErr := sc.storeService.ListStores(ctx, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores":     stores,
		"pagination": newPaginationMeta(page, limit, total),
	})
}

// UpdateStatus approves or suspends a store (admin).
func (sc *StoreController) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var req models.UpdateStoreStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sc.timeout)
	defer cancel()

	store, svcErr := sc.storeService.UpdateStatus(ctx, id, req.Status)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, store)
}
