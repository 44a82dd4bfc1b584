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

// WalletController handles store wallet endpoints.
type WalletController struct {
	walletService services.WalletService
	validator     *RequestValidator
	timeout       time.Duration
}

func NewWalletController(walletService services.WalletService, validator *RequestValidator) *WalletController {
	return &WalletController{
		walletService: walletService,
		validator:     validator,
		timeout:       DefaultContextTimeout,
	}
}

// GetWallet returns a store's wallet balance.
func (wc *WalletController) GetWallet(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), wc.timeout)
	defer cancel()

	wallet, svcErr := wc.walletService.GetWallet(ctx, storeID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetTransactions returns the paginated wallet ledger, newest first.
func (wc *WalletController) GetTransactions(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	page, limit, err := wc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), wc.timeout)
	defer cancel()

	entries, total, svcErr := wc.walletService.ListTransactions(ctx, storeID, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": entries,
		"pagination":   newPaginationMeta(page, limit, total),
	})
}

// Adjust applies a manual admin credit or debit.
func (wc *WalletController) Adjust(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var req models.AdjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), wc.timeout)
	defer cancel()

	entry, svcErr := wc.walletService.Adjust(ctx, storeID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, entry)
}
