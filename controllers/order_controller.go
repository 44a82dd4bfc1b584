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
)

// OrderController handles order lifecycle endpoints.
type OrderController struct {
	orderService services.OrderService
	validator    *RequestValidator
	timeout      time.Duration
}

func NewOrderController(orderService services.OrderService, validator *RequestValidator) *OrderController {
	return &OrderController{
		orderService: orderService,
		validator:    validator,
		timeout:      DefaultContextTimeout,
	}
}

// CreateOrder places a new order for the authenticated user.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	order, svcErr := oc.orderService.CreateOrder(ctx, userID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder returns a single order with items.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	order, svcErr := oc.orderService.GetOrder(ctx, id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetMyOrders returns the authenticated user's orders.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	orders, total, svcErr := oc.orderService.ListOrdersByUser(ctx, userID, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": newPaginationMeta(page, limit, total),
	})
}

// GetStoreOrders returns the vendor's store orders.
func (oc *OrderController) GetStoreOrders(c *gin.Context) {
	storeID, err := middleware.GetStoreID(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Store context required"})
		return
	}

	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	orders, total, svcErr := oc.orderService.ListOrdersByStore(ctx, storeID, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": newPaginationMeta(page, limit, total),
	})
}

// GetAllOrders returns all orders (admin).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	orders, total, svcErr := oc.orderService.ListAllOrders(ctx, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": newPaginationMeta(page, limit, total),
	})
}

// UpdateStatus moves an order to the requested status.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	order, svcErr := oc.orderService.UpdateStatus(ctx, id, req.Status)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order while it is still editable.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	order, svcErr := oc.orderService.CancelOrder(ctx, id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder soft deletes an order (admin).
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	if svcErr := oc.orderService.DeleteOrder(ctx, id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// PaymentCallback records the payment gateway outcome for an order.
func (oc *OrderController) PaymentCallback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req models.PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oc.timeout)
	defer cancel()

	order, svcErr := oc.orderService.HandlePaymentCallback(ctx, id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, order)
}
