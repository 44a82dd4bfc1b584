package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
)

// AnalyticsController handles admin reporting endpoints.
type AnalyticsController struct {
	analyticsService services.AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		timeout:          DefaultContextTimeout,
	}
}

// Dashboard returns the marketplace overview.
func (ac *AnalyticsController) Dashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ac.timeout)
	defer cancel()

	summary, svcErr := ac.analyticsService.DashboardSummary(ctx)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// TopStores ranks stores by delivered revenue.
func (ac *AnalyticsController) TopStores(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ac.timeout)
	defer cancel()

	stores, svcErr := ac.analyticsService.TopStores(ctx, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}
