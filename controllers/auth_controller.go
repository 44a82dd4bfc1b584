package controllers

import (
	"context"
	"net/http"
	"time"

	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
)

// AuthController handles authentication endpoints.
type AuthController struct {
	authService services.AuthService
	timeout     time.Duration
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService, timeout: DefaultContextTimeout}
}

// Login verifies credentials and returns a signed token.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ac.timeout)
	defer cancel()

	resp, svcErr := ac.authService.Login(ctx, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, resp)
}
