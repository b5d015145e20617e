package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pingv2/ping-service/internal/service"
	"github.com/pingv2/ping-service/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a bearer token. Unknown user and
// wrong password come back as 401 with the outcome message in the body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	result, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		logger.Log.Error("Authentication failed",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	if result.Token == "" {
		c.JSON(http.StatusUnauthorized, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
