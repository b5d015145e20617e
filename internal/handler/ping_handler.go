package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/service"
	"github.com/pingv2/ping-service/pkg/logger"
	"go.uber.org/zap"
)

type PingHandler struct {
	pingService *service.PingService
}

func NewPingHandler(pingService *service.PingService) *PingHandler {
	return &PingHandler{
		pingService: pingService,
	}
}

type PingRequest struct {
	Message string `json:"message" binding:"required"`
}

// Echo is the unauthenticated sibling of SendPing: pure formatting, no
// gate, nothing recorded.
func (h *PingHandler) Echo(c *gin.Context) {
	var req PingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	c.JSON(http.StatusOK, h.pingService.Ping(req.Message))
}

// SendPing runs the authorized echo. Requires a bearer token (for the user
// identity) and the SECURITY module to be enabled.
func (h *PingHandler) SendPing(c *gin.Context) {
	var req PingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	userID, _ := c.Get("user_id")
	uid, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized",
		})
		return
	}

	result, err := h.pingService.SendPing(uid, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSecurityModuleDisabled),
			errors.Is(err, service.ErrPingNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"error": err.Error(),
			})
		default:
			logger.Log.Error("Ping failed",
				zap.String("user_id", uid.String()),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
