package httpHandler

import (
	"errors"
	"net/http"

	"ecowattch-server/entities"
	"ecowattch-server/logger"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
	statusError   = "error"
)

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  statusError,
		"message": "Missing or invalid fields",
		"details": err.Error(),
	})
}

// respondError maps use case errors onto status codes. Store failures are
// logged and reported with a stable message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"status": statusError, "message": err.Error()})
	case errors.Is(err, entities.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"status": statusError, "message": "Username already exists"})
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": statusError, "message": "User not found"})
	case errors.Is(err, entities.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"status": statusError, "message": "Insufficient points"})
	case errors.Is(err, entities.ErrBalanceChanged):
		c.JSON(http.StatusConflict, gin.H{"status": statusError, "message": "Points changed, try again"})
	default:
		log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusError, "message": "Internal server error"})
	}
}
