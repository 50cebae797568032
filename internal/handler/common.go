package handler

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "event-ticketing/pkg/app_errors"
	"event-ticketing/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// BindID 解析路徑上的整數 id，失敗時直接回 400
func BindID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// handleError 將服務層錯誤轉為 HTTP 狀態碼
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrNotFound):
		log.Warn("Not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		log.Warn("Capacity exceeded")
		c.JSON(http.StatusConflict, gin.H{"error": "Event is sold out"})
	case errors.Is(err, apperrors.ErrDuplicateTicket):
		log.Warn("Duplicate ticket")
		c.JSON(http.StatusConflict, gin.H{"error": "User already holds a ticket for this event"})
	case errors.Is(err, apperrors.ErrEventNotOnSale):
		log.Warn("Event not on sale")
		c.JSON(http.StatusConflict, gin.H{"error": "Event is not on sale"})
	case errors.Is(err, apperrors.ErrDuplicateSlug):
		log.Warn("Duplicate slug")
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already exists"})
	case errors.Is(err, apperrors.ErrAlreadyUsed):
		log.Warn("Ticket already used")
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket already used"})
	case errors.Is(err, apperrors.ErrAlreadyCancelled):
		log.Warn("Ticket cancelled")
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket cancelled"})
	case errors.Is(err, apperrors.ErrNotConfirmed):
		log.Warn("Ticket not confirmed")
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket not confirmed"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		log.Warn("Invalid transition")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
