package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yorudev/gw2-loot-tracker/internal/services"
)

type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory returns all saved sessions, newest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	sessions, err := h.history.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// DeleteSession removes one saved session.
func (h *HistoryHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.history.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
