package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yorudev/gw2-loot-tracker/internal/services"
)

type ProfileHandler struct {
	filter *services.TrackingFilter
}

func NewProfileHandler(filter *services.TrackingFilter) *ProfileHandler {
	return &ProfileHandler{filter: filter}
}

type profileRequest struct {
	Name        string `json:"name" binding:"required"`
	ItemIDs     []int  `json:"item_ids"`
	CurrencyIDs []int  `json:"currency_ids"`
}

// GetProfiles lists all tracking profiles and which one is active.
func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.filter.Profiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles":  profiles,
		"active_id": h.filter.ActiveProfileID(),
	})
}

// CreateProfile adds a new profile and activates it.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.filter.Create(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(req.ItemIDs) > 0 || len(req.CurrencyIDs) > 0 {
		profile, err = h.filter.Update(profile.ID, req.Name, req.ItemIDs, req.CurrencyIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile replaces a profile's name and id lists.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.filter.Update(uint(id), req.Name, req.ItemIDs, req.CurrencyIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteProfile removes a profile.
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	if err := h.filter.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ActivateProfile switches the active profile; id 0 tracks everything.
func (h *ProfileHandler) ActivateProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	if err := h.filter.SetActive(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_id": h.filter.ActiveProfileID()})
}
