package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yorudev/gw2-loot-tracker/internal/models"
	"github.com/yorudev/gw2-loot-tracker/internal/services"
)

type AccountHandler struct {
	client   *services.GW2Client
	settings *services.Settings
	identity *services.IdentityService
}

func NewAccountHandler(client *services.GW2Client, settings *services.Settings, identity *services.IdentityService) *AccountHandler {
	return &AccountHandler{
		client:   client,
		settings: settings,
		identity: identity,
	}
}

type validateKeyRequest struct {
	Key string `json:"key"`
}

// ValidateKey checks an API key against the GW2 token endpoint without
// storing it.
func (h *AccountHandler) ValidateKey(c *gin.Context) {
	var req validateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := h.client.ValidateKey(req.Key)
	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}

// SetKey validates and installs a new API key. Keys without the required
// permissions are rejected.
func (h *AccountHandler) SetKey(c *gin.Context) {
	var req validateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := h.client.ValidateKey(req.Key)
	if status != models.KeyStatusValid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": status.String()})
		return
	}
	h.settings.SetAPIKey(req.Key)
	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}

type settingsRequest struct {
	PollIntervalSeconds *int    `json:"poll_interval_seconds"`
	AutoStart           *string `json:"auto_start"`
}

// GetSettings reports the adjustable tracker settings. The API key is
// never echoed back.
func (h *AccountHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"key_configured":        h.settings.APIKey() != "",
		"poll_interval_seconds": int(h.settings.PollInterval() / time.Second),
		"auto_start":            h.settings.AutoStart().String(),
	})
}

// UpdateSettings adjusts the poll interval and auto-start mode.
func (h *AccountHandler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AutoStart != nil {
		mode, err := services.ParseAutoStartMode(*req.AutoStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.settings.SetAutoStart(mode)
	}
	if req.PollIntervalSeconds != nil {
		h.settings.SetPollInterval(time.Duration(*req.PollIntervalSeconds) * time.Second)
	}
	h.GetSettings(c)
}

type identityRequest struct {
	CharacterName string `json:"character_name"`
	MapID         int    `json:"map_id"`
}

// UpdateIdentity receives the game-side companion's report of the active
// character and current map.
func (h *AccountHandler) UpdateIdentity(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.identity.Update(req.CharacterName, req.MapID)
	c.JSON(http.StatusOK, gin.H{
		"character_name": h.identity.CharacterName(),
		"map_id":         h.identity.MapID(),
	})
}
