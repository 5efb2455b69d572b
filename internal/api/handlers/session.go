package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yorudev/gw2-loot-tracker/internal/models"
	"github.com/yorudev/gw2-loot-tracker/internal/services"
)

type SessionHandler struct {
	engine *services.SessionEngine
	poller *services.Poller
	filter *services.TrackingFilter
}

func NewSessionHandler(engine *services.SessionEngine, poller *services.Poller, filter *services.TrackingFilter) *SessionHandler {
	return &SessionHandler{
		engine: engine,
		poller: poller,
		filter: filter,
	}
}

// StartSession begins a fresh session and requests an immediate poll so
// the baseline establishes as soon as possible.
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.engine.Start()
	h.poller.PollNow()
	c.JSON(http.StatusOK, h.engine.Status())
}

// StopSession ends the current session; a non-trivial session lands in
// history.
func (h *SessionHandler) StopSession(c *gin.Context) {
	h.engine.Stop()
	c.JSON(http.StatusOK, h.engine.Status())
}

// GetStatus returns the engine and poller state.
func (h *SessionHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session": h.engine.Status(),
		"polling": h.poller.IsRunning(),
	})
}

// PollNow wakes the poller early.
func (h *SessionHandler) PollNow(c *gin.Context) {
	h.poller.PollNow()
	c.JSON(http.StatusAccepted, gin.H{"polling": h.poller.IsRunning()})
}

// GetItemDeltas returns the session's item deltas, filtered by the
// active tracking profile.
func (h *SessionHandler) GetItemDeltas(c *gin.Context) {
	deltas := h.engine.GetItemDeltas()
	filtered := make([]models.ItemDelta, 0, len(deltas))
	for _, d := range deltas {
		if h.filter.IsItemTracked(d.ItemID) {
			filtered = append(filtered, d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": filtered})
}

// GetCurrencyDeltas returns the session's currency deltas, filtered by
// the active tracking profile.
func (h *SessionHandler) GetCurrencyDeltas(c *gin.Context) {
	deltas := h.engine.GetCurrencyDeltas()
	filtered := make([]models.CurrencyDelta, 0, len(deltas))
	for _, d := range deltas {
		if h.filter.IsCurrencyTracked(d.CurrencyID) {
			filtered = append(filtered, d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"currencies": filtered})
}

// GetKnownItems lists every item the tracker has resolved metadata for.
// The profile editor uses this to show what can be tracked.
func (h *SessionHandler) GetKnownItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.engine.GetKnownItems()})
}

// GetKnownCurrencies lists every currency the tracker has resolved
// metadata for.
func (h *SessionHandler) GetKnownCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": h.engine.GetKnownCurrencies()})
}
