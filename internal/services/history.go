package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yorudev/gw2-loot-tracker/internal/metrics"
	"github.com/yorudev/gw2-loot-tracker/internal/models"
)

// HistoryService persists finished sessions to the database.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// SaveSession stores one finished session. Sessions whose deltas are all
// zero are dropped: there is nothing worth recording.
func (s *HistoryService) SaveSession(start, end time.Time, items []models.ItemDelta, currencies []models.CurrencyDelta) error {
	hasContent := false
	for _, item := range items {
		if item.Delta != 0 {
			hasContent = true
			break
		}
	}
	if !hasContent {
		for _, c := range currencies {
			if c.Delta != 0 {
				hasContent = true
				break
			}
		}
	}
	if !hasContent {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.SavedSession{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count sessions: %w", err)
	}

	session := models.SavedSession{
		ID:        uuid.NewString(),
		Label:     fmt.Sprintf("Session %d", count+1),
		StartedAt: start.UTC(),
		EndedAt:   end.UTC(),
	}
	for _, item := range items {
		session.Items = append(session.Items, models.SavedItemDelta{
			ItemID:      item.ItemID,
			Name:        item.Name,
			Rarity:      item.Rarity,
			Type:        item.Type,
			Description: item.Description,
			VendorValue: item.VendorValue,
			Delta:       item.Delta,
		})
	}
	for _, c := range currencies {
		session.Currencies = append(session.Currencies, models.SavedCurrencyDelta{
			CurrencyID: c.CurrencyID,
			Name:       c.Name,
			Delta:      c.Delta,
		})
	}

	if err := s.db.Create(&session).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	metrics.SessionsSavedTotal.Inc()
	log.Printf("Saved %s (%d items, %d currencies)", session.Label, len(session.Items), len(session.Currencies))
	return nil
}

// GetAll returns every saved session, newest first, with deltas loaded.
func (s *HistoryService) GetAll() ([]models.SavedSession, error) {
	var sessions []models.SavedSession
	err := s.db.
		Preload("Items").
		Preload("Currencies").
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	return sessions, nil
}

// Delete removes one saved session and its deltas.
func (s *HistoryService) Delete(id string) error {
	result := s.db.Select("Items", "Currencies").Delete(&models.SavedSession{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
