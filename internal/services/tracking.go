package services

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/yorudev/gw2-loot-tracker/internal/models"
)

// TrackingFilter manages named include-lists of item and currency ids.
// With no active profile everything is tracked. The filter only affects
// what the presentation layer shows; the session engine records all
// deltas regardless.
type TrackingFilter struct {
	db *gorm.DB

	mu     sync.Mutex
	active *models.TrackingProfile
}

func NewTrackingFilter(db *gorm.DB) (*TrackingFilter, error) {
	f := &TrackingFilter{db: db}

	var active models.TrackingProfile
	err := db.Where("active = ?", true).First(&active).Error
	switch {
	case err == nil:
		f.active = &active
	case err != gorm.ErrRecordNotFound:
		return nil, fmt.Errorf("failed to load active profile: %w", err)
	}
	return f, nil
}

// IsItemTracked reports whether the active profile includes the item.
// An empty item list means "track all items".
func (f *TrackingFilter) IsItemTracked(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil || len(f.active.ItemIDs) == 0 {
		return true
	}
	for _, tracked := range f.active.ItemIDs {
		if tracked == id {
			return true
		}
	}
	return false
}

// IsCurrencyTracked reports whether the active profile includes the
// currency. An empty currency list means "track all currencies".
func (f *TrackingFilter) IsCurrencyTracked(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil || len(f.active.CurrencyIDs) == 0 {
		return true
	}
	for _, tracked := range f.active.CurrencyIDs {
		if tracked == id {
			return true
		}
	}
	return false
}

// ActiveProfileID returns the active profile's id, or 0 when no profile
// is active.
func (f *TrackingFilter) ActiveProfileID() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		return 0
	}
	return f.active.ID
}

// Profiles returns all saved profiles.
func (f *TrackingFilter) Profiles() ([]models.TrackingProfile, error) {
	var profiles []models.TrackingProfile
	if err := f.db.Order("id").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return profiles, nil
}

// Create adds a new profile and makes it active.
func (f *TrackingFilter) Create(name string) (*models.TrackingProfile, error) {
	profile := models.TrackingProfile{Name: name, Active: true}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TrackingProfile{}).Where("active = ?", true).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	f.mu.Lock()
	f.active = &profile
	f.mu.Unlock()
	return &profile, nil
}

// Update replaces a profile's name and id lists.
func (f *TrackingFilter) Update(id uint, name string, itemIDs, currencyIDs []int) (*models.TrackingProfile, error) {
	var profile models.TrackingProfile
	if err := f.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	profile.Name = name
	profile.ItemIDs = itemIDs
	profile.CurrencyIDs = currencyIDs
	if err := f.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	f.mu.Lock()
	if f.active != nil && f.active.ID == id {
		f.active = &profile
	}
	f.mu.Unlock()
	return &profile, nil
}

// Delete removes a profile. Deleting the active profile reverts the
// filter to track-everything.
func (f *TrackingFilter) Delete(id uint) error {
	result := f.db.Delete(&models.TrackingProfile{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	f.mu.Lock()
	if f.active != nil && f.active.ID == id {
		f.active = nil
	}
	f.mu.Unlock()
	return nil
}

// SetActive switches the active profile. Id 0 clears the selection so
// everything is tracked again.
func (f *TrackingFilter) SetActive(id uint) error {
	if id == 0 {
		if err := f.db.Model(&models.TrackingProfile{}).Where("active = ?", true).Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to clear active profile: %w", err)
		}
		f.mu.Lock()
		f.active = nil
		f.mu.Unlock()
		return nil
	}

	var profile models.TrackingProfile
	if err := f.db.First(&profile, id).Error; err != nil {
		return err
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TrackingProfile{}).Where("active = ?", true).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&profile).Update("active", true).Error
	})
	if err != nil {
		return fmt.Errorf("failed to activate profile: %w", err)
	}

	profile.Active = true
	f.mu.Lock()
	f.active = &profile
	f.mu.Unlock()
	return nil
}
