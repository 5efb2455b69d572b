package models

import (
	"time"
)

// ItemDelta is one item's signed count change since the session baseline.
// Positive means gained, negative means lost.
type ItemDelta struct {
	ItemID      int    `json:"id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	ChatLink    string `json:"chat_link"`
	Type        string `json:"type"`
	Description string `json:"description"`
	VendorValue int    `json:"vendor_value"`
	Delta       int    `json:"delta"`
}

// CurrencyDelta is one currency's signed value change since the baseline.
type CurrencyDelta struct {
	CurrencyID int    `json:"id"`
	Name       string `json:"name"`
	Delta      int64  `json:"delta"`
}

// SavedSession is one completed session persisted to history.
type SavedSession struct {
	ID         string               `json:"id" gorm:"primaryKey"`
	Label      string               `json:"label"`
	StartedAt  time.Time            `json:"started_at" gorm:"index;not null"`
	EndedAt    time.Time            `json:"ended_at" gorm:"not null"`
	Items      []SavedItemDelta     `json:"items" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Currencies []SavedCurrencyDelta `json:"currencies" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time            `json:"created_at"`
}

// SavedItemDelta is one item row of a saved session.
type SavedItemDelta struct {
	ID          uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	SessionID   string `json:"-" gorm:"index;not null"`
	ItemID      int    `json:"item_id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Type        string `json:"type"`
	Description string `json:"description"`
	VendorValue int    `json:"vendor_value"`
	Delta       int    `json:"delta"`
}

// SavedCurrencyDelta is one currency row of a saved session.
type SavedCurrencyDelta struct {
	ID         uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	SessionID  string `json:"-" gorm:"index;not null"`
	CurrencyID int    `json:"currency_id"`
	Name       string `json:"name"`
	Delta      int64  `json:"delta"`
}

// TrackingProfile is a named include-list of item and currency ids used by
// the presentation layer. An empty id list means "track everything" of
// that kind.
type TrackingProfile struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null"`
	ItemIDs     []int     `json:"item_ids" gorm:"serializer:json"`
	CurrencyIDs []int     `json:"currency_ids" gorm:"serializer:json"`
	Active      bool      `json:"active" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
