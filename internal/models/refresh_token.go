package models

import "time"

// RefreshToken is one issued refresh credential. Rotation deletes the old row
// and inserts a new one, so a stolen token stops working as soon as the
// legitimate client refreshes.
type RefreshToken struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    int       `gorm:"index" json:"-"`
	ExpiresAt time.Time `json:"-"`
}
