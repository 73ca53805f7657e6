package model

import "time"

// FeatureFlag is a named boolean toggle with metadata. The natural key is Key;
// flags are always created disabled and toggled afterwards via partial update.
type FeatureFlag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null" json:"key"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Enabled     bool      `gorm:"default:false;not null" json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
