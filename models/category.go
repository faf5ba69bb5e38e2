package models

import "time"

// DefaultCategoryColor is applied when a category is created without one.
const DefaultCategoryColor = "#3498db"

// Category labels a user's transactions. Deleting one never deletes the
// transactions that reference it; their category link is cleared instead.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Color     string    `gorm:"size:16;default:'#3498db'" json:"color"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
}
