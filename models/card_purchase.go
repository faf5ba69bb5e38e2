package models

import "time"

// CardPurchase is a dated card charge recorded against a person. It is
// owned transitively through that person. The category link carries no
// FK action: deleting the category leaves the id in place.
type CardPurchase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Date        DateOnly  `gorm:"type:date;not null" json:"date"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	PersonID    uint      `gorm:"index;not null" json:"person_id"`
}
