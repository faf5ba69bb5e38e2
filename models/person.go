package models

import "time"

// Person is a named card holder under a user. Deleting a person takes
// all of their card purchases with it.
type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`

	CardPurchases []CardPurchase `gorm:"foreignKey:PersonID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
