package models

import "time"

// Transaction types. Anything else is rejected at the handler boundary.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction is a single money movement belonging to a user. The
// category link is optional and survives as NULL when the category is
// deleted.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Date        time.Time `gorm:"not null" json:"date"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
}
