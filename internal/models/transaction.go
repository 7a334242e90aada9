package models

import "time"

// Transaction types. The set is closed: every record is one or the other.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single financial entry owned by exactly one user.
// The amount is stored in cents to keep aggregation sums exact.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Description string    `gorm:"size:255;not null" json:"description"`
	AmountCents int64     `gorm:"not null" json:"-"`
	Type        string    `gorm:"size:16;index;not null" json:"type"`
	Category    string    `gorm:"size:64;not null" json:"category"`
	Date        time.Time `gorm:"index;not null" json:"date"`
	ReceiptURL  string    `gorm:"size:512" json:"receiptUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Amount returns the amount in currency units.
func (t *Transaction) Amount() float64 {
	return float64(t.AmountCents) / 100
}
