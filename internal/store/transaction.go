package store

import (
	"errors"
	"time"

	"github.com/gitKrishh/finance-tracker/internal/models"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AmountToCents converts a currency amount to cents, rejecting non-positive
// values and sub-cent precision.
func AmountToCents(amount float64) (int64, error) {
	d := decimal.NewFromFloat(amount)
	if d.LessThanOrEqual(decimal.Zero) {
		return 0, util.BadRequest("Amount must be greater than zero")
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, util.BadRequest("Amount must have at most two decimal places")
	}
	return cents.IntPart(), nil
}

// CreateInput carries validated-by-caller wire fields for a new transaction.
type CreateInput struct {
	Description string
	Amount      float64
	Type        string
	Category    string
	Date        time.Time
	ReceiptURL  string
}

// UpdateInput carries partial field replacements; nil means "leave as is".
type UpdateInput struct {
	Description *string
	Amount      *float64
	Type        *string
	Category    *string
	Date        *time.Time
	ReceiptURL  *string
}

// ListFilter narrows ListForOwner. Zero values mean no filtering.
type ListFilter struct {
	Type       string
	PeriodDays int
}

// TransactionStore owns financial entries, each belonging to exactly one user.
type TransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create persists a new transaction for the owner. The date defaults to the
// current time when omitted.
func (s *TransactionStore) Create(ownerID uint, in CreateInput) (*models.Transaction, error) {
	if in.Description == "" || in.Category == "" {
		return nil, util.BadRequest("Description, amount, type, and category are required")
	}
	if in.Type != models.TypeIncome && in.Type != models.TypeExpense {
		return nil, util.BadRequest("Type must be income or expense")
	}
	cents, err := AmountToCents(in.Amount)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	tx := models.Transaction{
		UserID:      ownerID,
		Description: in.Description,
		AmountCents: cents,
		Type:        in.Type,
		Category:    in.Category,
		Date:        in.Date,
		ReceiptURL:  in.ReceiptURL,
	}
	if err := s.db.Create(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListForOwner returns the owner's transactions, newest first, optionally
// narrowed by type and to the last N days. The period boundary is computed
// from a single snapshot of the current time.
func (s *TransactionStore) ListForOwner(ownerID uint, f ListFilter) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", ownerID)
	if f.Type == models.TypeIncome || f.Type == models.TypeExpense {
		q = q.Where("type = ?", f.Type)
	}
	if f.PeriodDays > 0 {
		since := time.Now().AddDate(0, 0, -f.PeriodDays)
		q = q.Where("date >= ?", since)
	}

	var txs []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// GetByID returns the transaction only when it exists and belongs to the
// owner; a mismatch reads as NotFound.
func (s *TransactionStore) GetByID(id, ownerID uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", id, ownerID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Transaction not found")
		}
		return nil, err
	}
	return &tx, nil
}

// Update applies a partial field replacement. The ownership filter is part of
// the update statement itself, so the check and the mutation are one
// conditional write.
func (s *TransactionStore) Update(id, ownerID uint, in UpdateInput) (*models.Transaction, error) {
	updates := map[string]any{}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, util.BadRequest("Description must not be empty")
		}
		updates["description"] = *in.Description
	}
	if in.Amount != nil {
		cents, err := AmountToCents(*in.Amount)
		if err != nil {
			return nil, err
		}
		updates["amount_cents"] = cents
	}
	if in.Type != nil {
		if *in.Type != models.TypeIncome && *in.Type != models.TypeExpense {
			return nil, util.BadRequest("Type must be income or expense")
		}
		updates["type"] = *in.Type
	}
	if in.Category != nil {
		if *in.Category == "" {
			return nil, util.BadRequest("Category must not be empty")
		}
		updates["category"] = *in.Category
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.ReceiptURL != nil {
		updates["receipt_url"] = *in.ReceiptURL
	}
	if len(updates) == 0 {
		return s.GetByID(id, ownerID)
	}

	res := s.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, util.NotFound("Transaction not found")
	}
	return s.GetByID(id, ownerID)
}

// Delete removes the transaction; the ownership filter is part of the delete.
func (s *TransactionStore) Delete(id, ownerID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.NotFound("Transaction not found")
	}
	return nil
}
