package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports if the type is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense of a user.
//
// Transactions without a GroupID are personal. Transactions with a GroupID
// are visible to all members of the group.
type Transaction struct {
	DefaultModel
	UserID     uuid.UUID       `json:"userId" gorm:"type:uuid;index" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	CategoryID *uuid.UUID      `json:"categoryId" gorm:"type:uuid;index" example:"2e2b1f7c-9a0d-4d1e-8dc0-4e3b0f4b9a77"`
	GroupID    *uuid.UUID      `json:"groupId" gorm:"type:uuid;index" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.99"`
	Type       TransactionType `json:"type" example:"expense"`
	Date       types.Date      `json:"date" gorm:"index" swaggertype:"string" example:"2024-04-02"`
	Note       string          `json:"note" example:"Lunch"`
}

// IsPersonal reports if the transaction does not belong to a group.
func (t Transaction) IsPersonal() bool {
	return t.GroupID == nil
}

// BeforeSave
//   - trims whitespace from string fields
//   - ensures that optional IDs are nil and not a pointer to a nil UUID
//   - validates type and amount
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Note = strings.TrimSpace(t.Note)

	if t.CategoryID != nil && *t.CategoryID == uuid.Nil {
		t.CategoryID = nil
	}

	if t.GroupID != nil && *t.GroupID == uuid.Nil {
		t.GroupID = nil
	}

	if t.Type == "" {
		t.Type = TransactionTypeExpense
	}

	if !t.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	return nil
}
