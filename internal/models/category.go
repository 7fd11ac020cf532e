package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a user's classification for transactions.
//
// Categories are owned by exactly one user. Members of a group each have
// their own categories, even when the names are the same.
type Category struct {
	DefaultModel
	OwnerUserID uuid.UUID       `json:"ownerUserId" gorm:"type:uuid;index" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	Name        string          `json:"name" example:"Food"`
	Type        TransactionType `json:"type" example:"expense"`
	Color       string          `json:"color" example:"#ef4444"`
	Icon        string          `json:"icon" example:"utensils"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)
	c.Icon = strings.TrimSpace(c.Icon)

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	if c.Type == "" {
		c.Type = TransactionTypeExpense
	}

	if !c.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if c.Color == "" {
		c.Color = "#64748b"
	}

	return nil
}
