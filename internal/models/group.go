package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Group is a shared ledger. Its members see the group's transactions and
// share its budgets.
type Group struct {
	DefaultModel
	Name                  string              `json:"name" example:"Flat share"`
	Description           string              `json:"description" example:"Groceries and utilities for the flat"`
	CreatedBy             uuid.UUID           `json:"createdBy" gorm:"type:uuid;index" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	TotalExpenditureLimit decimal.NullDecimal `json:"totalExpenditureLimit" gorm:"type:DECIMAL(20,8)" swaggertype:"string" example:"250.00"`
}

func (g *Group) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Description = strings.TrimSpace(g.Description)

	if g.Name == "" {
		return ErrGroupNameEmpty
	}

	if g.TotalExpenditureLimit.Valid && g.TotalExpenditureLimit.Decimal.IsNegative() {
		return ErrLimitNegative
	}

	return nil
}
