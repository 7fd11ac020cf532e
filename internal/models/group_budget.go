package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GroupBudget is a spending limit shared by a group.
//
// It is persisted against the category of the member who set it, but it
// applies to every member category with the same name.
type GroupBudget struct {
	DefaultModel
	GroupID    uuid.UUID       `json:"groupId" gorm:"type:uuid;index" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	CategoryID uuid.UUID       `json:"categoryId" gorm:"type:uuid" example:"2e2b1f7c-9a0d-4d1e-8dc0-4e3b0f4b9a77"`
	Category   Category        `json:"-"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"500"`
	CreatedBy  uuid.UUID       `json:"createdBy" gorm:"type:uuid" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	Window
}

func (b *GroupBudget) BeforeSave(_ *gorm.DB) error {
	if b.Amount.IsNegative() {
		return ErrLimitNegative
	}

	return b.Window.validate()
}
