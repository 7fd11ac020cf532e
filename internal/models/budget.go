package models

import (
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports if the period is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Window is the part of a spending limit that decides when it applies.
type Window struct {
	Period    Period     `json:"period" example:"daily"`
	StartDate types.Date `json:"startDate" swaggertype:"string" example:"2024-04-02"`
	EndDate   types.Date `json:"endDate" swaggertype:"string" example:"2024-12-31"`
}

// ActiveOn reports if a daily limit applies on the given day.
//
// Only daily limits are enforced. A daily limit is one long-lived row;
// the daily reset is computed from the day a report is made for, not stored.
func (w Window) ActiveOn(day types.Date) bool {
	return w.Period == PeriodDaily && day.Between(w.StartDate, w.EndDate)
}

func (w *Window) validate() error {
	if w.Period == "" {
		w.Period = PeriodDaily
	}

	if !w.Period.Valid() {
		return ErrPeriodInvalid
	}

	if w.EndDate.Before(w.StartDate) {
		return ErrDateRangeInvalid
	}

	return nil
}

// Budget is a personal spending limit for one of the user's categories.
type Budget struct {
	DefaultModel
	UserID     uuid.UUID       `json:"userId" gorm:"type:uuid;index:idx_budget_user_category" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	CategoryID uuid.UUID       `json:"categoryId" gorm:"type:uuid;index:idx_budget_user_category" example:"2e2b1f7c-9a0d-4d1e-8dc0-4e3b0f4b9a77"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"25"`
	Window
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	if b.Amount.IsNegative() {
		return ErrLimitNegative
	}

	return b.Window.validate()
}
