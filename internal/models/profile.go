package models

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Profile is the ledger's view of a user account.
//
// Accounts are managed by the authentication service. The profile only
// keeps the identifier, the verified email address and the personal
// aggregate limit.
type Profile struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Timestamps
	Email                 string              `json:"email" gorm:"uniqueIndex" example:"jane@example.com"`
	TotalExpenditureLimit decimal.NullDecimal `json:"totalExpenditureLimit" gorm:"type:DECIMAL(20,8)" swaggertype:"string" example:"120.00"` // Daily cap over all expense categories
}

// NormalizeEmail trims and case folds an email address.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// ValidEmail reports if the address can be parsed as a bare email address.
func ValidEmail(email string) bool {
	address, err := mail.ParseAddress(email)
	return err == nil && address.Address == email
}

func (p *Profile) BeforeSave(_ *gorm.DB) error {
	p.Email = NormalizeEmail(p.Email)

	if p.Email != "" && !ValidEmail(p.Email) {
		return ErrEmailInvalid
	}

	if p.TotalExpenditureLimit.Valid && p.TotalExpenditureLimit.Decimal.IsNegative() {
		return ErrLimitNegative
	}

	return nil
}
