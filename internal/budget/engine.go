// Package budget computes spending against limits and stores the limits.
package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var hundred = decimal.NewFromInt(100)

// Status is the spending of one day measured against one limit.
type Status struct {
	BudgetID     *uuid.UUID      `json:"budgetId" example:"65392deb-5e92-4268-b114-297faad6cdce"`       // nil for the aggregate limit
	CategoryID   *uuid.UUID      `json:"categoryId" example:"2e2b1f7c-9a0d-4d1e-8dc0-4e3b0f4b9a77"`     // nil for the aggregate limit
	CategoryName string          `json:"categoryName" example:"Food"`                                   // empty for the aggregate limit
	Limit        decimal.Decimal `json:"limit" example:"500"`
	Spent        decimal.Decimal `json:"spent" example:"550"`
	Percentage   decimal.Decimal `json:"percentage" example:"110"`
	IsOverBudget bool            `json:"isOverBudget" example:"true"`
	Overspend    decimal.Decimal `json:"overspend" example:"50"`
}

// Report lists the status of all active limits of a scope for a day.
type Report struct {
	Date       types.Date `json:"date" swaggertype:"string" example:"2024-04-02"`
	Categories []Status   `json:"categories"`
	Aggregate  *Status    `json:"aggregate"` // nil when no aggregate limit is set
}

// FoldName returns the key under which category names are compared.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Evaluate measures spent against limit.
//
// A limit of zero yields a percentage of zero.
func Evaluate(limit, spent decimal.Decimal) Status {
	s := Status{
		Limit:      limit,
		Spent:      spent,
		Percentage: decimal.Zero,
		Overspend:  decimal.Zero,
	}

	if limit.IsPositive() {
		s.Percentage = spent.Div(limit).Mul(hundred)
	}

	s.IsOverBudget = s.Percentage.GreaterThan(hundred)
	if s.IsOverBudget {
		s.Overspend = spent.Sub(limit)
	}

	s.Percentage = s.Percentage.Round(2)
	return s
}

// Matcher selects the transactions counted against a limit.
type Matcher func(models.Transaction) bool

// All matches every transaction. It is used for aggregate limits.
func All(models.Transaction) bool {
	return true
}

// InCategories matches transactions whose category is in ids.
// Transactions without a category never match.
func InCategories(ids ...uuid.UUID) Matcher {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return func(t models.Transaction) bool {
		if t.CategoryID == nil {
			return false
		}

		_, ok := set[*t.CategoryID]
		return ok
	}
}

// Spend sums the expenses on day that match.
func Spend(transactions []models.Transaction, day types.Date, match Matcher) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range transactions {
		if t.Type != models.TransactionTypeExpense || !t.Date.Equal(day) || !match(t) {
			continue
		}
		sum = sum.Add(t.Amount)
	}

	return sum
}

// SameName returns the IDs of all categories whose name folds to the same
// key as name.
func SameName(categories []models.Category, name string) []uuid.UUID {
	key := FoldName(name)

	var ids []uuid.UUID
	for _, c := range categories {
		if FoldName(c.Name) == key {
			ids = append(ids, c.ID)
		}
	}

	return ids
}
