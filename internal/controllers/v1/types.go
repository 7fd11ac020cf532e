package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/types"
	ezuuid "github.com/ledgerly/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type URIID struct {
	ID ezuuid.UUID `uri:"id"`
}

type URIMember struct {
	ID       ezuuid.UUID `uri:"id"`
	MemberID ezuuid.UUID `uri:"memberId"`
}

type URIBudget struct {
	ID       ezuuid.UUID `uri:"id"`
	BudgetID ezuuid.UUID `uri:"budgetId"`
}

// bindURI binds the path parameters. It writes the error response and
// returns false if they are invalid.
func bindURI(c *gin.Context, uri any) bool {
	if err := c.ShouldBindUri(uri); err != nil {
		httputil.NewError(c, httputil.ErrInvalidUUID)
		return false
	}

	return true
}

type GroupEditable struct {
	Name        string `json:"name" example:"Flat share"`
	Description string `json:"description" example:"Groceries and utilities for the flat"`
}

func (e GroupEditable) model() models.Group {
	return models.Group{Name: e.Name, Description: e.Description}
}

type MemberEditable struct {
	Role models.Role `json:"role" example:"admin"`
}

type InvitationEditable struct {
	Email string `json:"email" example:"jane@example.com"`
}

type CategoryEditable struct {
	Name  string                 `json:"name" example:"Food"`
	Type  models.TransactionType `json:"type" example:"expense"`
	Color string                 `json:"color" example:"#ef4444"`
	Icon  string                 `json:"icon" example:"utensils"`
}

func (e CategoryEditable) model() models.Category {
	return models.Category{Name: e.Name, Type: e.Type, Color: e.Color, Icon: e.Icon}
}

type TransactionEditable struct {
	CategoryID *uuid.UUID             `json:"categoryId" example:"2e2b1f7c-9a0d-4d1e-8dc0-4e3b0f4b9a77"`
	GroupID    *uuid.UUID             `json:"groupId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Amount     decimal.Decimal        `json:"amount" example:"14.99"`
	Type       models.TransactionType `json:"type" example:"expense"`
	Date       types.Date             `json:"date" swaggertype:"string" example:"2024-04-02"` // Defaults to today
	Note       string                 `json:"note" example:"Lunch"`
}

func (e TransactionEditable) model() models.Transaction {
	return models.Transaction{
		CategoryID: e.CategoryID,
		GroupID:    e.GroupID,
		Amount:     e.Amount,
		Type:       e.Type,
		Date:       e.Date,
		Note:       e.Note,
	}
}

type TransactionQueryFilter struct {
	Group    ezuuid.UUID `form:"group"`    // Only transactions of this group
	Category ezuuid.UUID `form:"category"` // Only transactions in this category
	Type     string      `form:"type"`     // income or expense
	From     types.Date  `form:"from"`     // First day, inclusive
	Until    types.Date  `form:"until"`    // Last day, inclusive
	Note     string      `form:"note"`     // Glob pattern for the note, e.g. "*lunch*"
}

// LimitEditable sets the daily limit of a category.
type LimitEditable struct {
	CategoryID uuid.UUID       `json:"categoryId" example:"2e2b1f7c-9a0d-4d1e-8dc0-4e3b0f4b9a77"`
	Amount     decimal.Decimal `json:"amount" example:"25"`
}

// AggregateLimitEditable sets a daily limit over all expenses.
type AggregateLimitEditable struct {
	Amount decimal.Decimal `json:"amount" example:"120"`
}
