package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/types"
	"github.com/ledgerly/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	category := suite.createCategory(suite.alice, "Food")

	transaction := suite.createTransaction(suite.alice, v1.TransactionEditable{
		CategoryID: &category.ID,
		Amount:     decimal.NewFromFloat(14.99),
		Note:       " Lunch ",
	})

	suite.Assert().Equal(suite.alice.ID, transaction.UserID)
	suite.Assert().Equal(models.TransactionTypeExpense, transaction.Type, "type defaults to expense")
	suite.Assert().True(types.NewDate(2024, 4, 2).Equal(transaction.Date), "date defaults to today")
	suite.Assert().Equal("Lunch", transaction.Note)
	suite.Assert().True(transaction.Amount.Equal(decimal.NewFromFloat(14.99)))
}

func (suite *TestSuiteStandard) TestTransactionsCreateErrors() {
	group := suite.createGroup(suite.alice)
	bobs := suite.createCategory(suite.bob, "Food")

	tests := []struct {
		name   string
		data   any
		status int
	}{
		{"Zero amount", v1.TransactionEditable{Amount: decimal.Zero}, http.StatusBadRequest},
		{"Negative amount", v1.TransactionEditable{Amount: decimal.NewFromInt(-3)}, http.StatusBadRequest},
		{"Bad type", v1.TransactionEditable{Amount: decimal.NewFromInt(3), Type: "transfer"}, http.StatusBadRequest},
		{"Foreign category", v1.TransactionEditable{Amount: decimal.NewFromInt(3), CategoryID: &bobs.ID}, http.StatusBadRequest},
		{"Not a member", v1.TransactionEditable{Amount: decimal.NewFromInt(3), GroupID: &group.ID}, http.StatusForbidden},
		{"Broken body", `{"amount": }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(suite.carol, http.MethodPost, "/transactions", tt.data)
			test.AssertHTTPStatus(suite.T(), tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsVisibility() {
	group := suite.createGroup(suite.alice, suite.bob)

	personal := suite.createTransaction(suite.alice, v1.TransactionEditable{Amount: decimal.NewFromInt(5)})
	shared := suite.createTransaction(suite.alice, v1.TransactionEditable{Amount: decimal.NewFromInt(7), GroupID: &group.ID})

	r := suite.request(suite.bob, http.MethodGet, "/transactions/"+shared.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	r = suite.request(suite.bob, http.MethodGet, "/transactions/"+personal.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.bob, http.MethodGet, "/transactions/"+uuid.New().String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)

	r = suite.request(suite.bob, http.MethodGet, "/transactions", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var transactions v1.Response[[]models.Transaction]
	test.DecodeResponse(suite.T(), &r, &transactions)
	suite.Require().Len(transactions.Data, 1)
	suite.Assert().Equal(shared.ID, transactions.Data[0].ID)

	r = suite.request(suite.carol, http.MethodGet, fmt.Sprintf("/groups/%s/transactions", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.bob, http.MethodGet, fmt.Sprintf("/groups/%s/transactions", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	test.DecodeResponse(suite.T(), &r, &transactions)
	suite.Assert().Len(transactions.Data, 1)

	// Members read but do not write others' transactions
	r = suite.request(suite.bob, http.MethodPatch, "/transactions/"+shared.ID.String(), map[string]any{"note": "mine"})
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.bob, http.MethodDelete, "/transactions/"+shared.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)
}

func (suite *TestSuiteStandard) TestTransactionsFilter() {
	food := suite.createCategory(suite.alice, "Food")
	rent := suite.createCategory(suite.alice, "Rent")

	suite.createTransaction(suite.alice, v1.TransactionEditable{Amount: decimal.NewFromInt(12), CategoryID: &food.ID, Note: "Lunch with Bob", Date: types.NewDate(2024, 4, 1)})
	suite.createTransaction(suite.alice, v1.TransactionEditable{Amount: decimal.NewFromInt(800), CategoryID: &rent.ID, Note: "April rent", Date: types.NewDate(2024, 4, 1)})
	suite.createTransaction(suite.alice, v1.TransactionEditable{Amount: decimal.NewFromInt(2000), Type: models.TransactionTypeIncome, Note: "Salary", Date: types.NewDate(2024, 3, 28)})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Category", "category=" + food.ID.String(), 1},
		{"Type", "type=income", 1},
		{"From", "from=2024-04-01", 2},
		{"Until", "until=2024-03-31", 1},
		{"Range", "from=2024-03-01&until=2024-04-30", 3},
		{"Note", "note=*rent*", 1},
		{"Note case sensitive", "note=*Rent*", 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(suite.alice, http.MethodGet, "/transactions?"+tt.query, nil)
			test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

			var transactions v1.Response[[]models.Transaction]
			test.DecodeResponse(suite.T(), &r, &transactions)
			suite.Assert().Len(transactions.Data, tt.len)
		})
	}

	r := suite.request(suite.alice, http.MethodGet, "/transactions?from=yesterday", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodGet, "/transactions?group=nope", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestTransactionsUpdateAndDelete() {
	group := suite.createGroup(suite.alice, suite.bob)
	transaction := suite.createTransaction(suite.alice, v1.TransactionEditable{Amount: decimal.NewFromInt(5), Note: "Coffee"})
	path := "/transactions/" + transaction.ID.String()

	r := suite.request(suite.alice, http.MethodPatch, path, map[string]any{"groupId": group.ID, "amount": "6.5"})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var updated v1.Response[models.Transaction]
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Require().NotNil(updated.Data.GroupID)
	suite.Assert().Equal(group.ID, *updated.Data.GroupID)
	suite.Assert().True(updated.Data.Amount.Equal(decimal.RequireFromString("6.5")))
	suite.Assert().Equal("Coffee", updated.Data.Note, "unset fields are kept")

	r = suite.request(suite.bob, http.MethodGet, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	r = suite.request(suite.alice, http.MethodPatch, path, map[string]any{"groupId": nil})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	r = suite.request(suite.bob, http.MethodGet, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodPatch, path, map[string]any{"amount": 0})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodDelete, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodGet, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}
