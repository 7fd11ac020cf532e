package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/budget"
	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) setBudget(categoryID uuid.UUID, amount string) models.Budget {
	r := suite.request(suite.alice, http.MethodPost, "/budgets", v1.LimitEditable{CategoryID: categoryID, Amount: decimal.RequireFromString(amount)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var b v1.Response[models.Budget]
	test.DecodeResponse(suite.T(), &r, &b)
	return b.Data
}

func (suite *TestSuiteStandard) TestBudgetsPersonal() {
	food := suite.createCategory(suite.alice, "Food")

	first := suite.setBudget(food.ID, "20")
	second := suite.setBudget(food.ID, "25")
	suite.Assert().Equal(first.ID, second.ID, "the limit is replaced in place")

	r := suite.request(suite.alice, http.MethodGet, "/budgets", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var budgets v1.Response[[]models.Budget]
	test.DecodeResponse(suite.T(), &r, &budgets)
	suite.Require().Len(budgets.Data, 1)
	suite.Assert().True(budgets.Data[0].Amount.Equal(decimal.NewFromInt(25)))

	suite.createTransaction(suite.alice, v1.TransactionEditable{CategoryID: &food.ID, Amount: decimal.NewFromInt(30)})

	r = suite.request(suite.alice, http.MethodGet, "/budget-status", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var report v1.Response[budget.Report]
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Require().Len(report.Data.Categories, 1)
	status := report.Data.Categories[0]
	suite.Assert().Equal("Food", status.CategoryName)
	suite.Assert().True(status.IsOverBudget)
	suite.Assert().True(status.Overspend.Equal(decimal.NewFromInt(5)), status.Overspend.String())
	suite.Assert().True(status.Percentage.Equal(decimal.NewFromInt(120)), status.Percentage.String())
	suite.Assert().Nil(report.Data.Aggregate)

	r = suite.request(suite.bob, http.MethodDelete, "/budgets/"+first.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodDelete, "/budgets/"+first.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodDelete, "/budgets/"+first.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestBudgetsPersonalErrors() {
	food := suite.createCategory(suite.alice, "Food")
	bobs := suite.createCategory(suite.bob, "Food")

	r := suite.request(suite.alice, http.MethodPost, "/budgets", v1.LimitEditable{CategoryID: food.ID, Amount: decimal.NewFromInt(-1)})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodPost, "/budgets", v1.LimitEditable{CategoryID: bobs.ID, Amount: decimal.NewFromInt(10)})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestBudgetsGroup() {
	group := suite.createGroup(suite.alice, suite.bob)
	alices := suite.createCategory(suite.alice, "Groceries")
	bobs := suite.createCategory(suite.bob, "groceries")

	r := suite.request(suite.bob, http.MethodPost, fmt.Sprintf("/groups/%s/budgets", group.ID), v1.LimitEditable{CategoryID: bobs.ID, Amount: decimal.NewFromInt(50)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var created v1.Response[models.GroupBudget]
	test.DecodeResponse(suite.T(), &r, &created)

	// Same folded name, same limit
	r = suite.request(suite.alice, http.MethodPost, fmt.Sprintf("/groups/%s/budgets", group.ID), v1.LimitEditable{CategoryID: alices.ID, Amount: decimal.NewFromInt(40)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var replaced v1.Response[models.GroupBudget]
	test.DecodeResponse(suite.T(), &r, &replaced)
	suite.Assert().Equal(created.Data.ID, replaced.Data.ID)

	suite.createTransaction(suite.alice, v1.TransactionEditable{CategoryID: &alices.ID, GroupID: &group.ID, Amount: decimal.NewFromInt(25)})
	suite.createTransaction(suite.bob, v1.TransactionEditable{CategoryID: &bobs.ID, GroupID: &group.ID, Amount: decimal.NewFromInt(25)})
	suite.createTransaction(suite.bob, v1.TransactionEditable{CategoryID: &bobs.ID, Amount: decimal.NewFromInt(100)})

	r = suite.request(suite.alice, http.MethodPut, fmt.Sprintf("/groups/%s/limit", group.ID), v1.AggregateLimitEditable{Amount: decimal.NewFromInt(100)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var g v1.Response[models.Group]
	test.DecodeResponse(suite.T(), &r, &g)
	suite.Require().True(g.Data.TotalExpenditureLimit.Valid)

	r = suite.request(suite.bob, http.MethodGet, fmt.Sprintf("/groups/%s/budget-status", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var report v1.Response[budget.Report]
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Require().Len(report.Data.Categories, 1)
	suite.Assert().True(report.Data.Categories[0].Spent.Equal(decimal.NewFromInt(50)), "personal transactions do not count")
	suite.Assert().True(report.Data.Categories[0].IsOverBudget)
	suite.Require().NotNil(report.Data.Aggregate)
	suite.Assert().False(report.Data.Aggregate.IsOverBudget)
	suite.Assert().True(report.Data.Aggregate.Percentage.Equal(decimal.NewFromInt(50)))

	r = suite.request(suite.carol, http.MethodGet, fmt.Sprintf("/groups/%s/budgets", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodDelete, fmt.Sprintf("/groups/%s/limit", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodDelete, fmt.Sprintf("/groups/%s/budgets/%s", group.ID, created.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodGet, fmt.Sprintf("/groups/%s/budget-status", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Assert().Len(report.Data.Categories, 0)
	suite.Assert().Nil(report.Data.Aggregate)
}
