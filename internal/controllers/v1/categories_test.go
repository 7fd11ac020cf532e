package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCategories() {
	food := suite.createCategory(suite.alice, "Food")
	suite.Assert().Equal(suite.alice.ID, food.OwnerUserID)

	path := "/categories/" + food.ID.String()

	r := suite.request(suite.alice, http.MethodPatch, path, map[string]any{"color": "#22c55e"})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var updated v1.Response[models.Category]
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Food", updated.Data.Name)
	suite.Assert().Equal("#22c55e", updated.Data.Color)

	r = suite.request(suite.bob, http.MethodGet, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.bob, http.MethodPatch, path, map[string]any{"name": "Mine"})
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodPost, "/categories", v1.CategoryEditable{})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodGet, "/categories", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var categories v1.Response[[]models.Category]
	test.DecodeResponse(suite.T(), &r, &categories)
	suite.Assert().Len(categories.Data, 1)

	r = suite.request(suite.alice, http.MethodDelete, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodGet, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestCategoriesSharedThroughGroup() {
	group := suite.createGroup(suite.alice, suite.bob)
	food := suite.createCategory(suite.alice, "Food")
	suite.createTransaction(suite.alice, v1.TransactionEditable{CategoryID: &food.ID, GroupID: &group.ID, Amount: decimal.NewFromInt(3)})

	r := suite.request(suite.bob, http.MethodGet, "/categories/"+food.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	r = suite.request(suite.alice, http.MethodPost, fmt.Sprintf("/groups/%s/budgets", group.ID), v1.LimitEditable{CategoryID: food.ID, Amount: decimal.NewFromInt(10)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	r = suite.request(suite.alice, http.MethodDelete, "/categories/"+food.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)
}

func (suite *TestSuiteStandard) TestProfile() {
	r := suite.request(suite.alice, http.MethodGet, "/profile", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var profile v1.Response[models.Profile]
	test.DecodeResponse(suite.T(), &r, &profile)
	suite.Assert().Equal(suite.alice.ID, profile.Data.ID)
	suite.Assert().Equal(suite.alice.Email, profile.Data.Email)
	suite.Assert().False(profile.Data.TotalExpenditureLimit.Valid)

	r = suite.request(suite.alice, http.MethodPut, "/profile/limit", v1.AggregateLimitEditable{Amount: decimal.NewFromInt(120)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	test.DecodeResponse(suite.T(), &r, &profile)
	suite.Require().True(profile.Data.TotalExpenditureLimit.Valid)
	suite.Assert().True(profile.Data.TotalExpenditureLimit.Decimal.Equal(decimal.NewFromInt(120)))

	r = suite.request(suite.alice, http.MethodPut, "/profile/limit", v1.AggregateLimitEditable{Amount: decimal.NewFromInt(-5)})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodDelete, "/profile/limit", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodGet, "/profile", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	test.DecodeResponse(suite.T(), &r, &profile)
	suite.Assert().False(profile.Data.TotalExpenditureLimit.Valid)
}
