package v1_test

import (
	"net/http"

	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/test"
)

func (suite *TestSuiteStandard) TestGetV1() {
	r := suite.request(suite.alice, http.MethodGet, "", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.V1Response
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("http://example.com/v1/groups", response.Links.Groups)
	suite.Assert().Equal("http://example.com/v1/events", response.Links.Events)
}

func (suite *TestSuiteStandard) TestUnauthenticated() {
	r := test.Request(suite.T(), suite.engine, http.MethodGet, "http://example.com/v1/groups", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, &r)
}

func (suite *TestSuiteStandard) TestOptions() {
	tests := []struct {
		path  string
		allow string
	}{
		{"", "GET"},
		{"/groups", "GET, POST"},
		{"/groups/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4", "GET, PATCH, DELETE"},
		{"/groups/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4/members/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4", "PATCH, DELETE"},
		{"/groups/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4/limit", "PUT, DELETE"},
		{"/invitations/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4/accept", "POST"},
		{"/categories", "GET, POST"},
		{"/transactions/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4", "GET, PATCH, DELETE"},
		{"/budgets/0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4", "DELETE"},
		{"/budget-status", "GET"},
		{"/profile/limit", "PUT, DELETE"},
		{"/events", "GET"},
	}

	for _, tt := range tests {
		suite.Run(tt.path, func() {
			r := suite.request(suite.alice, http.MethodOptions, tt.path, nil)
			test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)
			suite.Assert().Equal(tt.allow, r.Header().Get("allow"))
		})
	}
}
