package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/ledgerly/backend/test"
)

func (suite *TestSuiteStandard) TestGroupsCreateAndList() {
	group := suite.createGroup(suite.alice)
	suite.Assert().Equal("Flat", group.Name)
	suite.Assert().Equal(suite.alice.ID, group.CreatedBy)

	r := suite.request(suite.alice, http.MethodGet, "/groups", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var groups v1.Response[[]models.Group]
	test.DecodeResponse(suite.T(), &r, &groups)
	suite.Require().Len(groups.Data, 1)
	suite.Assert().Equal(group.ID, groups.Data[0].ID)

	r = suite.request(suite.bob, http.MethodGet, "/groups", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	test.DecodeResponse(suite.T(), &r, &groups)
	suite.Assert().Len(groups.Data, 0, "bob is not a member")

	r = suite.request(suite.alice, http.MethodGet, fmt.Sprintf("/groups/%s/members", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var members v1.Response[[]models.GroupMember]
	test.DecodeResponse(suite.T(), &r, &members)
	suite.Require().Len(members.Data, 1)
	suite.Assert().Equal(models.RoleAdmin, members.Data[0].Role)
}

func (suite *TestSuiteStandard) TestGroupsCreateInvalid() {
	r := suite.request(suite.alice, http.MethodPost, "/groups", v1.GroupEditable{Name: " "})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodPost, "/groups", `{"name": 1}`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.alice, http.MethodPost, "/groups", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestGroupsGet() {
	group := suite.createGroup(suite.alice, suite.bob)

	tests := []struct {
		name   string
		actor  string
		path   string
		status int
	}{
		{"Member", "bob", group.ID.String(), http.StatusOK},
		{"Outsider", "carol", group.ID.String(), http.StatusForbidden},
		{"Missing", "alice", uuid.New().String(), http.StatusNotFound},
		{"Invalid ID", "alice", "not-a-uuid", http.StatusBadRequest},
	}

	actors := map[string]policy.Actor{"alice": suite.alice, "bob": suite.bob, "carol": suite.carol}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(actors[tt.actor], http.MethodGet, "/groups/"+tt.path, nil)
			test.AssertHTTPStatus(suite.T(), tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestGroupsUpdate() {
	group := suite.createGroup(suite.alice, suite.bob)
	path := "/groups/" + group.ID.String()

	r := suite.request(suite.alice, http.MethodPatch, path, map[string]any{"description": "Rent and groceries"})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var updated v1.Response[models.Group]
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Flat", updated.Data.Name, "unset fields are kept")
	suite.Assert().Equal("Rent and groceries", updated.Data.Description)

	r = suite.request(suite.bob, http.MethodPatch, path, map[string]any{"name": "Mine"})
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodPatch, path, "")
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestGroupsDelete() {
	group := suite.createGroup(suite.alice, suite.bob)
	path := "/groups/" + group.ID.String()

	r := suite.request(suite.bob, http.MethodDelete, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodDelete, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.alice, http.MethodGet, path, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestMembers() {
	group := suite.createGroup(suite.alice, suite.bob, suite.carol)

	r := suite.request(suite.bob, http.MethodGet, fmt.Sprintf("/groups/%s/members", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var members v1.Response[[]models.GroupMember]
	test.DecodeResponse(suite.T(), &r, &members)
	suite.Require().Len(members.Data, 3)

	ids := map[uuid.UUID]uuid.UUID{}
	for _, m := range members.Data {
		ids[m.UserID] = m.ID
	}

	memberPath := func(user uuid.UUID) string {
		return fmt.Sprintf("/groups/%s/members/%s", group.ID, ids[user])
	}

	// Only admins change roles
	r = suite.request(suite.bob, http.MethodPatch, memberPath(suite.carol.ID), v1.MemberEditable{Role: models.RoleAdmin})
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodPatch, memberPath(suite.bob.ID), v1.MemberEditable{Role: models.RoleAdmin})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var member v1.Response[models.GroupMember]
	test.DecodeResponse(suite.T(), &r, &member)
	suite.Assert().Equal(models.RoleAdmin, member.Data.Role)

	r = suite.request(suite.alice, http.MethodPatch, memberPath(suite.bob.ID), v1.MemberEditable{Role: "owner"})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	// The creator stays
	r = suite.request(suite.bob, http.MethodPatch, memberPath(suite.alice.ID), v1.MemberEditable{Role: models.RoleMember})
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)

	r = suite.request(suite.bob, http.MethodDelete, memberPath(suite.alice.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)

	r = suite.request(suite.bob, http.MethodDelete, memberPath(suite.carol.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.carol, http.MethodGet, "/groups/"+group.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodDelete, fmt.Sprintf("/groups/%s/members/%s", group.ID, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}
