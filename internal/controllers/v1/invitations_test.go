package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/test"
)

func (suite *TestSuiteStandard) invite(group models.Group, email string) models.GroupInvitation {
	r := suite.request(suite.alice, http.MethodPost, fmt.Sprintf("/groups/%s/invitations", group.ID), v1.InvitationEditable{Email: email})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &r)

	var invitation v1.Response[models.GroupInvitation]
	test.DecodeResponse(suite.T(), &r, &invitation)
	return invitation.Data
}

func (suite *TestSuiteStandard) TestInvitationsAccept() {
	group := suite.createGroup(suite.alice)
	invitation := suite.invite(group, " Bob@Example.com ")
	suite.Assert().Equal("bob@example.com", invitation.InvitedEmail)
	suite.Assert().Equal(models.InvitationPending, invitation.Status)

	r := suite.request(suite.bob, http.MethodGet, "/invitations", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var pending v1.Response[[]models.GroupInvitation]
	test.DecodeResponse(suite.T(), &r, &pending)
	suite.Require().Len(pending.Data, 1)
	suite.Assert().Equal(invitation.ID, pending.Data[0].ID)

	r = suite.request(suite.carol, http.MethodPost, fmt.Sprintf("/invitations/%s/accept", invitation.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	for range 2 {
		r = suite.request(suite.bob, http.MethodPost, fmt.Sprintf("/invitations/%s/accept", invitation.ID), nil)
		test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	}

	var accepted v1.Response[models.GroupInvitation]
	test.DecodeResponse(suite.T(), &r, &accepted)
	suite.Assert().Equal(models.InvitationAccepted, accepted.Data.Status)

	r = suite.request(suite.bob, http.MethodPost, fmt.Sprintf("/invitations/%s/decline", invitation.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)

	r = suite.request(suite.bob, http.MethodGet, fmt.Sprintf("/groups/%s/members", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var members v1.Response[[]models.GroupMember]
	test.DecodeResponse(suite.T(), &r, &members)
	suite.Assert().Len(members.Data, 2)

	// Members cannot be invited again
	r = suite.request(suite.alice, http.MethodPost, fmt.Sprintf("/groups/%s/invitations", group.ID), v1.InvitationEditable{Email: suite.bob.Email})
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)
}

func (suite *TestSuiteStandard) TestInvitationsDecline() {
	group := suite.createGroup(suite.alice)
	invitation := suite.invite(group, suite.bob.Email)

	r := suite.request(suite.alice, http.MethodPost, fmt.Sprintf("/groups/%s/invitations", group.ID), v1.InvitationEditable{Email: suite.bob.Email})
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)

	r = suite.request(suite.bob, http.MethodPost, fmt.Sprintf("/invitations/%s/decline", invitation.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	r = suite.request(suite.bob, http.MethodPost, fmt.Sprintf("/invitations/%s/accept", invitation.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &r)

	r = suite.request(suite.bob, http.MethodGet, "/groups/"+group.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)
}

func (suite *TestSuiteStandard) TestInvitationsCreateErrors() {
	group := suite.createGroup(suite.alice)

	r := suite.request(suite.alice, http.MethodPost, fmt.Sprintf("/groups/%s/invitations", group.ID), v1.InvitationEditable{Email: "not an email"})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)

	r = suite.request(suite.carol, http.MethodPost, fmt.Sprintf("/groups/%s/invitations", group.ID), v1.InvitationEditable{Email: suite.bob.Email})
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.carol, http.MethodGet, fmt.Sprintf("/groups/%s/invitations", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)
}

func (suite *TestSuiteStandard) TestInvitationsRevoke() {
	group := suite.createGroup(suite.alice)
	invitation := suite.invite(group, suite.carol.Email)

	r := suite.request(suite.alice, http.MethodGet, fmt.Sprintf("/groups/%s/invitations", group.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var sent v1.Response[[]models.GroupInvitation]
	test.DecodeResponse(suite.T(), &r, &sent)
	suite.Require().Len(sent.Data, 1)

	r = suite.request(suite.bob, http.MethodDelete, "/invitations/"+invitation.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, &r)

	r = suite.request(suite.alice, http.MethodDelete, "/invitations/"+invitation.ID.String(), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = suite.request(suite.carol, http.MethodPost, fmt.Sprintf("/invitations/%s/accept", invitation.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}
