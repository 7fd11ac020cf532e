package policy_test

import (
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/ledgerly/backend/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestVisibleGroups() {
	other := models.Group{Name: "Other", CreatedBy: suite.outsider.ID}
	suite.Require().Nil(models.DB.Create(&other).Error)

	var groups []models.Group
	suite.Require().Nil(models.DB.Scopes(policy.VisibleGroups(suite.member)).Find(&groups).Error)
	suite.Require().Len(groups, 1)
	suite.Assert().Equal(suite.group.ID, groups[0].ID)

	// The creator sees groups without a member row
	suite.Require().Nil(models.DB.Scopes(policy.VisibleGroups(suite.outsider)).Find(&groups).Error)
	suite.Require().Len(groups, 1)
	suite.Assert().Equal(other.ID, groups[0].ID)
}

func (suite *TestSuiteStandard) TestVisibleTransactions() {
	groupID := suite.group.ID
	day := types.NewDate(2024, 4, 2)

	personal := models.Transaction{UserID: suite.member.ID, Amount: decimal.NewFromInt(5), Date: day}
	suite.Require().Nil(models.DB.Create(&personal).Error)

	var visible []models.Transaction
	suite.Require().Nil(models.DB.Scopes(policy.VisibleTransactions(suite.admin)).Find(&visible).Error)
	suite.Assert().Len(visible, 0, "personal transactions are private")

	personal.GroupID = &groupID
	suite.Require().Nil(models.DB.Save(&personal).Error)

	suite.Require().Nil(models.DB.Scopes(policy.VisibleTransactions(suite.admin)).Find(&visible).Error)
	suite.Assert().Len(visible, 1, "group transactions are visible to all members")

	suite.Require().Nil(models.DB.Scopes(policy.VisibleTransactions(suite.outsider)).Find(&visible).Error)
	suite.Assert().Len(visible, 0)
}

func (suite *TestSuiteStandard) TestVisibleCategories() {
	own := models.Category{OwnerUserID: suite.admin.ID, Name: "Rent"}
	shared := models.Category{OwnerUserID: suite.member.ID, Name: "Food"}
	private := models.Category{OwnerUserID: suite.member.ID, Name: "Hobby"}
	for _, c := range []*models.Category{&own, &shared, &private} {
		suite.Require().Nil(models.DB.Create(c).Error)
	}

	suite.Require().Nil(models.DB.Create(&models.GroupBudget{
		GroupID:    suite.group.ID,
		CategoryID: shared.ID,
		Amount:     decimal.NewFromInt(100),
		CreatedBy:  suite.member.ID,
	}).Error)

	var ids []uuid.UUID
	suite.Require().Nil(models.DB.Model(&models.Category{}).Scopes(policy.VisibleCategories(suite.admin)).Pluck("id", &ids).Error)
	suite.Assert().ElementsMatch([]uuid.UUID{own.ID, shared.ID}, ids)
}

func (suite *TestSuiteStandard) TestVisibleInvitations() {
	invitee := suite.outsider.ID
	suite.Require().Nil(models.DB.Create(&models.GroupInvitation{GroupID: suite.group.ID, InvitedBy: suite.member.ID, InvitedEmail: "a@example.com", InvitedUserID: &invitee}).Error)
	suite.Require().Nil(models.DB.Create(&models.GroupInvitation{GroupID: suite.group.ID, InvitedBy: suite.admin.ID, InvitedEmail: "b@example.com"}).Error)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.GroupInvitation{}).Scopes(policy.VisibleInvitations(suite.outsider)).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)

	suite.Require().Nil(models.DB.Model(&models.GroupInvitation{}).Scopes(policy.VisibleInvitations(suite.creator)).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}
