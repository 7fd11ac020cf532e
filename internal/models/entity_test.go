package models_test

import (
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGroupTrimAndValidate() {
	g := suite.createTestGroup(models.Group{Name: "  Trip  ", Description: " Lisbon "})
	suite.Assert().Equal("Trip", g.Name)
	suite.Assert().Equal("Lisbon", g.Description)

	err := models.DB.Create(&models.Group{Name: "   ", CreatedBy: uuid.New()}).Error
	suite.Assert().ErrorIs(err, models.ErrGroupNameEmpty)

	err = models.DB.Create(&models.Group{Name: "x", CreatedBy: uuid.New(), TotalExpenditureLimit: decimal.NewNullDecimal(decimal.NewFromInt(-5))}).Error
	suite.Assert().ErrorIs(err, models.ErrLimitNegative)
}

func (suite *TestSuiteStandard) TestGroupMemberDefaults() {
	g := suite.createTestGroup(models.Group{})
	m := models.GroupMember{GroupID: g.ID, UserID: uuid.New()}
	suite.Require().Nil(models.DB.Create(&m).Error)
	suite.Assert().Equal(models.RoleMember, m.Role)
	suite.Assert().False(m.JoinedAt.IsZero())

	err := models.DB.Create(&models.GroupMember{GroupID: g.ID, UserID: uuid.New(), Role: "owner"}).Error
	suite.Assert().ErrorIs(err, models.ErrRoleInvalid)
}

func (suite *TestSuiteStandard) TestGroupInvitationDefaults() {
	g := suite.createTestGroup(models.Group{})
	nilID := uuid.Nil
	i := models.GroupInvitation{GroupID: g.ID, InvitedBy: g.CreatedBy, InvitedEmail: " Bob@Example.com", InvitedUserID: &nilID}
	suite.Require().Nil(models.DB.Create(&i).Error)
	suite.Assert().Equal("bob@example.com", i.InvitedEmail)
	suite.Assert().Equal(models.InvitationPending, i.Status)
	suite.Assert().Nil(i.InvitedUserID)

	err := models.DB.Create(&models.GroupInvitation{GroupID: g.ID, InvitedEmail: "not an email"}).Error
	suite.Assert().ErrorIs(err, models.ErrEmailInvalid)
}

func (suite *TestSuiteStandard) TestCategoryDefaults() {
	c := suite.createTestCategory(models.Category{Name: " Rent "})
	suite.Assert().Equal("Rent", c.Name)
	suite.Assert().Equal(models.TransactionTypeExpense, c.Type)
	suite.Assert().NotEmpty(c.Color)

	err := models.DB.Create(&models.Category{OwnerUserID: uuid.New(), Name: "Salary", Type: "gift"}).Error
	suite.Assert().ErrorIs(err, models.ErrTransactionTypeInvalid)

	err = models.DB.Create(&models.Category{OwnerUserID: uuid.New()}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameEmpty)
}

func (suite *TestSuiteStandard) TestTransactionValidation() {
	nilID := uuid.Nil
	t := suite.createTestTransaction(models.Transaction{Note: " Lunch ", CategoryID: &nilID, GroupID: &nilID})
	suite.Assert().Equal("Lunch", t.Note)
	suite.Assert().Nil(t.CategoryID)
	suite.Assert().True(t.IsPersonal())

	err := models.DB.Create(&models.Transaction{UserID: uuid.New(), Amount: decimal.Zero}).Error
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	err = models.DB.Create(&models.Transaction{UserID: uuid.New(), Amount: decimal.NewFromInt(-3)}).Error
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestTransactionUpdateValidates() {
	t := suite.createTestTransaction(models.Transaction{})
	t.Amount = decimal.Zero
	suite.Assert().ErrorIs(models.DB.Save(&t).Error, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestGroupBudgetPreloadsCategory() {
	g := suite.createTestGroup(models.Group{})
	c := suite.createTestCategory(models.Category{OwnerUserID: g.CreatedBy})

	b := models.GroupBudget{GroupID: g.ID, CategoryID: c.ID, Amount: decimal.NewFromInt(500), CreatedBy: g.CreatedBy}
	suite.Require().Nil(models.DB.Create(&b).Error)

	var loaded models.GroupBudget
	suite.Require().Nil(models.DB.Preload("Category").First(&loaded, b.ID).Error)
	suite.Assert().Equal("Food", loaded.Category.Name)
	suite.Assert().True(loaded.Amount.Equal(decimal.NewFromInt(500)))
}
