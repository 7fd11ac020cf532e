package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/service"
	"github.com/ledgerly/backend/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestTransactionCreate() {
	ctx := context.Background()
	group := suite.createGroup()
	food := suite.createCategory(suite.bob, "Food")

	sub := suite.bus.Subscribe(events.GroupScope(group.ID))
	defer sub.Close()

	t, err := suite.transactions.Create(ctx, suite.bob, models.Transaction{Amount: decimal.NewFromInt(12), CategoryID: &food.ID, GroupID: &group.ID, Note: " Lunch "})
	suite.Require().Nil(err)
	suite.Assert().Equal(suite.bob.ID, t.UserID)
	suite.Assert().Equal(suite.today, t.Date, "the date defaults to today")
	suite.Assert().Equal("Lunch", t.Note)

	e, err := sub.Next(ctx)
	suite.Require().Nil(err)
	suite.Assert().Equal(events.TransactionCreated, e.Kind)
	suite.Assert().Equal(t.ID, e.ResourceID)
}

func (suite *TestSuiteStandard) TestTransactionCreateErrors() {
	ctx := context.Background()
	group := suite.createGroup()
	food := suite.createCategory(suite.bob, "Food")

	tests := []struct {
		name        string
		transaction models.Transaction
		err         error
	}{
		{"Not a member", models.Transaction{Amount: decimal.NewFromInt(1), GroupID: &group.ID}, models.ErrUnauthorized},
		{"For somebody else", models.Transaction{Amount: decimal.NewFromInt(1), UserID: suite.bob.ID}, models.ErrUnauthorized},
		{"Foreign category", models.Transaction{Amount: decimal.NewFromInt(1), CategoryID: &food.ID}, models.ErrCategoryReference},
		{"Missing category", models.Transaction{Amount: decimal.NewFromInt(1), CategoryID: func() *uuid.UUID { id := uuid.New(); return &id }()}, models.ErrCategoryReference},
		{"Zero amount", models.Transaction{}, models.ErrAmountNotPositive},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.transactions.Create(ctx, suite.carol, tt.transaction)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionVisibility() {
	ctx := context.Background()
	group := suite.createGroup()
	personal := suite.createTransaction(suite.bob, nil, nil, "5")

	_, err := suite.transactions.Get(ctx, suite.bob, personal.ID)
	suite.Assert().Nil(err)

	_, err = suite.transactions.Get(ctx, suite.alice, personal.ID)
	suite.Assert().ErrorIs(err, models.ErrUnauthorized, "personal transactions are private")

	list, err := suite.transactions.List(ctx, suite.alice, service.TransactionFilter{})
	suite.Require().Nil(err)
	suite.Assert().Len(list, 0)

	// Moving it into the group shares it with all members
	_, err = suite.transactions.Update(ctx, suite.bob, personal.ID, models.Transaction{GroupID: &group.ID}, []string{"GroupID"})
	suite.Require().Nil(err)

	_, err = suite.transactions.Get(ctx, suite.alice, personal.ID)
	suite.Assert().Nil(err)

	_, err = suite.transactions.Get(ctx, suite.carol, personal.ID)
	suite.Assert().ErrorIs(err, models.ErrUnauthorized)

	list, err = suite.transactions.List(ctx, suite.alice, service.TransactionFilter{GroupID: &group.ID})
	suite.Require().Nil(err)
	suite.Assert().Len(list, 1)

	_, err = suite.transactions.List(ctx, suite.carol, service.TransactionFilter{GroupID: &group.ID})
	suite.Assert().ErrorIs(err, models.ErrUnauthorized)
}

func (suite *TestSuiteStandard) TestTransactionListFilters() {
	ctx := context.Background()
	food := suite.createCategory(suite.bob, "Food")

	lunch := suite.createTransaction(suite.bob, &food, nil, "12")
	suite.Require().Nil(models.DB.Model(&lunch).UpdateColumn("note", "Lunch at work").Error)

	yesterday := models.Transaction{UserID: suite.bob.ID, Amount: decimal.NewFromInt(50), Type: models.TransactionTypeIncome, Date: suite.today.AddDays(-1), Note: "Refund"}
	suite.Require().Nil(models.DB.Create(&yesterday).Error)

	tests := []struct {
		name   string
		filter service.TransactionFilter
		want   []uuid.UUID
	}{
		{"All", service.TransactionFilter{}, []uuid.UUID{lunch.ID, yesterday.ID}},
		{"Category", service.TransactionFilter{CategoryID: &food.ID}, []uuid.UUID{lunch.ID}},
		{"Type", service.TransactionFilter{Type: models.TransactionTypeIncome}, []uuid.UUID{yesterday.ID}},
		{"From", service.TransactionFilter{From: suite.today}, []uuid.UUID{lunch.ID}},
		{"Until", service.TransactionFilter{Until: suite.today.AddDays(-1)}, []uuid.UUID{yesterday.ID}},
		{"Range", service.TransactionFilter{From: types.NewDate(2024, 1, 1), Until: types.NewDate(2024, 3, 31)}, []uuid.UUID{}},
		{"Note", service.TransactionFilter{Note: "Lunch*"}, []uuid.UUID{lunch.ID}},
		{"Note no match", service.TransactionFilter{Note: "*dinner*"}, []uuid.UUID{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			list, err := suite.transactions.List(ctx, suite.bob, tt.filter)
			suite.Require().Nil(err)

			ids := make([]uuid.UUID, 0, len(list))
			for _, t := range list {
				ids = append(ids, t.ID)
			}
			suite.Assert().Equal(tt.want, ids)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionUpdate() {
	ctx := context.Background()
	group := suite.createGroup()
	t := suite.createTransaction(suite.bob, nil, &group, "5")

	_, err := suite.transactions.Update(ctx, suite.alice, t.ID, models.Transaction{Amount: decimal.NewFromInt(1)}, []string{"Amount"})
	suite.Assert().ErrorIs(err, models.ErrUnauthorized, "only the owner writes")

	_, err = suite.transactions.Update(ctx, suite.bob, t.ID, models.Transaction{}, []string{"Amount"})
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	other, err := suite.groups.Create(ctx, suite.carol, models.Group{Name: "Other"})
	suite.Require().Nil(err)
	_, err = suite.transactions.Update(ctx, suite.bob, t.ID, models.Transaction{GroupID: &other.ID}, []string{"GroupID"})
	suite.Assert().ErrorIs(err, models.ErrUnauthorized, "cannot move into a foreign group")

	groupEvents := suite.bus.Subscribe(events.GroupScope(group.ID))
	defer groupEvents.Close()
	userEvents := suite.bus.Subscribe(events.UserScope(suite.bob.ID))
	defer userEvents.Close()

	updated, err := suite.transactions.Update(ctx, suite.bob, t.ID, models.Transaction{Amount: decimal.NewFromInt(7), UserID: suite.alice.ID}, []string{"GroupID", "Amount", "UserID"})
	suite.Require().Nil(err)
	suite.Assert().Nil(updated.GroupID)
	suite.Assert().True(decimal.NewFromInt(7).Equal(updated.Amount))
	suite.Assert().Equal(suite.bob.ID, updated.UserID)

	for _, sub := range []*events.Subscription{groupEvents, userEvents} {
		e, err := sub.Next(ctx)
		suite.Require().Nil(err)
		suite.Assert().Equal(events.TransactionUpdated, e.Kind)
	}
}

func (suite *TestSuiteStandard) TestTransactionDelete() {
	ctx := context.Background()
	group := suite.createGroup()
	t := suite.createTransaction(suite.bob, nil, &group, "5")

	suite.Assert().ErrorIs(suite.transactions.Delete(ctx, suite.alice, t.ID), models.ErrUnauthorized)
	suite.Require().Nil(suite.transactions.Delete(ctx, suite.bob, t.ID))
	suite.Assert().ErrorIs(suite.transactions.Delete(ctx, suite.bob, t.ID), models.ErrResourceNotFound)
}
