package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/ledgerly/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service stores personal and group limits and reports spending against them.
type Service struct {
	db       *gorm.DB
	bus      *events.Bus
	policy   policy.Evaluator
	clock    Clock
	location *time.Location
}

// NewService returns the budget service. Days are counted in location,
// UTC if it is nil.
func NewService(db *gorm.DB, bus *events.Bus, clock Clock, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		db:       db,
		bus:      bus,
		policy:   policy.New(db),
		clock:    clock,
		location: location,
	}
}

// Today returns the current day in the configured timezone.
func (s *Service) Today() types.Date {
	return Today(s.clock, s.location)
}

// newWindow returns the window of a limit created today.
func (s *Service) newWindow() models.Window {
	today := s.Today()
	return models.Window{
		Period:    models.PeriodDaily,
		StartDate: today,
		EndDate:   today.EndOfYear(),
	}
}

// ownCategory loads a category of the actor.
func ownCategory(tx *gorm.DB, actor policy.Actor, id uuid.UUID) (models.Category, error) {
	var category models.Category
	err := tx.First(&category, id).Error
	if errors.Is(err, models.ErrResourceNotFound) || (err == nil && category.OwnerUserID != actor.ID) {
		return models.Category{}, models.ErrCategoryReference
	}

	return category, err
}

// SetPersonalLimit sets the daily limit of one of the actor's categories.
//
// An active daily limit for the category is updated in place. Otherwise, a
// new limit is created that is active until the end of the current year.
func (s *Service) SetPersonalLimit(ctx context.Context, actor policy.Actor, categoryID uuid.UUID, amount decimal.Decimal) (b models.Budget, err error) {
	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := ownCategory(tx, actor, categoryID); err != nil {
				return err
			}

			var existing []models.Budget
			err := tx.Where("user_id = ? AND category_id = ? AND period = ?", actor.ID, categoryID, models.PeriodDaily).
				Order("created_at").
				Find(&existing).Error
			if err != nil {
				return err
			}

			today := s.Today()
			for _, candidate := range existing {
				if candidate.ActiveOn(today) {
					b = candidate
					break
				}
			}

			if b.ID == uuid.Nil {
				b = models.Budget{UserID: actor.ID, CategoryID: categoryID, Window: s.newWindow()}
			}

			if err := s.policy.OwnBudget(actor, b); err != nil {
				return err
			}

			b.Amount = amount
			return tx.Save(&b).Error
		})

		return []events.Event{events.ForUser(actor.ID, events.BudgetSet, b.ID)}, err
	})
	if err != nil {
		return models.Budget{}, err
	}

	log.Debug().Str("user", actor.ID.String()).Str("budget", b.ID.String()).Str("amount", amount.String()).Msg("set personal limit")
	return b, nil
}

// RemovePersonalLimit deletes a personal limit.
func (s *Service) RemovePersonalLimit(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var b models.Budget
			if err := tx.First(&b, id).Error; err != nil {
				return err
			}

			if err := s.policy.OwnBudget(actor, b); err != nil {
				return err
			}

			return tx.Delete(&b).Error
		})

		return []events.Event{events.ForUser(actor.ID, events.BudgetRemoved, id)}, err
	})
}

// ListPersonalLimits returns all personal limits of the actor.
func (s *Service) ListPersonalLimits(ctx context.Context, actor policy.Actor) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", actor.ID).
		Order("created_at").
		Find(&budgets).Error

	return budgets, err
}

// PersonalStatus reports today's personal spending against the actor's
// active limits. Only transactions without a group count.
func (s *Service) PersonalStatus(ctx context.Context, actor policy.Actor) (Report, error) {
	today := s.Today()
	db := s.db.WithContext(ctx)

	var budgets []models.Budget
	if err := db.Where("user_id = ?", actor.ID).Order("created_at").Find(&budgets).Error; err != nil {
		return Report{}, err
	}

	var categories []models.Category
	if err := db.Where("owner_user_id = ?", actor.ID).Find(&categories).Error; err != nil {
		return Report{}, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	var transactions []models.Transaction
	err := db.Where("user_id = ? AND group_id IS NULL AND type = ? AND date = ?", actor.ID, models.TransactionTypeExpense, today).
		Find(&transactions).Error
	if err != nil {
		return Report{}, err
	}

	report := Report{Date: today, Categories: make([]Status, 0)}
	for _, b := range budgets {
		if !b.ActiveOn(today) {
			continue
		}

		status := Evaluate(b.Amount, Spend(transactions, today, InCategories(b.CategoryID)))
		status.BudgetID = &b.ID
		status.CategoryID = &b.CategoryID
		status.CategoryName = names[b.CategoryID]
		report.Categories = append(report.Categories, status)
	}

	var profile models.Profile
	err = db.First(&profile, actor.ID).Error
	if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		return Report{}, err
	}

	if profile.TotalExpenditureLimit.Valid {
		aggregate := Evaluate(profile.TotalExpenditureLimit.Decimal, Spend(transactions, today, All))
		report.Aggregate = &aggregate
	}

	return report, nil
}

// loadGroup loads the group and checks that the actor may read its budgets.
func (s *Service) loadGroup(ctx context.Context, tx *gorm.DB, actor policy.Actor, groupID uuid.UUID) (models.Group, error) {
	var group models.Group
	if err := tx.First(&group, groupID).Error; err != nil {
		return models.Group{}, err
	}

	return group, s.policy.In(tx).ReadGroupBudgets(ctx, actor, groupID)
}

// SetGroupLimit sets the daily limit of a group for the name of one of the
// actor's categories.
//
// Group limits are identified by the folded category name. An active limit
// for the same name is updated in place, even if another member set it.
func (s *Service) SetGroupLimit(ctx context.Context, actor policy.Actor, groupID, categoryID uuid.UUID, amount decimal.Decimal) (b models.GroupBudget, err error) {
	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := s.loadGroup(ctx, tx, actor, groupID); err != nil {
				return err
			}

			category, err := ownCategory(tx, actor, categoryID)
			if err != nil {
				return err
			}

			var existing []models.GroupBudget
			err = tx.Preload("Category").
				Where("group_id = ? AND period = ?", groupID, models.PeriodDaily).
				Order("created_at").
				Find(&existing).Error
			if err != nil {
				return err
			}

			today := s.Today()
			key := FoldName(category.Name)
			for _, candidate := range existing {
				if candidate.ActiveOn(today) && FoldName(candidate.Category.Name) == key {
					b = candidate
					break
				}
			}

			if b.ID == uuid.Nil {
				b = models.GroupBudget{GroupID: groupID, CategoryID: categoryID, CreatedBy: actor.ID, Window: s.newWindow()}
				err = s.policy.In(tx).CreateGroupBudget(ctx, actor, b)
			} else {
				err = s.policy.In(tx).ModifyGroupBudget(ctx, actor, b)
			}
			if err != nil {
				return err
			}

			b.Amount = amount
			return tx.Omit(clause.Associations).Save(&b).Error
		})

		return []events.Event{events.ForGroup(groupID, events.GroupBudgetSet, b.ID)}, err
	})
	if err != nil {
		return models.GroupBudget{}, err
	}

	log.Debug().Str("group", groupID.String()).Str("budget", b.ID.String()).Str("amount", amount.String()).Msg("set group limit")
	return b, nil
}

// RemoveGroupLimit deletes a group limit.
func (s *Service) RemoveGroupLimit(ctx context.Context, actor policy.Actor, groupID, id uuid.UUID) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var b models.GroupBudget
			if err := tx.Where("group_id = ?", groupID).First(&b, id).Error; err != nil {
				return err
			}

			if err := s.policy.In(tx).ModifyGroupBudget(ctx, actor, b); err != nil {
				return err
			}

			return tx.Delete(&b).Error
		})

		return []events.Event{events.ForGroup(groupID, events.GroupBudgetRemoved, id)}, err
	})
}

// ListGroupLimits returns all limits of a group.
func (s *Service) ListGroupLimits(ctx context.Context, actor policy.Actor, groupID uuid.UUID) ([]models.GroupBudget, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.loadGroup(ctx, db, actor, groupID); err != nil {
		return nil, err
	}

	budgets := make([]models.GroupBudget, 0)
	err := db.Preload("Category").Where("group_id = ?", groupID).Order("created_at").Find(&budgets).Error
	return budgets, err
}

// GroupStatus reports today's group spending against the group's active
// limits. Only transactions of the group count.
//
// A category limit counts the group transactions in every category that
// has the same name as the category the limit was set for, no matter who
// owns the category.
func (s *Service) GroupStatus(ctx context.Context, actor policy.Actor, groupID uuid.UUID) (Report, error) {
	today := s.Today()
	db := s.db.WithContext(ctx)

	group, err := s.loadGroup(ctx, db, actor, groupID)
	if err != nil {
		return Report{}, err
	}

	var budgets []models.GroupBudget
	if err := db.Preload("Category").Where("group_id = ?", groupID).Order("created_at").Find(&budgets).Error; err != nil {
		return Report{}, err
	}

	var transactions []models.Transaction
	err = db.Where("group_id = ? AND type = ? AND date = ?", groupID, models.TransactionTypeExpense, today).
		Find(&transactions).Error
	if err != nil {
		return Report{}, err
	}

	// Categories are those of the counted transactions, so spending of
	// former members is still matched by name
	used := db.Model(&models.Transaction{}).Select("category_id").
		Where("group_id = ? AND type = ? AND date = ? AND category_id IS NOT NULL", groupID, models.TransactionTypeExpense, today)

	var categories []models.Category
	if err := db.Where("id IN (?)", used).Find(&categories).Error; err != nil {
		return Report{}, err
	}

	report := Report{Date: today, Categories: make([]Status, 0)}
	for _, b := range budgets {
		if !b.ActiveOn(today) {
			continue
		}

		ids := append(SameName(categories, b.Category.Name), b.CategoryID)
		status := Evaluate(b.Amount, Spend(transactions, today, InCategories(ids...)))
		status.BudgetID = &b.ID
		status.CategoryID = &b.CategoryID
		status.CategoryName = b.Category.Name
		report.Categories = append(report.Categories, status)
	}

	if group.TotalExpenditureLimit.Valid {
		aggregate := Evaluate(group.TotalExpenditureLimit.Decimal, Spend(transactions, today, All))
		report.Aggregate = &aggregate
	}

	return report, nil
}

// setGroupAggregate changes the aggregate limit of a group.
//
// Any member may do this. Other changes to the group are reserved for admins.
func (s *Service) setGroupAggregate(ctx context.Context, actor policy.Actor, groupID uuid.UUID, limit decimal.NullDecimal) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var group models.Group
			if err := tx.First(&group, groupID).Error; err != nil {
				return err
			}

			if err := s.policy.In(tx).ModifyGroupAggregateLimit(ctx, actor, groupID); err != nil {
				return err
			}

			group.TotalExpenditureLimit = limit
			return tx.Save(&group).Error
		})

		return []events.Event{events.ForGroup(groupID, events.AggregateLimitChanged, groupID)}, err
	})
}

// SetGroupAggregateLimit sets the daily limit over all categories of a group.
func (s *Service) SetGroupAggregateLimit(ctx context.Context, actor policy.Actor, groupID uuid.UUID, amount decimal.Decimal) error {
	return s.setGroupAggregate(ctx, actor, groupID, decimal.NewNullDecimal(amount))
}

// ClearGroupAggregateLimit removes the daily limit over all categories of a group.
func (s *Service) ClearGroupAggregateLimit(ctx context.Context, actor policy.Actor, groupID uuid.UUID) error {
	return s.setGroupAggregate(ctx, actor, groupID, decimal.NullDecimal{})
}

func (s *Service) setPersonalAggregate(ctx context.Context, actor policy.Actor, limit decimal.NullDecimal) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var profile models.Profile
			if err := tx.First(&profile, actor.ID).Error; err != nil {
				return err
			}

			profile.TotalExpenditureLimit = limit
			return tx.Save(&profile).Error
		})

		return []events.Event{events.ForUser(actor.ID, events.AggregateLimitChanged, actor.ID)}, err
	})
}

// SetPersonalAggregateLimit sets the actor's daily limit over all categories.
func (s *Service) SetPersonalAggregateLimit(ctx context.Context, actor policy.Actor, amount decimal.Decimal) error {
	return s.setPersonalAggregate(ctx, actor, decimal.NewNullDecimal(amount))
}

// ClearPersonalAggregateLimit removes the actor's daily limit over all categories.
func (s *Service) ClearPersonalAggregateLimit(ctx context.Context, actor policy.Actor) error {
	return s.setPersonalAggregate(ctx, actor, decimal.NullDecimal{})
}
