package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"gorm.io/gorm"
)

type Categories struct {
	db     *gorm.DB
	bus    *events.Bus
	policy policy.Evaluator
}

func NewCategories(db *gorm.DB, bus *events.Bus) *Categories {
	return &Categories{db: db, bus: bus, policy: policy.New(db)}
}

// changed announces a change of a category to its owner and to all groups
// of the owner, since group budgets match categories by name.
func (s *Categories) changed(ctx context.Context, tx *gorm.DB, category models.Category) ([]events.Event, error) {
	groups, err := s.policy.In(tx).Authority().GroupsOf(ctx, category.OwnerUserID)
	if err != nil {
		return nil, err
	}

	e := []events.Event{events.ForUser(category.OwnerUserID, events.CategoryChanged, category.ID)}
	for _, g := range groups {
		e = append(e, events.ForGroup(g, events.CategoryChanged, category.ID))
	}

	return e, nil
}

// Create creates a category owned by the actor.
func (s *Categories) Create(ctx context.Context, actor policy.Actor, category models.Category) (models.Category, error) {
	category.ID = uuid.Nil
	if category.OwnerUserID == uuid.Nil {
		category.OwnerUserID = actor.ID
	}

	if err := s.policy.ModifyCategory(actor, category); err != nil {
		return models.Category{}, err
	}

	err := s.bus.Commit(ctx, func() (e []events.Event, err error) {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&category).Error; err != nil {
				return err
			}

			e, err = s.changed(ctx, tx, category)
			return err
		})

		return e, err
	})
	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// Get returns a category the actor can read.
func (s *Categories) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return models.Category{}, err
	}

	if err := s.policy.ReadCategory(ctx, actor, category); err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// List returns the actor's categories and the categories the actor can see
// through groups.
func (s *Categories) List(ctx context.Context, actor policy.Actor) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := s.db.WithContext(ctx).
		Scopes(policy.VisibleCategories(actor)).
		Order("name ASC").
		Find(&categories).Error

	return categories, err
}

// Update changes the named fields of a category.
func (s *Categories) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, values models.Category, fields []string) (category models.Category, err error) {
	err = s.bus.Commit(ctx, func() (e []events.Event, err error) {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&category, id).Error; err != nil {
				return err
			}

			if err := s.policy.ModifyCategory(actor, category); err != nil {
				return err
			}

			patch(&category, &values, editableCategoryFields(fields))
			if err := tx.Save(&category).Error; err != nil {
				return err
			}

			e, err = s.changed(ctx, tx, category)
			return err
		})

		return e, err
	})
	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}

func editableCategoryFields(fields []string) []string {
	editable := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "Name", "Type", "Color", "Icon":
			editable = append(editable, f)
		}
	}

	return editable
}

// Delete deletes a category with the owner's limits on it. The owner's
// transactions in the category become uncategorized.
//
// Categories that a group budget uses cannot be deleted.
func (s *Categories) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	return s.bus.Commit(ctx, func() (e []events.Event, err error) {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var category models.Category
			if err := tx.First(&category, id).Error; err != nil {
				return err
			}

			if err := s.policy.ModifyCategory(actor, category); err != nil {
				return err
			}

			var used int64
			if err := tx.Model(&models.GroupBudget{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
				return err
			}
			if used > 0 {
				return models.ErrCategoryInUse
			}

			if err := tx.Where("user_id = ? AND category_id = ?", category.OwnerUserID, id).Delete(&models.Budget{}).Error; err != nil {
				return err
			}

			err := tx.Model(&models.Transaction{}).
				Where("user_id = ? AND category_id = ?", category.OwnerUserID, id).
				UpdateColumn("category_id", nil).Error
			if err != nil {
				return err
			}

			if err := tx.Delete(&category).Error; err != nil {
				return err
			}

			e, err = s.changed(ctx, tx, category)
			return err
		})

		return e, err
	})
}
