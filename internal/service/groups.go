package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Groups struct {
	db     *gorm.DB
	bus    *events.Bus
	policy policy.Evaluator
}

func NewGroups(db *gorm.DB, bus *events.Bus) *Groups {
	return &Groups{db: db, bus: bus, policy: policy.New(db)}
}

// Create creates a group with the actor as creator and first admin.
//
// The group and the membership are written in the same transaction.
func (s *Groups) Create(ctx context.Context, actor policy.Actor, group models.Group) (models.Group, error) {
	if group.CreatedBy == uuid.Nil {
		group.CreatedBy = actor.ID
	}

	if err := s.policy.CreateGroup(actor, group); err != nil {
		return models.Group{}, err
	}

	// The aggregate limit has its own operation
	group.TotalExpenditureLimit.Valid = false

	err := s.bus.Commit(ctx, func() ([]events.Event, error) {
		var member models.GroupMember

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}

			member = models.GroupMember{GroupID: group.ID, UserID: actor.ID, Role: models.RoleAdmin}
			if err := s.policy.CreateMember(actor, member); err != nil {
				return err
			}

			return tx.Create(&member).Error
		})

		return []events.Event{
			events.ForGroup(group.ID, events.GroupCreated, group.ID),
			events.ForGroup(group.ID, events.MemberJoined, member.ID),
			events.ForUser(actor.ID, events.GroupCreated, group.ID),
		}, err
	})
	if err != nil {
		return models.Group{}, err
	}

	log.Debug().Str("group", group.ID.String()).Str("user", actor.ID.String()).Msg("created group")
	return group, nil
}

// Get returns a group the actor can read.
func (s *Groups) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.Group{}, err
	}

	if err := s.policy.ReadGroup(ctx, actor, group); err != nil {
		return models.Group{}, err
	}

	return group, nil
}

// List returns all groups the actor can read.
func (s *Groups) List(ctx context.Context, actor policy.Actor) ([]models.Group, error) {
	groups := make([]models.Group, 0)
	err := s.db.WithContext(ctx).
		Scopes(policy.VisibleGroups(actor)).
		Order("created_at").
		Find(&groups).Error

	return groups, err
}

// Update changes the name and description of a group. Only the named fields
// are changed.
func (s *Groups) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, values models.Group, fields []string) (group models.Group, err error) {
	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&group, id).Error; err != nil {
				return err
			}

			if err := s.policy.In(tx).ModifyGroup(ctx, actor, id); err != nil {
				return err
			}

			patch(&group, &values, editableGroupFields(fields))
			return tx.Save(&group).Error
		})

		return []events.Event{events.ForGroup(id, events.GroupUpdated, id)}, err
	})
	if err != nil {
		return models.Group{}, err
	}

	return group, nil
}

func editableGroupFields(fields []string) []string {
	editable := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "Name" || f == "Description" {
			editable = append(editable, f)
		}
	}

	return editable
}

// Delete deletes a group with its members, invitations and budgets.
//
// The group's transactions stay with their owners and become personal.
func (s *Groups) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		var members []uuid.UUID

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var group models.Group
			if err := tx.First(&group, id).Error; err != nil {
				return err
			}

			if err := s.policy.In(tx).ModifyGroup(ctx, actor, id); err != nil {
				return err
			}

			if err := tx.Model(&models.GroupMember{}).Where("group_id = ?", id).Pluck("user_id", &members).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Transaction{}).Where("group_id = ?", id).UpdateColumn("group_id", nil).Error; err != nil {
				return err
			}

			for _, model := range []any{&models.GroupMember{}, &models.GroupInvitation{}, &models.GroupBudget{}} {
				if err := tx.Where("group_id = ?", id).Delete(model).Error; err != nil {
					return err
				}
			}

			return tx.Delete(&group).Error
		})

		e := []events.Event{events.ForGroup(id, events.GroupDeleted, id)}
		for _, user := range members {
			e = append(e, events.ForUser(user, events.GroupDeleted, id))
		}

		return e, err
	})
}
