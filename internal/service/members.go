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

// Members manages the memberships of existing groups. Memberships are
// created with the group and by accepting invitations.
type Members struct {
	db     *gorm.DB
	bus    *events.Bus
	policy policy.Evaluator
}

func NewMembers(db *gorm.DB, bus *events.Bus) *Members {
	return &Members{db: db, bus: bus, policy: policy.New(db)}
}

// List returns the members of a group, oldest first.
func (s *Members) List(ctx context.Context, actor policy.Actor, groupID uuid.UUID) ([]models.GroupMember, error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Group{}, groupID).Error; err != nil {
		return nil, err
	}

	if err := s.policy.ReadMembers(ctx, actor, groupID); err != nil {
		return nil, err
	}

	members := make([]models.GroupMember, 0)
	err := db.Where("group_id = ?", groupID).Order("joined_at").Find(&members).Error
	return members, err
}

// load returns the member of the group together with the group.
func load(tx *gorm.DB, groupID, memberID uuid.UUID) (models.Group, models.GroupMember, error) {
	var group models.Group
	if err := tx.First(&group, groupID).Error; err != nil {
		return group, models.GroupMember{}, err
	}

	var member models.GroupMember
	err := tx.Where("id = ? AND group_id = ?", memberID, groupID).First(&member).Error
	return group, member, err
}

// UpdateRole changes the role of a member. The creator of the group always
// stays an admin.
func (s *Members) UpdateRole(ctx context.Context, actor policy.Actor, groupID, memberID uuid.UUID, role models.Role) (member models.GroupMember, err error) {
	if !role.Valid() {
		return models.GroupMember{}, models.ErrRoleInvalid
	}

	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var group models.Group
			var err error
			group, member, err = load(tx, groupID, memberID)
			if err != nil {
				return err
			}

			if err := s.policy.In(tx).ModifyMember(ctx, actor, member); err != nil {
				return err
			}

			if member.UserID == group.CreatedBy && role != models.RoleAdmin {
				return models.ErrCreatorNotRemovable
			}

			member.Role = role
			return tx.Save(&member).Error
		})

		return []events.Event{
			events.ForGroup(groupID, events.MemberUpdated, memberID),
			events.ForUser(member.UserID, events.MemberUpdated, memberID),
		}, err
	})
	if err != nil {
		return models.GroupMember{}, err
	}

	log.Debug().Str("group", groupID.String()).Str("user", member.UserID.String()).Str("role", string(role)).Msg("changed role")
	return member, nil
}

// Remove removes a member from the group. The creator cannot be removed.
func (s *Members) Remove(ctx context.Context, actor policy.Actor, groupID, memberID uuid.UUID) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		var member models.GroupMember

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var group models.Group
			var err error
			group, member, err = load(tx, groupID, memberID)
			if err != nil {
				return err
			}

			if err := s.policy.In(tx).ModifyMember(ctx, actor, member); err != nil {
				return err
			}

			if member.UserID == group.CreatedBy {
				return models.ErrCreatorNotRemovable
			}

			return tx.Delete(&member).Error
		})

		return []events.Event{
			events.ForGroup(groupID, events.MemberRemoved, memberID),
			events.ForUser(member.UserID, events.MemberRemoved, memberID),
		}, err
	})
}
