// Package invitation implements inviting users into groups.
//
// An invitation is pending until the invitee accepts or declines it.
// Inviting the same address again after it was resolved resets the
// existing invitation to pending.
package invitation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	policy policy.Evaluator
}

func NewService(db *gorm.DB, bus *events.Bus) *Service {
	return &Service{db: db, bus: bus, policy: policy.New(db)}
}

// profileByEmail returns the profile with the address, if there is one.
func profileByEmail(tx *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	err := tx.Where("email = ?", email).First(&profile).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// storedEmail returns the email address stored for the actor. It is empty
// when the actor has no profile yet.
func storedEmail(tx *gorm.DB, actor policy.Actor) (string, error) {
	var profile models.Profile
	err := tx.First(&profile, actor.ID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return "", nil
	}

	return profile.Email, err
}

func announce(i models.GroupInvitation, kind events.Kind) []events.Event {
	e := []events.Event{events.ForGroup(i.GroupID, kind, i.ID)}
	if i.InvitedUserID != nil {
		e = append(e, events.ForUser(*i.InvitedUserID, kind, i.ID))
	}
	if kind != events.InvitationCreated {
		e = append(e, events.ForUser(i.InvitedBy, kind, i.ID))
	}

	return e
}

// Create invites an email address into a group.
//
// Only members may invite. An address that already has a pending invitation
// or belongs to a member cannot be invited.
func (s *Service) Create(ctx context.Context, actor policy.Actor, groupID uuid.UUID, email string) (i models.GroupInvitation, err error) {
	email = models.NormalizeEmail(email)
	if !models.ValidEmail(email) {
		return models.GroupInvitation{}, models.ErrEmailInvalid
	}

	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p := s.policy.In(tx)

			var group models.Group
			if err := tx.First(&group, groupID).Error; err != nil {
				return err
			}

			if err := p.CreateInvitation(ctx, actor, groupID); err != nil {
				return err
			}

			invitee, err := profileByEmail(tx, email)
			if err != nil {
				return err
			}

			var inviteeID *uuid.UUID
			if invitee != nil {
				member, err := p.Authority().IsMember(ctx, groupID, invitee.ID)
				if err != nil {
					return err
				}
				if member {
					return models.ErrGroupMemberExists
				}
				inviteeID = &invitee.ID
			}

			err = tx.Where("group_id = ? AND invited_email = ?", groupID, email).First(&i).Error
			if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
				return err
			}

			if i.ID != uuid.Nil && i.Status == models.InvitationPending {
				return models.ErrInvitationExists
			}

			i.GroupID = groupID
			i.InvitedEmail = email
			i.InvitedBy = actor.ID
			i.InvitedUserID = inviteeID
			i.Status = models.InvitationPending

			return tx.Save(&i).Error
		})

		return announce(i, events.InvitationCreated), err
	})
	if err != nil {
		return models.GroupInvitation{}, err
	}

	log.Debug().Str("group", groupID.String()).Str("invitation", i.ID.String()).Msg("invited")
	return i, nil
}

// Discover returns the pending invitations for the actor, both the ones
// addressed to the actor's ID and the ones sent to the actor's stored email
// address before the account was known.
func (s *Service) Discover(ctx context.Context, actor policy.Actor) ([]models.GroupInvitation, error) {
	db := s.db.WithContext(ctx)

	email, err := storedEmail(db, actor)
	if err != nil {
		return nil, err
	}

	invitations := make([]models.GroupInvitation, 0)
	err = db.
		Where("status = ?", models.InvitationPending).
		Where(db.Where("invited_user_id = ?", actor.ID).Or("invited_user_id IS NULL AND invited_email = ?", email)).
		Order("created_at").
		Find(&invitations).Error

	return invitations, err
}

// ListSent returns the invitations of a group that the actor sent or received.
func (s *Service) ListSent(ctx context.Context, actor policy.Actor, groupID uuid.UUID) ([]models.GroupInvitation, error) {
	db := s.db.WithContext(ctx)

	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		return nil, err
	}

	if err := s.policy.ReadGroup(ctx, actor, group); err != nil {
		return nil, err
	}

	invitations := make([]models.GroupInvitation, 0)
	err := db.
		Scopes(policy.VisibleInvitations(actor)).
		Where("group_id = ?", groupID).
		Order("created_at").
		Find(&invitations).Error

	return invitations, err
}

// resolve loads an invitation for the invitee.
//
// The invitee is identified by the ID on the invitation or, when that is not
// known yet, by the actor's stored email address. The ID is filled in here.
func resolve(tx *gorm.DB, actor policy.Actor, id uuid.UUID) (models.GroupInvitation, error) {
	var i models.GroupInvitation
	if err := tx.First(&i, id).Error; err != nil {
		return i, err
	}

	if i.InvitedUserID != nil {
		if *i.InvitedUserID != actor.ID {
			return i, errNotInvitee
		}
		return i, nil
	}

	email, err := storedEmail(tx, actor)
	if err != nil {
		return i, err
	}

	if email == "" || email != i.InvitedEmail {
		return i, errNotInvitee
	}

	i.InvitedUserID = &actor.ID
	return i, nil
}

var errNotInvitee = fmt.Errorf("%w resolve this invitation, only the invitee can", models.ErrUnauthorized)

// Accept adds the actor to the group of the invitation.
//
// Accepting twice succeeds without a second membership. A declined
// invitation cannot be accepted.
func (s *Service) Accept(ctx context.Context, actor policy.Actor, id uuid.UUID) (i models.GroupInvitation, err error) {
	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		var e []events.Event

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			i, err = resolve(tx, actor, id)
			if err != nil {
				return err
			}

			switch i.Status {
			case models.InvitationAccepted:
				return nil
			case models.InvitationDeclined:
				return models.ErrInvitationResolved
			}

			member := models.GroupMember{GroupID: i.GroupID, UserID: actor.ID, Role: models.RoleMember}
			if err := s.policy.CreateMember(actor, member); err != nil {
				return err
			}

			// Concurrent accepts from several devices end up with one member row
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
			if result.Error != nil && !errors.Is(result.Error, models.ErrGroupMemberExists) {
				return result.Error
			}
			if result.Error == nil && result.RowsAffected > 0 {
				e = append(e, events.ForGroup(i.GroupID, events.MemberJoined, member.ID))
			}

			i.Status = models.InvitationAccepted
			if err := tx.Save(&i).Error; err != nil {
				return err
			}

			e = append(e, announce(i, events.InvitationAccepted)...)
			return nil
		})

		return e, err
	})
	if err != nil {
		return models.GroupInvitation{}, err
	}

	log.Debug().Str("group", i.GroupID.String()).Str("user", actor.ID.String()).Msg("accepted invitation")
	return i, nil
}

// Decline declines the invitation. Membership is not touched.
func (s *Service) Decline(ctx context.Context, actor policy.Actor, id uuid.UUID) (i models.GroupInvitation, err error) {
	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		var e []events.Event

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			i, err = resolve(tx, actor, id)
			if err != nil {
				return err
			}

			switch i.Status {
			case models.InvitationDeclined:
				return nil
			case models.InvitationAccepted:
				return models.ErrInvitationResolved
			}

			i.Status = models.InvitationDeclined
			if err := tx.Save(&i).Error; err != nil {
				return err
			}

			e = announce(i, events.InvitationDeclined)
			return nil
		})

		return e, err
	})
	if err != nil {
		return models.GroupInvitation{}, err
	}

	return i, nil
}

// Revoke deletes an invitation. The inviter and the invitee may do this.
func (s *Service) Revoke(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		var i models.GroupInvitation

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&i, id).Error; err != nil {
				return err
			}

			if err := s.policy.ModifyInvitation(actor, i); err != nil {
				return err
			}

			return tx.Delete(&i).Error
		})

		return announce(i, events.InvitationRevoked), err
	})
}
