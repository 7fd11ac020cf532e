// Package policy decides whether an actor may read or change a resource.
//
// The rules are fixed. Every predicate returns nil when the action is
// allowed and an error wrapping models.ErrUnauthorized when it is not.
package policy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/membership"
	"github.com/ledgerly/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Actor is the authenticated user a request is made for.
type Actor struct {
	ID    uuid.UUID
	Email string
}

type Evaluator struct {
	db        *gorm.DB
	authority membership.Authority
}

// New returns an Evaluator reading from db.
func New(db *gorm.DB) Evaluator {
	return Evaluator{db: db, authority: membership.New(db)}
}

// In returns a copy of the Evaluator that reads inside the transaction tx.
func (e Evaluator) In(tx *gorm.DB) Evaluator {
	return Evaluator{db: tx, authority: e.authority.In(tx)}
}

// Authority returns the membership authority the evaluator consults.
func (e Evaluator) Authority() membership.Authority {
	return e.authority
}

func deny(actor Actor, action, resource string, id uuid.UUID) error {
	log.Info().Str("actor", actor.ID.String()).Str("resource", resource).Str("id", id.String()).Msgf("denied %s", action)
	return fmt.Errorf("%w %s this %s", models.ErrUnauthorized, action, resource)
}

func (e Evaluator) requireMember(ctx context.Context, actor Actor, action, resource string, groupID uuid.UUID) error {
	ok, err := e.authority.IsMember(ctx, groupID, actor.ID)
	if err != nil {
		return err
	}

	if !ok {
		return deny(actor, action, resource, groupID)
	}

	return nil
}

// ReadGroup allows members and the creator.
func (e Evaluator) ReadGroup(ctx context.Context, actor Actor, group models.Group) error {
	if group.CreatedBy == actor.ID {
		return nil
	}

	return e.requireMember(ctx, actor, "read", "group", group.ID)
}

// CreateGroup allows creating groups for oneself only.
func (e Evaluator) CreateGroup(actor Actor, group models.Group) error {
	if group.CreatedBy != actor.ID {
		return deny(actor, "create", "group", group.ID)
	}

	return nil
}

// ModifyGroup allows the creator and admins.
func (e Evaluator) ModifyGroup(ctx context.Context, actor Actor, groupID uuid.UUID) error {
	ok, err := e.authority.IsAdmin(ctx, groupID, actor.ID)
	if err != nil {
		return err
	}

	if !ok {
		return deny(actor, "modify", "group", groupID)
	}

	return nil
}

// ReadMembers allows members.
func (e Evaluator) ReadMembers(ctx context.Context, actor Actor, groupID uuid.UUID) error {
	return e.requireMember(ctx, actor, "read", "group's members", groupID)
}

// CreateMember allows users to add only themselves.
func (e Evaluator) CreateMember(actor Actor, member models.GroupMember) error {
	if member.UserID != actor.ID {
		return deny(actor, "create", "group member", member.GroupID)
	}

	return nil
}

// ModifyMember allows admins of the group.
func (e Evaluator) ModifyMember(ctx context.Context, actor Actor, member models.GroupMember) error {
	ok, err := e.authority.IsAdmin(ctx, member.GroupID, actor.ID)
	if err != nil {
		return err
	}

	if !ok {
		return deny(actor, "modify", "group member", member.ID)
	}

	return nil
}

// ReadInvitation allows the inviter and the invitee.
func (e Evaluator) ReadInvitation(actor Actor, invitation models.GroupInvitation) error {
	if invitation.InvitedBy == actor.ID || (invitation.InvitedUserID != nil && *invitation.InvitedUserID == actor.ID) {
		return nil
	}

	return deny(actor, "read", "invitation", invitation.ID)
}

// CreateInvitation allows members of the group.
func (e Evaluator) CreateInvitation(ctx context.Context, actor Actor, groupID uuid.UUID) error {
	return e.requireMember(ctx, actor, "invite to", "group", groupID)
}

// ModifyInvitation allows the inviter and the invitee.
func (e Evaluator) ModifyInvitation(actor Actor, invitation models.GroupInvitation) error {
	if invitation.InvitedBy == actor.ID || (invitation.InvitedUserID != nil && *invitation.InvitedUserID == actor.ID) {
		return nil
	}

	return deny(actor, "modify", "invitation", invitation.ID)
}

// ReadCategory allows the owner and members of groups that reference the
// category from a transaction or a group budget.
func (e Evaluator) ReadCategory(ctx context.Context, actor Actor, category models.Category) error {
	if category.OwnerUserID == actor.ID {
		return nil
	}

	var count int64
	err := e.db.Session(&gorm.Session{NewDB: true}).WithContext(ctx).
		Model(&models.Category{}).
		Scopes(VisibleCategories(actor)).
		Where("id = ?", category.ID).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return deny(actor, "read", "category", category.ID)
	}

	return nil
}

// ModifyCategory allows the owner. It is used for creation, too.
func (e Evaluator) ModifyCategory(actor Actor, category models.Category) error {
	if category.OwnerUserID != actor.ID {
		return deny(actor, "modify", "category", category.ID)
	}

	return nil
}

// ReadTransaction allows the owner and members of the transaction's group.
func (e Evaluator) ReadTransaction(ctx context.Context, actor Actor, transaction models.Transaction) error {
	if transaction.UserID == actor.ID {
		return nil
	}

	if transaction.GroupID == nil {
		return deny(actor, "read", "transaction", transaction.ID)
	}

	return e.requireMember(ctx, actor, "read", "transaction", *transaction.GroupID)
}

// WriteTransaction allows the owner when the transaction is personal or
// the owner is a member of its group. It applies to creation, update and
// deletion alike.
func (e Evaluator) WriteTransaction(ctx context.Context, actor Actor, transaction models.Transaction) error {
	if transaction.UserID != actor.ID {
		return deny(actor, "write", "transaction", transaction.ID)
	}

	if transaction.GroupID == nil {
		return nil
	}

	return e.requireMember(ctx, actor, "write", "transaction", *transaction.GroupID)
}

// OwnBudget allows the owner of a personal budget for all actions.
func (e Evaluator) OwnBudget(actor Actor, budget models.Budget) error {
	if budget.UserID != actor.ID {
		return deny(actor, "access", "budget", budget.ID)
	}

	return nil
}

// ReadGroupBudgets allows members of the group.
func (e Evaluator) ReadGroupBudgets(ctx context.Context, actor Actor, groupID uuid.UUID) error {
	return e.requireMember(ctx, actor, "read", "group's budgets", groupID)
}

// CreateGroupBudget allows members creating the budget in their own name.
func (e Evaluator) CreateGroupBudget(ctx context.Context, actor Actor, budget models.GroupBudget) error {
	if budget.CreatedBy != actor.ID {
		return deny(actor, "create", "group budget", budget.GroupID)
	}

	return e.requireMember(ctx, actor, "create", "group budget", budget.GroupID)
}

// ModifyGroupBudget allows members of the group.
func (e Evaluator) ModifyGroupBudget(ctx context.Context, actor Actor, budget models.GroupBudget) error {
	return e.requireMember(ctx, actor, "modify", "group budget", budget.GroupID)
}

// ModifyGroupAggregateLimit allows any member of the group.
//
// The limit lives on the group row, which only admins may modify. Setting
// it therefore goes through this predicate, not ModifyGroup.
func (e Evaluator) ModifyGroupAggregateLimit(ctx context.Context, actor Actor, groupID uuid.UUID) error {
	return e.requireMember(ctx, actor, "change the limit of", "group", groupID)
}
