// Package events publishes changes to subscribers scoped by group or user.
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scope names the audience of an event.
type Scope string

const (
	groupPrefix = "group:"
	userPrefix  = "user:"
)

// GroupScope is the scope for all members of a group.
func GroupScope(id uuid.UUID) Scope {
	return Scope(groupPrefix + id.String())
}

// UserScope is the scope for a single user.
func UserScope(id uuid.UUID) Scope {
	return Scope(userPrefix + id.String())
}

// ParseScope parses a scope in the form "group:<uuid>" or "user:<uuid>".
func ParseScope(s string) (Scope, error) {
	for _, prefix := range []string{groupPrefix, userPrefix} {
		if id, ok := strings.CutPrefix(s, prefix); ok {
			if _, err := uuid.Parse(id); err != nil {
				return "", fmt.Errorf("invalid scope %q: %w", s, err)
			}
			return Scope(s), nil
		}
	}

	return "", fmt.Errorf("invalid scope %q: must start with %q or %q", s, groupPrefix, userPrefix)
}

// RoutingKey returns the scope as an AMQP topic routing key.
func (s Scope) RoutingKey() string {
	return strings.Replace(string(s), ":", ".", 1)
}

// IsGroup reports if the scope is a group scope.
func (s Scope) IsGroup() bool {
	return strings.HasPrefix(string(s), groupPrefix)
}

type Kind string

const (
	GroupCreated          Kind = "group.created"
	GroupUpdated          Kind = "group.updated"
	GroupDeleted          Kind = "group.deleted"
	MemberJoined          Kind = "member.joined"
	MemberUpdated         Kind = "member.updated"
	MemberRemoved         Kind = "member.removed"
	InvitationCreated     Kind = "invitation.created"
	InvitationAccepted    Kind = "invitation.accepted"
	InvitationDeclined    Kind = "invitation.declined"
	InvitationRevoked     Kind = "invitation.revoked"
	BudgetSet             Kind = "budget.set"
	BudgetRemoved         Kind = "budget.removed"
	GroupBudgetSet        Kind = "group_budget.set"
	GroupBudgetRemoved    Kind = "group_budget.removed"
	AggregateLimitChanged Kind = "aggregate_limit.changed"
	TransactionCreated    Kind = "transaction.created"
	TransactionUpdated    Kind = "transaction.updated"
	TransactionDeleted    Kind = "transaction.deleted"
	CategoryChanged       Kind = "category.changed"
)

// Event announces that a resource changed. It carries no payload,
// receivers fetch the current state themselves.
type Event struct {
	Sequence   uint64    `json:"sequence" example:"42"`
	Scope      Scope     `json:"scope" swaggertype:"string" example:"group:3b1ea324-d438-4419-882a-2fc91d71772f"`
	Kind       Kind      `json:"kind" swaggertype:"string" example:"member.joined"`
	ResourceID uuid.UUID `json:"resourceId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	OccurredAt time.Time `json:"occurredAt" example:"2024-04-02T19:28:44.491514Z"`
}

// New returns an event for a resource.
func New(scope Scope, kind Kind, resourceID uuid.UUID) Event {
	return Event{Scope: scope, Kind: kind, ResourceID: resourceID}
}

// ForGroup returns an event in the scope of the group.
func ForGroup(groupID uuid.UUID, kind Kind, resourceID uuid.UUID) Event {
	return New(GroupScope(groupID), kind, resourceID)
}

// ForUser returns an event in the scope of the user.
func ForUser(userID uuid.UUID, kind Kind, resourceID uuid.UUID) Event {
	return New(UserScope(userID), kind, resourceID)
}
