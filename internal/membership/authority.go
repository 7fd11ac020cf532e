// Package membership answers whether a user belongs to a group.
//
// The Authority reads the member and group tables directly. It is the only
// place that does, so that access checks never depend on themselves.
package membership

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"gorm.io/gorm"
)

type Authority struct {
	db *gorm.DB
}

// New returns an Authority reading from db.
func New(db *gorm.DB) Authority {
	return Authority{db: db}
}

// In returns a copy of the Authority that reads inside the transaction tx.
//
// Checks made while a transaction is open must use it. The database only
// has one connection.
func (a Authority) In(tx *gorm.DB) Authority {
	return Authority{db: tx}
}

// session starts a statement without scopes or conditions of the caller.
func (a Authority) session(ctx context.Context) *gorm.DB {
	return a.db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
}

// IsMember reports if a member row exists for the user in the group.
func (a Authority) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := a.session(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error

	return count > 0, err
}

// IsAdmin reports if the user created the group or holds the admin role in it.
func (a Authority) IsAdmin(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := a.session(ctx).
		Model(&models.Group{}).
		Where("id = ? AND created_by = ?", groupID, userID).
		Count(&count).Error
	if err != nil || count > 0 {
		return count > 0, err
	}

	err = a.session(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND role = ?", groupID, userID, models.RoleAdmin).
		Count(&count).Error

	return count > 0, err
}

// GroupsOf returns the IDs of all groups the user is a member of.
func (a Authority) GroupsOf(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := a.session(ctx).
		Model(&models.GroupMember{}).
		Where("user_id = ?", userID).
		Order("joined_at").
		Pluck("group_id", &ids).Error

	return ids, err
}
