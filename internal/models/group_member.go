package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports if the role is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// GroupMember links a user to a group. There is exactly one row per
// (group, user).
type GroupMember struct {
	DefaultModel
	GroupID  uuid.UUID `json:"groupId" gorm:"type:uuid;uniqueIndex:idx_group_member" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	UserID   uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex:idx_group_member;index" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	Role     Role      `json:"role" example:"member"`
	JoinedAt time.Time `json:"joinedAt" example:"2024-04-02T19:28:44.491514Z"`
}

func (m *GroupMember) BeforeSave(_ *gorm.DB) error {
	if m.Role == "" {
		m.Role = RoleMember
	}

	if !m.Role.Valid() {
		return ErrRoleInvalid
	}

	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().In(time.UTC)
	}

	return nil
}
