package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Valid reports if the status is a known status.
func (s InvitationStatus) Valid() bool {
	return s == InvitationPending || s == InvitationAccepted || s == InvitationDeclined
}

// GroupInvitation invites an email address into a group.
//
// InvitedUserID is set as soon as the email address is known to belong to
// an account, either when the invitation is created or when it is accepted.
type GroupInvitation struct {
	DefaultModel
	GroupID       uuid.UUID        `json:"groupId" gorm:"type:uuid;uniqueIndex:idx_group_invitation" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	InvitedBy     uuid.UUID        `json:"invitedBy" gorm:"type:uuid;index" example:"0b7acf8e-5a6e-4a31-8a3c-7a58f9a7a1a4"`
	InvitedEmail  string           `json:"invitedEmail" gorm:"uniqueIndex:idx_group_invitation" example:"jane@example.com"`
	InvitedUserID *uuid.UUID       `json:"invitedUserId" gorm:"type:uuid;index" example:"a4b1e0a3-0d7e-4a53-9d49-bd2f0b8e2a11"`
	Status        InvitationStatus `json:"status" example:"pending"`
}

func (i *GroupInvitation) BeforeSave(_ *gorm.DB) error {
	i.InvitedEmail = NormalizeEmail(i.InvitedEmail)

	if !ValidEmail(i.InvitedEmail) {
		return ErrEmailInvalid
	}

	if i.InvitedUserID != nil && *i.InvitedUserID == uuid.Nil {
		i.InvitedUserID = nil
	}

	if i.Status == "" {
		i.Status = InvitationPending
	}

	if !i.Status.Valid() {
		return ErrInvitationStatus
	}

	return nil
}
