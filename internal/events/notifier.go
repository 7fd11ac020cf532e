package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Mailer sends mail. *gomail.Dialer implements it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// InvitationNotifier mails invitees when an invitation is created.
type InvitationNotifier struct {
	db     *gorm.DB
	mailer Mailer
	from   string
}

func NewInvitationNotifier(db *gorm.DB, mailer Mailer, from string) *InvitationNotifier {
	return &InvitationNotifier{db: db, mailer: mailer, from: from}
}

// Run sends a mail for every invitation.created event in a group scope
// until the context ends or the subscription is closed.
func (n *InvitationNotifier) Run(ctx context.Context, sub *Subscription) error {
	defer sub.Close()

	for {
		e, err := sub.Next(ctx)
		if errors.Is(err, ErrSubscriptionClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		// Invitations are announced to the group and the invitee, only mail once
		if e.Kind != InvitationCreated || !e.Scope.IsGroup() {
			continue
		}

		if err := n.notify(ctx, e); err != nil {
			log.Error().Err(err).Str("invitation", e.ResourceID.String()).Msg("could not send invitation mail")
		}
	}
}

func (n *InvitationNotifier) notify(ctx context.Context, e Event) error {
	var invitation models.GroupInvitation
	err := n.db.WithContext(ctx).First(&invitation, e.ResourceID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		// Revoked before we got to it
		return nil
	}
	if err != nil {
		return err
	}

	if invitation.Status != models.InvitationPending {
		return nil
	}

	var group models.Group
	if err := n.db.WithContext(ctx).First(&group, invitation.GroupID).Error; err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", invitation.InvitedEmail)
	m.SetHeader("Subject", fmt.Sprintf("You have been invited to %s", group.Name))
	m.SetBody("text/plain", fmt.Sprintf("You have been invited to join the group %q. Sign in with this email address to accept or decline the invitation.", group.Name))

	if err := n.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	log.Info().Str("invitation", invitation.ID.String()).Str("group", group.ID.String()).Msg("sent invitation mail")
	return nil
}
