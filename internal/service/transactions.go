package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/ledgerly/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// TransactionFilter restricts the transactions that are listed. Zero
// values do not filter.
type TransactionFilter struct {
	GroupID    *uuid.UUID
	CategoryID *uuid.UUID
	Type       models.TransactionType
	From       types.Date
	Until      types.Date
	Note       string // glob pattern, "*" matches any text
}

type Transactions struct {
	db     *gorm.DB
	bus    *events.Bus
	policy policy.Evaluator
	today  func() types.Date
}

// NewTransactions returns the transaction service. today is used for
// transactions created without a date.
func NewTransactions(db *gorm.DB, bus *events.Bus, today func() types.Date) *Transactions {
	return &Transactions{db: db, bus: bus, policy: policy.New(db), today: today}
}

// scope returns the scope that sees changes of the transaction.
func scope(t models.Transaction) events.Scope {
	if t.GroupID != nil {
		return events.GroupScope(*t.GroupID)
	}

	return events.UserScope(t.UserID)
}

// check verifies a transaction that is about to be written.
func (s *Transactions) check(ctx context.Context, tx *gorm.DB, actor policy.Actor, t models.Transaction) error {
	if err := s.policy.In(tx).WriteTransaction(ctx, actor, t); err != nil {
		return err
	}

	if t.CategoryID != nil && *t.CategoryID != uuid.Nil {
		return ownCategory(tx, actor, *t.CategoryID)
	}

	return nil
}

// Create records a transaction for the actor.
func (s *Transactions) Create(ctx context.Context, actor policy.Actor, t models.Transaction) (models.Transaction, error) {
	t.ID = uuid.Nil
	if t.UserID == uuid.Nil {
		t.UserID = actor.ID
	}

	if t.Date.IsZero() {
		t.Date = s.today()
	}

	err := s.bus.Commit(ctx, func() ([]events.Event, error) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.check(ctx, tx, actor, t); err != nil {
				return err
			}

			return tx.Create(&t).Error
		})

		return []events.Event{events.New(scope(t), events.TransactionCreated, t.ID)}, err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	log.Debug().Str("user", actor.ID.String()).Str("transaction", t.ID.String()).Msg("created transaction")
	return t, nil
}

// Get returns a transaction the actor can read.
func (s *Transactions) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return models.Transaction{}, err
	}

	if err := s.policy.ReadTransaction(ctx, actor, t); err != nil {
		return models.Transaction{}, err
	}

	return t, nil
}

// List returns the transactions the actor can read, newest first.
//
// When the filter names a group, the actor must be a member of it.
func (s *Transactions) List(ctx context.Context, actor policy.Actor, filter TransactionFilter) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx)

	q := db.Scopes(policy.VisibleTransactions(actor))

	if filter.GroupID != nil {
		if err := db.First(&models.Group{}, *filter.GroupID).Error; err != nil {
			return nil, err
		}

		if err := s.policy.ReadMembers(ctx, actor, *filter.GroupID); err != nil {
			return nil, err
		}

		q = q.Where("group_id = ?", *filter.GroupID)
	}

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("date <= ?", filter.Until)
	}

	var transactions []models.Transaction
	if err := q.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}

	result := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if filter.Note != "" && !glob.Glob(filter.Note, t.Note) {
			continue
		}
		result = append(result, t)
	}

	return result, nil
}

// Update changes the named fields of a transaction.
//
// Moving a transaction into a group requires membership in it. Both the old
// and the new scope are notified.
func (s *Transactions) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, values models.Transaction, fields []string) (t models.Transaction, err error) {
	err = s.bus.Commit(ctx, func() ([]events.Event, error) {
		var before models.Transaction

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&before, id).Error; err != nil {
				return err
			}

			if err := s.policy.In(tx).WriteTransaction(ctx, actor, before); err != nil {
				return err
			}

			t = before
			patch(&t, &values, editableTransactionFields(fields))

			if err := s.check(ctx, tx, actor, t); err != nil {
				return err
			}

			return tx.Save(&t).Error
		})

		e := []events.Event{events.New(scope(t), events.TransactionUpdated, id)}
		if scope(before) != scope(t) {
			e = append([]events.Event{events.New(scope(before), events.TransactionUpdated, id)}, e...)
		}

		return e, err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return t, nil
}

func editableTransactionFields(fields []string) []string {
	editable := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "CategoryID", "GroupID", "Amount", "Type", "Date", "Note":
			editable = append(editable, f)
		}
	}

	return editable
}

// Delete deletes a transaction.
func (s *Transactions) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	return s.bus.Commit(ctx, func() ([]events.Event, error) {
		var t models.Transaction

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&t, id).Error; err != nil {
				return err
			}

			if err := s.policy.In(tx).WriteTransaction(ctx, actor, t); err != nil {
				return err
			}

			return tx.Delete(&t).Error
		})

		return []events.Event{events.New(scope(t), events.TransactionDeleted, id)}, err
	})
}
