package client

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// TransactionView is a local list of transactions that reflects additions
// and deletions before the server has confirmed them.
//
// A change that the server rejects is rolled back and the error is
// returned to the caller.
type TransactionView struct {
	client *Client
	filter TransactionFilter
	state  *Pending[uuid.UUID, Transaction]
}

// NewTransactionView returns an empty view. Call Refresh to load it.
func NewTransactionView(c *Client, filter TransactionFilter) *TransactionView {
	return &TransactionView{
		client: c,
		filter: filter,
		state:  NewPending[uuid.UUID, Transaction](),
	}
}

// Refresh replaces the confirmed transactions with the ones from the server.
func (v *TransactionView) Refresh(ctx context.Context) error {
	transactions, err := v.client.ListTransactions(ctx, v.filter)
	if err != nil {
		return err
	}

	committed := make(map[uuid.UUID]Transaction, len(transactions))
	for _, t := range transactions {
		committed[t.ID] = t
	}

	v.state.Reset(committed)
	return nil
}

// Transactions returns the visible transactions, newest first.
func (v *TransactionView) Transactions() []Transaction {
	transactions := v.state.Values()

	slices.SortFunc(transactions, func(a, b Transaction) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}

		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return transactions
}

// IsPending reports if the transaction has not been confirmed by the server yet.
func (v *TransactionView) IsPending(id uuid.UUID) bool {
	return v.state.IsPending(id)
}

// AddTransaction shows the transaction immediately under a temporary ID
// and creates it on the server. On success, the temporary entry is replaced
// with the transaction the server returned.
func (v *TransactionView) AddTransaction(ctx context.Context, in TransactionInput) (Transaction, error) {
	now := time.Now()

	tentative := Transaction{
		ID:         uuid.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
		CategoryID: in.CategoryID,
		GroupID:    in.GroupID,
		Amount:     in.Amount,
		Type:       in.Type,
		Date:       in.Date,
		Note:       strings.TrimSpace(in.Note),
	}

	if tentative.Type == "" {
		tentative.Type = "expense"
	}

	if tentative.Date == "" {
		tentative.Date = now.Format(time.DateOnly)
	}

	if err := v.state.Apply(tentative.ID, tentative); err != nil {
		return Transaction{}, err
	}

	created, err := v.client.CreateTransaction(ctx, in)
	if err != nil {
		log.Debug().Str("transaction", tentative.ID.String()).Err(err).Msg("rolling back tentative transaction")
		_ = v.state.Rollback(tentative.ID)
		return Transaction{}, err
	}

	if err := v.state.CommitAs(tentative.ID, created.ID, created); err != nil {
		return Transaction{}, err
	}

	return created, nil
}

// DeleteTransaction hides the transaction immediately and deletes it on
// the server. If the server rejects the deletion, the transaction is shown
// again.
func (v *TransactionView) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := v.state.Remove(id); err != nil {
		return err
	}

	if err := v.client.DeleteTransaction(ctx, id); err != nil {
		log.Debug().Str("transaction", id.String()).Err(err).Msg("restoring transaction")
		_ = v.state.Rollback(id)
		return err
	}

	return v.state.Commit(id)
}
