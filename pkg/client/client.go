// Package client is a Go client for the v1 API of the ledger backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a transaction as returned by the API.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID *uuid.UUID      `json:"categoryId"`
	GroupID    *uuid.UUID      `json:"groupId"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type"`
	Date       string          `json:"date"`
	Note       string          `json:"note"`
}

// TransactionInput is the data needed to create a transaction.
type TransactionInput struct {
	CategoryID *uuid.UUID      `json:"categoryId"`
	GroupID    *uuid.UUID      `json:"groupId,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type,omitempty"`
	Date       string          `json:"date,omitempty"` // YYYY-MM-DD, the server uses today if empty
	Note       string          `json:"note,omitempty"`
}

// TransactionFilter restricts the transactions that are listed.
type TransactionFilter struct {
	GroupID    *uuid.UUID
	CategoryID *uuid.UUID
	Type       string
	From       string
	Until      string
	Note       string
}

func (f TransactionFilter) query() url.Values {
	q := url.Values{}
	if f.GroupID != nil {
		q.Set("group", f.GroupID.String())
	}
	if f.CategoryID != nil {
		q.Set("category", f.CategoryID.String())
	}

	for key, value := range map[string]string{"type": f.Type, "from": f.From, "until": f.Until, "note": f.Note} {
		if value != "" {
			q.Set(key, value)
		}
	}

	return q
}

// Error is returned for all responses that are not successful.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Client talks to the v1 API as a single user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New returns a client for the API at baseURL, e.g. https://ledger.example.com/v1.
// token is sent as bearer token with every request.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListTransactions returns the transactions matching the filter.
func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	var transactions []Transaction
	err := c.do(ctx, http.MethodGet, "/transactions", filter.query(), nil, &transactions)
	return transactions, err
}

// CreateTransaction creates a transaction.
func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (Transaction, error) {
	var transaction Transaction
	err := c.do(ctx, http.MethodPost, "/transactions", nil, in, &transaction)
	return transaction, err
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+id.String(), nil, nil, nil)
}

// do sends a request and decodes the data of the response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &Error{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}

	return json.Unmarshal(envelope.Data, out)
}
