package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/service"
)

// RegisterTransactionRoutes registers the routes for transactions.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

func (f TransactionQueryFilter) model() service.TransactionFilter {
	filter := service.TransactionFilter{
		Type:  models.TransactionType(f.Type),
		From:  f.From,
		Until: f.Until,
		Note:  f.Note,
	}

	if f.Group.UUID != uuid.Nil {
		filter.GroupID = f.Group.Ptr()
	}

	if f.Category.UUID != uuid.Nil {
		filter.CategoryID = f.Category.Ptr()
	}

	return filter
}

// GetTransactions returns the transactions the user can see
//
//	@Summary		Get transactions
//	@Description	Returns the user's own transactions and the transactions of the user's groups, newest first
//	@Tags			Transactions
//	@Produce		json
//	@Success		200			{object}	Response[[]models.Transaction]
//	@Failure		400			{object}	httpError
//	@Failure		401			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Param			group		query		string	false	"Filter by group ID"
//	@Param			category	query		string	false	"Filter by category ID"
//	@Param			type		query		string	false	"Filter by type"
//	@Param			from		query		string	false	"First day, inclusive"
//	@Param			until		query		string	false	"Last day, inclusive"
//	@Param			note		query		string	false	"Glob pattern for the note"
//	@Router			/v1/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var filter TransactionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.NewError(c, httputil.ErrInvalidQuery)
		return
	}

	transactions, err := co.Transactions.List(c.Request.Context(), a, filter.model())
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.Transaction]{Data: transactions})
}

// CreateTransaction creates a transaction
//
//	@Summary		Create transaction
//	@Description	Creates a transaction for the user. With a group ID, the transaction is shared with the group.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Success		201			{object}	Response[models.Transaction]
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Param			transaction	body		TransactionEditable	true	"Transaction"
//	@Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var data TransactionEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	transaction, err := co.Transactions.Create(c.Request.Context(), a, data.model())
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Transaction]{Data: transaction})
}

// GetTransaction returns a specific transaction
//
//	@Summary		Get transaction
//	@Tags			Transactions
//	@Produce		json
//	@Success		200	{object}	Response[models.Transaction]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	transaction, err := co.Transactions.Get(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Transaction]{Data: transaction})
}

// UpdateTransaction updates a transaction
//
//	@Summary		Update transaction
//	@Description	Updates a transaction. Only values to be updated need to be specified. Only the owner may do this.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	Response[models.Transaction]
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Failure		404			{object}	httpError
//	@Param			id			path		string				true	"ID formatted as string"
//	@Param			transaction	body		TransactionEditable	true	"Transaction"
//	@Router			/v1/transactions/{id} [patch]
func (co Controller) UpdateTransaction(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	fields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	var data TransactionEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	transaction, err := co.Transactions.Update(c.Request.Context(), a, uri.ID.UUID, data.model(), fields)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Transaction]{Data: transaction})
}

// DeleteTransaction deletes a transaction
//
//	@Summary		Delete transaction
//	@Tags			Transactions
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Transactions.Delete(c.Request.Context(), a, uri.ID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
