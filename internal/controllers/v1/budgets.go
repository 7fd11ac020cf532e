package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/budget"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
)

// RegisterBudgetRoutes registers the routes for personal budgets.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetBudgets)
	r.POST("", co.SetBudget)

	r.OPTIONS("/:id", httputil.OptionsDelete)
	r.DELETE("/:id", co.DeleteBudget)
}

// GetBudgets returns the user's daily limits
//
//	@Summary		Get budgets
//	@Tags			Budgets
//	@Produce		json
//	@Success		200	{object}	Response[[]models.Budget]
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/budgets [get]
func (co Controller) GetBudgets(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	budgets, err := co.Budgets.ListPersonalLimits(c.Request.Context(), a)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.Budget]{Data: budgets})
}

// SetBudget sets the daily limit of one of the user's categories
//
//	@Summary		Set budget
//	@Description	Sets the daily limit of a category. An existing limit for the category is replaced and keeps its ID.
//	@Tags			Budgets
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	Response[models.Budget]
//	@Failure		400		{object}	httpError
//	@Failure		401		{object}	httpError
//	@Param			budget	body		LimitEditable	true	"Limit"
//	@Router			/v1/budgets [post]
func (co Controller) SetBudget(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var data LimitEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	b, err := co.Budgets.SetPersonalLimit(c.Request.Context(), a, data.CategoryID, data.Amount)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Budget]{Data: b})
}

// DeleteBudget removes a daily limit
//
//	@Summary		Delete budget
//	@Tags			Budgets
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/budgets/{id} [delete]
func (co Controller) DeleteBudget(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Budgets.RemovePersonalLimit(c.Request.Context(), a, uri.ID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBudgetStatus returns today's spending against the user's limits
//
//	@Summary		Get budget status
//	@Description	Returns today's spending for every limit of the user and for the aggregate limit, if set
//	@Tags			Budgets
//	@Produce		json
//	@Success		200	{object}	Response[budget.Report]
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/budget-status [get]
func (co Controller) GetBudgetStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	report, err := co.Budgets.PersonalStatus(c.Request.Context(), a)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[budget.Report]{Data: report})
}

// GetGroupBudgets returns the daily limits of a group
//
//	@Summary		Get group budgets
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[[]models.GroupBudget]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id}/budgets [get]
func (co Controller) GetGroupBudgets(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	budgets, err := co.Budgets.ListGroupLimits(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.GroupBudget]{Data: budgets})
}

// SetGroupBudget sets the daily limit of a category for a group
//
//	@Summary		Set group budget
//	@Description	Sets the daily limit of a category for the group. Transactions of all members in categories with the same name count against it.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	Response[models.GroupBudget]
//	@Failure		400		{object}	httpError
//	@Failure		403		{object}	httpError
//	@Failure		404		{object}	httpError
//	@Param			id		path		string			true	"ID formatted as string"
//	@Param			budget	body		LimitEditable	true	"Limit"
//	@Router			/v1/groups/{id}/budgets [post]
func (co Controller) SetGroupBudget(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	var data LimitEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	b, err := co.Budgets.SetGroupLimit(c.Request.Context(), a, uri.ID.UUID, data.CategoryID, data.Amount)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.GroupBudget]{Data: b})
}

// DeleteGroupBudget removes a daily limit of a group
//
//	@Summary		Delete group budget
//	@Tags			Groups
//	@Success		204
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Failure		404			{object}	httpError
//	@Param			id			path		string	true	"Group ID formatted as string"
//	@Param			budgetId	path		string	true	"Budget ID formatted as string"
//	@Router			/v1/groups/{id}/budgets/{budgetId} [delete]
func (co Controller) DeleteGroupBudget(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIBudget
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Budgets.RemoveGroupLimit(c.Request.Context(), a, uri.ID.UUID, uri.BudgetID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetGroupBudgetStatus returns today's spending of a group against its limits
//
//	@Summary		Get group budget status
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[budget.Report]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id}/budget-status [get]
func (co Controller) GetGroupBudgetStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	report, err := co.Budgets.GroupStatus(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[budget.Report]{Data: report})
}

// SetGroupLimit sets the daily limit over all expenses of a group
//
//	@Summary		Set group aggregate limit
//	@Description	Sets the daily limit over all expense categories of the group. Any member may do this.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	Response[models.Group]
//	@Failure		400		{object}	httpError
//	@Failure		403		{object}	httpError
//	@Failure		404		{object}	httpError
//	@Param			id		path		string					true	"ID formatted as string"
//	@Param			limit	body		AggregateLimitEditable	true	"Limit"
//	@Router			/v1/groups/{id}/limit [put]
func (co Controller) SetGroupLimit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	var data AggregateLimitEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	if err := co.Budgets.SetGroupAggregateLimit(c.Request.Context(), a, uri.ID.UUID, data.Amount); err != nil {
		httputil.NewError(c, err)
		return
	}

	group, err := co.Groups.Get(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Group]{Data: group})
}

// DeleteGroupLimit removes the daily limit over all expenses of a group
//
//	@Summary		Delete group aggregate limit
//	@Tags			Groups
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id}/limit [delete]
func (co Controller) DeleteGroupLimit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Budgets.ClearGroupAggregateLimit(c.Request.Context(), a, uri.ID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
