package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/service"
)

// RegisterGroupRoutes registers the routes for groups and their members,
// invitations, transactions and budgets.
func (co Controller) RegisterGroupRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetGroups)
		r.POST("", co.CreateGroup)
	}

	// Group with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetGroup)
		r.PATCH("/:id", co.UpdateGroup)
		r.DELETE("/:id", co.DeleteGroup)
	}

	// Members
	{
		r.OPTIONS("/:id/members", httputil.OptionsGet)
		r.GET("/:id/members", co.GetMembers)
		r.OPTIONS("/:id/members/:memberId", httputil.OptionsPatchDelete)
		r.PATCH("/:id/members/:memberId", co.UpdateMember)
		r.DELETE("/:id/members/:memberId", co.DeleteMember)
	}

	// Invitations
	{
		r.OPTIONS("/:id/invitations", httputil.OptionsGetPost)
		r.GET("/:id/invitations", co.GetGroupInvitations)
		r.POST("/:id/invitations", co.CreateInvitation)
	}

	r.OPTIONS("/:id/transactions", httputil.OptionsGet)
	r.GET("/:id/transactions", co.GetGroupTransactions)

	// Budgets
	{
		r.OPTIONS("/:id/budgets", httputil.OptionsGetPost)
		r.GET("/:id/budgets", co.GetGroupBudgets)
		r.POST("/:id/budgets", co.SetGroupBudget)
		r.OPTIONS("/:id/budgets/:budgetId", httputil.OptionsDelete)
		r.DELETE("/:id/budgets/:budgetId", co.DeleteGroupBudget)
		r.OPTIONS("/:id/budget-status", httputil.OptionsGet)
		r.GET("/:id/budget-status", co.GetGroupBudgetStatus)
		r.OPTIONS("/:id/limit", httputil.OptionsPutDelete)
		r.PUT("/:id/limit", co.SetGroupLimit)
		r.DELETE("/:id/limit", co.DeleteGroupLimit)
	}
}

// GetGroups returns all groups the user can see
//
//	@Summary		Get groups
//	@Description	Returns the groups the user created or is a member of
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[[]models.Group]
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/groups [get]
func (co Controller) GetGroups(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	groups, err := co.Groups.List(c.Request.Context(), a)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.Group]{Data: groups})
}

// CreateGroup creates a group with the user as admin
//
//	@Summary		Create group
//	@Description	Creates a new group. The user becomes its first admin.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Success		201		{object}	Response[models.Group]
//	@Failure		400		{object}	httpError
//	@Failure		401		{object}	httpError
//	@Failure		500		{object}	httpError
//	@Param			group	body		GroupEditable	true	"Group"
//	@Router			/v1/groups [post]
func (co Controller) CreateGroup(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var data GroupEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	group, err := co.Groups.Create(c.Request.Context(), a, data.model())
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Group]{Data: group})
}

// GetGroup returns a specific group
//
//	@Summary		Get group
//	@Description	Returns a specific group
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[models.Group]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id} [get]
func (co Controller) GetGroup(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	group, err := co.Groups.Get(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Group]{Data: group})
}

// UpdateGroup updates name and description of a group
//
//	@Summary		Update group
//	@Description	Updates an existing group. Only values to be updated need to be specified. Only admins may do this.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	Response[models.Group]
//	@Failure		400		{object}	httpError
//	@Failure		403		{object}	httpError
//	@Failure		404		{object}	httpError
//	@Param			id		path		string			true	"ID formatted as string"
//	@Param			group	body		GroupEditable	true	"Group"
//	@Router			/v1/groups/{id} [patch]
func (co Controller) UpdateGroup(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	fields, err := httputil.GetBodyFields(c, GroupEditable{})
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	var data GroupEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	group, err := co.Groups.Update(c.Request.Context(), a, uri.ID.UUID, data.model(), fields)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Group]{Data: group})
}

// DeleteGroup deletes a group
//
//	@Summary		Delete group
//	@Description	Deletes a group with its members, invitations and budgets. Its transactions become personal transactions of their owners.
//	@Tags			Groups
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id} [delete]
func (co Controller) DeleteGroup(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Groups.Delete(c.Request.Context(), a, uri.ID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMembers returns the members of a group
//
//	@Summary		Get group members
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[[]models.GroupMember]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id}/members [get]
func (co Controller) GetMembers(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	members, err := co.Members.List(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.GroupMember]{Data: members})
}

// UpdateMember changes the role of a member
//
//	@Summary		Update group member
//	@Description	Changes the role of a member. Only admins may do this. The creator of the group always stays admin.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	Response[models.GroupMember]
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Failure		404			{object}	httpError
//	@Failure		409			{object}	httpError
//	@Param			id			path		string			true	"Group ID formatted as string"
//	@Param			memberId	path		string			true	"Member ID formatted as string"
//	@Param			member		body		MemberEditable	true	"Member"
//	@Router			/v1/groups/{id}/members/{memberId} [patch]
func (co Controller) UpdateMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIMember
	if !bindURI(c, &uri) {
		return
	}

	var data MemberEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	member, err := co.Members.UpdateRole(c.Request.Context(), a, uri.ID.UUID, uri.MemberID.UUID, data.Role)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.GroupMember]{Data: member})
}

// DeleteMember removes a member from a group
//
//	@Summary		Remove group member
//	@Description	Removes a member from the group. Only admins may do this. The creator cannot be removed.
//	@Tags			Groups
//	@Success		204
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Failure		404			{object}	httpError
//	@Failure		409			{object}	httpError
//	@Param			id			path		string	true	"Group ID formatted as string"
//	@Param			memberId	path		string	true	"Member ID formatted as string"
//	@Router			/v1/groups/{id}/members/{memberId} [delete]
func (co Controller) DeleteMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIMember
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Members.Remove(c.Request.Context(), a, uri.ID.UUID, uri.MemberID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetGroupTransactions returns the transactions of a group
//
//	@Summary		Get group transactions
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[[]models.Transaction]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id}/transactions [get]
func (co Controller) GetGroupTransactions(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	transactions, err := co.Transactions.List(c.Request.Context(), a, service.TransactionFilter{GroupID: &uri.ID.UUID})
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.Transaction]{Data: transactions})
}
