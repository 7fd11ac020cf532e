package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
)

// RegisterInvitationRoutes registers the routes for invitations of the
// requesting user.
func (co Controller) RegisterInvitationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetInvitations)

	r.OPTIONS("/:id", httputil.OptionsDelete)
	r.DELETE("/:id", co.DeleteInvitation)

	r.OPTIONS("/:id/accept", httputil.OptionsPost)
	r.POST("/:id/accept", co.AcceptInvitation)

	r.OPTIONS("/:id/decline", httputil.OptionsPost)
	r.POST("/:id/decline", co.DeclineInvitation)
}

// GetInvitations returns the pending invitations for the user
//
//	@Summary		Get invitations
//	@Description	Returns the pending invitations addressed to the user, by user ID or by e-mail address
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	Response[[]models.GroupInvitation]
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/invitations [get]
func (co Controller) GetInvitations(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	invitations, err := co.Invitations.Discover(c.Request.Context(), a)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.GroupInvitation]{Data: invitations})
}

// AcceptInvitation accepts an invitation
//
//	@Summary		Accept invitation
//	@Description	Accepts the invitation and makes the user a member of the group. Accepting twice has no further effect.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	Response[models.GroupInvitation]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		409	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/invitations/{id}/accept [post]
func (co Controller) AcceptInvitation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	invitation, err := co.Invitations.Accept(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.GroupInvitation]{Data: invitation})
}

// DeclineInvitation declines an invitation
//
//	@Summary		Decline invitation
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	Response[models.GroupInvitation]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		409	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/invitations/{id}/decline [post]
func (co Controller) DeclineInvitation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	invitation, err := co.Invitations.Decline(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.GroupInvitation]{Data: invitation})
}

// DeleteInvitation revokes an invitation
//
//	@Summary		Revoke invitation
//	@Description	Deletes an invitation. Only the inviter and the invitee may do this.
//	@Tags			Invitations
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/invitations/{id} [delete]
func (co Controller) DeleteInvitation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Invitations.Revoke(c.Request.Context(), a, uri.ID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetGroupInvitations returns the invitations sent for a group
//
//	@Summary		Get group invitations
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	Response[[]models.GroupInvitation]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/groups/{id}/invitations [get]
func (co Controller) GetGroupInvitations(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	invitations, err := co.Invitations.ListSent(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.GroupInvitation]{Data: invitations})
}

// CreateInvitation invites someone to a group
//
//	@Summary		Create invitation
//	@Description	Invites the owner of an e-mail address to the group. Any member may do this.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Success		201			{object}	Response[models.GroupInvitation]
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Failure		404			{object}	httpError
//	@Failure		409			{object}	httpError
//	@Param			id			path		string				true	"ID formatted as string"
//	@Param			invitation	body		InvitationEditable	true	"Invitation"
//	@Router			/v1/groups/{id}/invitations [post]
func (co Controller) CreateInvitation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	var data InvitationEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	invitation, err := co.Invitations.Create(c.Request.Context(), a, uri.ID.UUID, data.Email)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.GroupInvitation]{Data: invitation})
}
