package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
)

// RegisterProfileRoutes registers the routes for the profile of the
// requesting user.
func (co Controller) RegisterProfileRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetProfile)

	r.OPTIONS("/limit", httputil.OptionsPutDelete)
	r.PUT("/limit", co.SetProfileLimit)
	r.DELETE("/limit", co.DeleteProfileLimit)
}

// GetProfile returns the profile of the user
//
//	@Summary		Get profile
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	Response[models.Profile]
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/profile [get]
func (co Controller) GetProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	profile, err := co.Profiles.Get(c.Request.Context(), a)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Profile]{Data: profile})
}

// SetProfileLimit sets the user's daily limit over all expenses
//
//	@Summary		Set aggregate limit
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	Response[models.Profile]
//	@Failure		400		{object}	httpError
//	@Failure		401		{object}	httpError
//	@Param			limit	body		AggregateLimitEditable	true	"Limit"
//	@Router			/v1/profile/limit [put]
func (co Controller) SetProfileLimit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var data AggregateLimitEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	if err := co.Budgets.SetPersonalAggregateLimit(c.Request.Context(), a, data.Amount); err != nil {
		httputil.NewError(c, err)
		return
	}

	co.GetProfile(c)
}

// DeleteProfileLimit removes the user's daily limit over all expenses
//
//	@Summary		Delete aggregate limit
//	@Tags			Profile
//	@Success		204
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/profile/limit [delete]
func (co Controller) DeleteProfileLimit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := co.Budgets.ClearPersonalAggregateLimit(c.Request.Context(), a); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
