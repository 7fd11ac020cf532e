package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
)

// RegisterCategoryRoutes registers the routes for categories.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// GetCategories returns all categories the user can see
//
//	@Summary		Get categories
//	@Description	Returns the user's categories and the categories of the other members of the user's groups
//	@Tags			Categories
//	@Produce		json
//	@Success		200	{object}	Response[[]models.Category]
//	@Failure		401	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	categories, err := co.Categories.List(c.Request.Context(), a)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[[]models.Category]{Data: categories})
}

// CreateCategory creates a category
//
//	@Summary		Create category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Success		201			{object}	Response[models.Category]
//	@Failure		400			{object}	httpError
//	@Failure		401			{object}	httpError
//	@Param			category	body		CategoryEditable	true	"Category"
//	@Router			/v1/categories [post]
func (co Controller) CreateCategory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var data CategoryEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	category, err := co.Categories.Create(c.Request.Context(), a, data.model())
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response[models.Category]{Data: category})
}

// GetCategory returns a specific category
//
//	@Summary		Get category
//	@Tags			Categories
//	@Produce		json
//	@Success		200	{object}	Response[models.Category]
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/categories/{id} [get]
func (co Controller) GetCategory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	category, err := co.Categories.Get(c.Request.Context(), a, uri.ID.UUID)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Category]{Data: category})
}

// UpdateCategory updates a category
//
//	@Summary		Update category
//	@Description	Updates a category. Only values to be updated need to be specified. Only the owner may do this.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	Response[models.Category]
//	@Failure		400			{object}	httpError
//	@Failure		403			{object}	httpError
//	@Failure		404			{object}	httpError
//	@Param			id			path		string				true	"ID formatted as string"
//	@Param			category	body		CategoryEditable	true	"Category"
//	@Router			/v1/categories/{id} [patch]
func (co Controller) UpdateCategory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	fields, err := httputil.GetBodyFields(c, CategoryEditable{})
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	var data CategoryEditable
	if err := httputil.BindData(c, &data); err != nil {
		httputil.NewError(c, err)
		return
	}

	category, err := co.Categories.Update(c.Request.Context(), a, uri.ID.UUID, data.model(), fields)
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[models.Category]{Data: category})
}

// DeleteCategory deletes a category
//
//	@Summary		Delete category
//	@Description	Deletes a category and the user's budgets on it. Fails while a group budget uses the category.
//	@Tags			Categories
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		403	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		409	{object}	httpError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/categories/{id} [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri URIID
	if !bindURI(c, &uri) {
		return
	}

	if err := co.Categories.Delete(c.Request.Context(), a, uri.ID.UUID); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
