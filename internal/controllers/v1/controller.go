// Package v1 implements the JSON API.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/auth"
	"github.com/ledgerly/backend/internal/budget"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/invitation"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/ledgerly/backend/internal/service"
	"gorm.io/gorm"
)

// Controller holds the services the handlers use.
type Controller struct {
	Groups       *service.Groups
	Members      *service.Members
	Categories   *service.Categories
	Transactions *service.Transactions
	Profiles     *service.Profiles
	Invitations  *invitation.Service
	Budgets      *budget.Service
	Policy       policy.Evaluator
	Bus          *events.Bus

	// Heartbeat is the interval of keep-alive comments on event streams.
	Heartbeat time.Duration
}

// New wires all services on db.
func New(db *gorm.DB, bus *events.Bus, budgets *budget.Service) Controller {
	return Controller{
		Groups:       service.NewGroups(db, bus),
		Members:      service.NewMembers(db, bus),
		Categories:   service.NewCategories(db, bus),
		Transactions: service.NewTransactions(db, bus, budgets.Today),
		Profiles:     service.NewProfiles(db),
		Invitations:  invitation.NewService(db, bus),
		Budgets:      budgets,
		Policy:       policy.New(db),
		Bus:          bus,
		Heartbeat:    15 * time.Second,
	}
}

// Response is the body of successful responses.
type Response[T any] struct {
	Data T `json:"data"`
}

type httpError = httputil.HTTPError

// actor returns the authenticated actor. It writes the error response and
// returns false if there is none.
func actor(c *gin.Context) (policy.Actor, bool) {
	a, err := auth.Actor(c)
	if err != nil {
		httputil.NewError(c, err)
		return policy.Actor{}, false
	}

	return a, true
}

// RegisterRoutes registers all routes of the API. The group must
// authenticate requests with auth.Middleware.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", GetV1)
	r.OPTIONS("", OptionsV1)

	co.RegisterGroupRoutes(r.Group("/groups"))
	co.RegisterInvitationRoutes(r.Group("/invitations"))
	co.RegisterCategoryRoutes(r.Group("/categories"))
	co.RegisterTransactionRoutes(r.Group("/transactions"))
	co.RegisterBudgetRoutes(r.Group("/budgets"))
	co.RegisterProfileRoutes(r.Group("/profile"))

	r.OPTIONS("/budget-status", httputil.OptionsGet)
	r.GET("/budget-status", co.GetBudgetStatus)

	r.OPTIONS("/events", httputil.OptionsGet)
	r.GET("/events", co.GetEvents)
}

type V1Links struct {
	Groups       string `json:"groups" example:"https://example.com/api/v1/groups"`
	Invitations  string `json:"invitations" example:"https://example.com/api/v1/invitations"`
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories"`
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"`
	Budgets      string `json:"budgets" example:"https://example.com/api/v1/budgets"`
	BudgetStatus string `json:"budgetStatus" example:"https://example.com/api/v1/budget-status"`
	Profile      string `json:"profile" example:"https://example.com/api/v1/profile"`
	Events       string `json:"events" example:"https://example.com/api/v1/events"`
}

type V1Response struct {
	Links V1Links `json:"links"`
}

// GetV1 returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	V1Response
//	@Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := httputil.BaseURL(c) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Groups:       url + "/groups",
			Invitations:  url + "/invitations",
			Categories:   url + "/categories",
			Transactions: url + "/transactions",
			Budgets:      url + "/budgets",
			BudgetStatus: url + "/budget-status",
			Profile:      url + "/profile",
			Events:       url + "/events",
		},
	})
}

// OptionsV1 returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
