// Package healthz reports if the backend can serve requests.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/httputil"
	"gorm.io/gorm"
)

// Controller checks the database and the event bus.
type Controller struct {
	DB  *gorm.DB
	Bus *events.Bus
}

func New(db *gorm.DB, bus *events.Bus) Controller {
	return Controller{DB: db, Bus: bus}
}

type Response struct {
	Data Health `json:"data"`
}

type Health struct {
	Database      string `json:"database" example:"ok"`
	Subscriptions int    `json:"subscriptions" example:"3"` // Open event subscriptions, including event streams and workers
}

func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.Options)
	r.GET("", co.Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func (co Controller) Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Pings the database and reports the open event subscriptions
// @Tags			General
// @Produce		json
// @Success		200	{object}	Response
// @Failure		500	{object}	httputil.HTTPError
// @Router			/healthz [get]
func (co Controller) Get(c *gin.Context) {
	sqlDB, err := co.DB.DB()
	if err != nil {
		httputil.NewError(c, err)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		httputil.NewError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Data: Health{
		Database:      "ok",
		Subscriptions: co.Bus.Open(),
	}})
}
