package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/httputil"
	ezuuid "github.com/ledgerly/backend/internal/uuid"
	"github.com/rs/zerolog/log"
)

type EventQuery struct {
	Group ezuuid.UUID `form:"group"` // Subscribe to this group instead of the user's own events
}

// GetEvents streams change notifications
//
//	@Summary		Event stream
//	@Description	Streams change notifications as server-sent events. Without a group, the user's own scope is streamed.
//	@Description	With a group, the group's scope is streamed. Only members may subscribe to a group, and the stream ends when the user leaves the group.
//	@Tags			Events
//	@Produce		text/event-stream
//	@Success		200		{object}	events.Event
//	@Failure		400		{object}	httpError
//	@Failure		403		{object}	httpError
//	@Failure		404		{object}	httpError
//	@Param			group	query		string	false	"Group ID"
//	@Router			/v1/events [get]
func (co Controller) GetEvents(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var query EventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.NewError(c, httputil.ErrInvalidQuery)
		return
	}

	ctx := c.Request.Context()
	scope := events.UserScope(a.ID)

	if query.Group.UUID != uuid.Nil {
		if _, err := co.Groups.Get(ctx, a, query.Group.UUID); err != nil {
			httputil.NewError(c, err)
			return
		}

		if err := co.Policy.ReadMembers(ctx, a, query.Group.UUID); err != nil {
			httputil.NewError(c, err)
			return
		}

		scope = events.GroupScope(query.Group.UUID)
	}

	sub := co.Bus.Subscribe(scope)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		e, err := co.next(ctx, sub)
		switch {
		case err == nil:
			// Members who were removed stop receiving the group's events
			if scope.IsGroup() {
				if err := co.Policy.ReadMembers(ctx, a, query.Group.UUID); err != nil {
					log.Debug().Str("scope", string(scope)).Err(err).Msg("event stream closed, no longer a member")
					return
				}
			}

			c.SSEvent(string(e.Kind), e)
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				return
			}
		default:
			log.Debug().Str("scope", string(scope)).Err(err).Msg("event stream ended")
			return
		}

		c.Writer.Flush()
	}
}

// next waits for the next event for at most one heartbeat interval.
func (co Controller) next(ctx context.Context, sub *events.Subscription) (events.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, co.Heartbeat)
	defer cancel()

	return sub.Next(ctx)
}
