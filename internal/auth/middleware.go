package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/httputil"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/rs/zerolog/log"
)

type contextKey string

const actorKey contextKey = "actor"

// Profiles creates or refreshes the profile of a verified user.
type Profiles interface {
	Ensure(ctx context.Context, id uuid.UUID, email string) (models.Profile, error)
}

// Middleware authenticates requests with a bearer token. Requests without
// a valid token are rejected with 401.
//
// The profile of the user is refreshed from the token and the actor is
// stored in the request context.
func Middleware(verifier *Verifier, profiles Profiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.HTTPError{Error: ErrMissingToken.Error()})
			return
		}

		actor, err := verifier.Verify(token)
		if err != nil {
			log.Debug().Str("request-id", requestid.Get(c)).Err(err).Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.HTTPError{Error: ErrInvalidToken.Error()})
			return
		}

		profile, err := profiles.Ensure(c.Request.Context(), actor.ID, actor.Email)
		if err != nil {
			httputil.NewError(c, err)
			return
		}
		actor.Email = profile.Email

		c.Set(string(actorKey), actor)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}

var errNoActor = errors.New("no authenticated actor on the request")

// Actor returns the actor of an authenticated request.
func Actor(c *gin.Context) (policy.Actor, error) {
	actor, ok := c.Get(string(actorKey))
	if !ok {
		return policy.Actor{}, errNoActor
	}

	return actor.(policy.Actor), nil
}
