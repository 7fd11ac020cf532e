package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"you are not allowed to read this group"`
}

// Status returns the HTTP status for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// NewError writes the error response for err.
//
// Messages of unexpected errors are logged, but not sent to the client.
func NewError(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		err = fmt.Errorf("%w. The request id is '%v', send this to your server administrator to help them finding the problem", models.ErrGeneral, requestid.Get(c))
	}

	c.AbortWithStatusJSON(status, HTTPError{Error: err.Error()})
}
