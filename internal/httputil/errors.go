package httputil

import (
	"fmt"

	"github.com/ledgerly/backend/internal/models"
)

var (
	ErrInvalidBody      = fmt.Errorf("%w: the body of your request contains invalid or un-parseable data. Please check and try again", models.ErrInvalidInput)
	ErrRequestBodyEmpty = fmt.Errorf("%w: the request body must not be empty", models.ErrInvalidInput)
	ErrInvalidUUID      = fmt.Errorf("%w: the specified resource ID is not a valid UUID", models.ErrInvalidInput)
	ErrInvalidQuery     = fmt.Errorf("%w: a parameter in the query string is not valid", models.ErrInvalidInput)
)
