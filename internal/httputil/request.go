package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// BindData binds the JSON body of the request to data.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrRequestBodyEmpty
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// GetBodyFields returns the names of the fields of resource that are set
// in the request body.
//
// The body is read and restored, it must therefore be called before
// BindData.
func GetBodyFields(c *gin.Context, resource any) ([]string, error) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var mapBody map[string]any
	if err := json.Unmarshal(body, &mapBody); err != nil {
		if len(body) == 0 {
			return nil, ErrRequestBodyEmpty
		}
		return nil, ErrInvalidBody
	}

	var fields []string
	val := reflect.Indirect(reflect.ValueOf(resource))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i)
		param, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		if _, ok := mapBody[param]; ok {
			fields = append(fields, field.Name)
		}
	}

	return fields, nil
}

// UUIDParam parses the path parameter as UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return id, nil
}

// RequestHost returns the scheme and host the request was made to, taking
// reverse proxy headers into account.
//
// The scheme defaults to http and only changes to https if the
// x-forwarded-proto header says so.
func RequestHost(c *gin.Context) string {
	scheme := "http"
	if c.Request.Header.Get("x-forwarded-proto") == "https" {
		scheme = "https"
	}

	host := c.Request.Host
	var forwardedPrefix string

	if xForwardedHost := c.Request.Header.Get("x-forwarded-host"); xForwardedHost != "" {
		host = xForwardedHost
		forwardedPrefix = c.Request.Header.Get("x-forwarded-prefix")
	}

	return scheme + "://" + host + forwardedPrefix
}

// BaseURL returns the public URL of the API. It is the configured URL set
// by the router, or the host of the request if none was set.
func BaseURL(c *gin.Context) string {
	if url := c.GetString(string(models.DBContextURL)); url != "" {
		return url
	}

	return RequestHost(c)
}
