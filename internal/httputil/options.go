package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Options answers an OPTIONS request with the allowed methods.
func Options(c *gin.Context, methods ...string) {
	c.Header("allow", strings.Join(methods, ", "))
	c.Status(http.StatusNoContent)
}

func OptionsGet(c *gin.Context) {
	Options(c, http.MethodGet)
}

func OptionsGetPost(c *gin.Context) {
	Options(c, http.MethodGet, http.MethodPost)
}

func OptionsGetPatchDelete(c *gin.Context) {
	Options(c, http.MethodGet, http.MethodPatch, http.MethodDelete)
}

func OptionsPatchDelete(c *gin.Context) {
	Options(c, http.MethodPatch, http.MethodDelete)
}

func OptionsPutDelete(c *gin.Context) {
	Options(c, http.MethodPut, http.MethodDelete)
}

func OptionsPost(c *gin.Context) {
	Options(c, http.MethodPost)
}

func OptionsDelete(c *gin.Context) {
	Options(c, http.MethodDelete)
}
