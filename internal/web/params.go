package web

import (
	"github.com/gin-gonic/gin"

	"bitbucket.org/crgw/transfers-web/internal/tools/validating"
)

const ParamsKey = "params"

// PrepareParams binds the request (JSON body or query, depending on method and
// content type) into a new T stored under ParamsKey.
func PrepareParams[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		params := new(T)

		if err := c.ShouldBind(params); err != nil {
			RespondError(c, validating.FromError(err))
			return
		}

		c.Set(ParamsKey, params)
	}
}

// Params returns what PrepareParams bound for this route.
func Params[T any](c *gin.Context) *T {
	return c.MustGet(ParamsKey).(*T)
}
