package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TapLogger tags the request logger with the operation and a fresh operation id,
// plus the value of param when the route has it.
func TapLogger(operation string, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		context := Logger(c).
			With().
			Str("operation", operation).
			Str("operationId", uuid.New().String())

		if param != "" {
			if value := c.Param(param); value != "" {
				context = context.Str(param, value)
			}
		}

		requestLogger := context.Logger()
		SetLogger(c, &requestLogger)
	}
}
