package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const LoggerKey = "logger"

func RegisterLogger(logger *zerolog.Logger) func(c *gin.Context) {
	return func(c *gin.Context) {
		correlationId := c.GetString(CorrelationIdKey)

		requestLogger := logger.
			With().
			Str("correlationId", correlationId).
			Logger()

		SetLogger(c, &requestLogger)
	}
}

// SetLogger replaces the request logger both on the gin context and on the
// request context, where the outgoing request transports pick it up.
func SetLogger(c *gin.Context, logger *zerolog.Logger) {
	c.Set(LoggerKey, logger)
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
}

// Logger returns the request logger, or a disabled one outside the middleware chain.
func Logger(c *gin.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey); ok {
		if l, ok := logger.(*zerolog.Logger); ok {
			return l
		}
	}

	nop := zerolog.Nop()
	return &nop
}
