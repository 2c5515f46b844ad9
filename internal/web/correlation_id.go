package web

import (
	"bitbucket.org/crgw/transfers-web/internal/tools/requesting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CorrelationIdKey     = "correlationId"
	CorrelationIdHeader  = "x-correlation-id"
	maxCorrelationIdSize = 128
)

// CorrelationId middleware takes the correlation id from the request header or
// creates one, and carries it on the request context for outgoing calls.
func CorrelationId(c *gin.Context) {
	correlationId := c.GetHeader(CorrelationIdHeader)
	if correlationId == "" || len(correlationId) > maxCorrelationIdSize {
		correlationId = uuid.New().String()
	}

	c.Set(CorrelationIdKey, correlationId)
	c.Header(CorrelationIdHeader, correlationId)
	c.Request = c.Request.WithContext(requesting.WithCorrelationId(c.Request.Context(), correlationId))
}
