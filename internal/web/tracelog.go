package web

import (
	"strconv"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/metrics"
	"github.com/gin-gonic/gin"
)

const requestStartTimeKey = "requestStartTime"

// CurrentTimeFunc Current time. Can be mocked for testing.
var CurrentTimeFunc = time.Now

func StartRequest(c *gin.Context) {
	c.Set(requestStartTimeKey, CurrentTimeFunc())
}

func TraceLog(c *gin.Context) {
	// Finish all others and then write trace log
	c.Next()

	startTime := c.GetTime(requestStartTimeKey)
	if startTime.IsZero() {
		startTime = CurrentTimeFunc()
	}
	duration := time.Since(startTime).Seconds()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	metrics.IncomingRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	metrics.IncomingRequestDuration.WithLabelValues(c.Request.Method, route).Observe(duration)

	Logger(c).Info().
		Str("label", "trace").
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.Path).
		Str("route", route).
		Int("code", c.Writer.Status()).
		Float64("duration", duration).
		Msg("")
}
