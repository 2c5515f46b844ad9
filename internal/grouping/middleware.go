package grouping

import (
	"bytes"
	"context"
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type RequestManager interface {
	HandleRequest(context.Context, func() (*Response, error)) (*Response, error)
}

type MiddlewareOptions struct {
	CreateManager func(
		redis redis.Cmdable,
		log *zerolog.Logger,
		cacheKey string,
	) RequestManager
	RedisClient redis.Cmdable
	// CacheKey identifies requests that may share one response, empty disables grouping
	CacheKey func(c *gin.Context) string
}

func Middleware(o MiddlewareOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if o.RedisClient == nil {
			c.Next()
			return
		}

		cacheKey := o.CacheKey(c)
		if cacheKey == "" {
			c.Next()
			return
		}

		log := web.Logger(c)
		groupingManager := o.CreateManager(o.RedisClient, log, cacheKey)

		requester := func() (*Response, error) {
			bodyWriter := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
			c.Writer = bodyWriter

			// expects the compare handler to be called
			c.Next()

			var err error
			if last := c.Errors.Last(); last != nil {
				err = last
			}

			headers := bodyWriter.Header().Clone()
			headers.Del(web.CorrelationIdHeader)

			return &Response{
				Code:    c.Writer.Status(),
				Body:    bodyWriter.body.String(),
				Headers: headers,
			}, err
		}

		response, err := groupingManager.HandleRequest(c.Request.Context(), requester)

		if !c.Writer.Written() {
			if err != nil {
				web.HandleError(c, http.StatusServiceUnavailable, "Unable to compare vehicles, please try again.", err)
				return
			}

			for key, values := range response.Headers {
				for _, value := range values {
					c.Writer.Header().Add(key, value)
				}
			}

			c.Data(response.Code, gin.MIMEJSON, []byte(response.Body))
		}

		c.Abort()
	}
}
