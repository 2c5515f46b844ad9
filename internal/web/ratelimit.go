package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewLimiterStore keeps counters in redis when a client is configured so limits
// hold across instances.
func NewLimiterStore(redisClient *redis.Client) (limiter.Store, error) {
	if redisClient == nil {
		return memory.NewStore(), nil
	}

	return redisstore.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix:   "rate_limiter",
		MaxRetry: 3,
	})
}

// RateLimit limits requests per client IP for one route group. formatted is the
// limiter notation, e.g. "10-M" for ten requests a minute.
func RateLimit(store limiter.Store, name string, formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", name, err)
	}

	instance := limiter.New(store, rate)

	return ginlimiter.NewMiddleware(instance,
		ginlimiter.WithKeyGetter(func(c *gin.Context) string {
			return name + ":" + c.ClientIP()
		}),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			HandleError(c, http.StatusTooManyRequests, "Too many requests, please wait a moment and try again.", nil)
		}),
		ginlimiter.WithErrorHandler(func(c *gin.Context, err error) {
			// counters unavailable, let the request through
			Logger(c).Err(err).Str("label", "ratelimit").Msg("Rate limiter store failed")
			c.Next()
		}),
	), nil
}
