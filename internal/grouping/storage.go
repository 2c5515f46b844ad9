package grouping

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"bitbucket.org/crgw/transfers-web/internal/tools/slowlog"
	"github.com/redis/go-redis/v9"
)

const lockTTL = 30 * time.Second

type CachedValue struct {
	Code    int                 `json:"code"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

type storage struct {
	redis   redis.Cmdable
	cache   *caching.Cacher
	slowLog slowlog.Logger
}

func newStorage(redisClient redis.Cmdable, slowLog slowlog.Logger) *storage {
	return &storage{
		redis:   redisClient,
		cache:   caching.NewRedisCache(redisClient, ""),
		slowLog: slowLog,
	}
}

func (s *storage) AcquireLock(ctx context.Context, cacheKey string) (bool, error) {
	return s.redis.SetNX(ctx, cacheKey, "", lockTTL).Result()
}

// ReleaseLock runs detached from the request context, a cancelled request must
// still free the lock for the waiting ones.
func (s *storage) ReleaseLock(_ context.Context, cacheKey string) {
	s.redis.Del(context.Background(), cacheKey)
}

func (s *storage) StoreResponse(ctx context.Context, responseKey string, response *Response, duration time.Duration) error {
	s.slowLog.Start("grouping:store")
	defer s.slowLog.Stop("grouping:store")

	return s.cache.Store(ctx, responseKey, CachedValue{
		Code:    response.Code,
		Body:    response.Body,
		Headers: response.Headers,
	}, duration)
}

// FetchResponse returns nil without error when nothing is stored yet.
func (s *storage) FetchResponse(ctx context.Context, responseKey string) (*CachedValue, error) {
	s.slowLog.Start("grouping:fetch")
	defer s.slowLog.Stop("grouping:fetch")

	var value CachedValue
	err := s.cache.Fetch(ctx, responseKey, &value)
	if errors.Is(err, caching.ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &value, nil
}
