package grouping

import (
	"context"
	"net/http"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/metrics"
	"bitbucket.org/crgw/transfers-web/internal/tools/slowlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	HitHeader = "x-grouping-hit"

	successTTL   = time.Minute
	failureTTL   = 10 * time.Second
	pollInterval = 200 * time.Millisecond
)

type Response struct {
	Code    int
	Headers http.Header
	Body    string
}

type Storage interface {
	AcquireLock(ctx context.Context, cacheKey string) (bool, error)
	ReleaseLock(ctx context.Context, cacheKey string)
	StoreResponse(ctx context.Context, responseKey string, response *Response, duration time.Duration) error
	FetchResponse(ctx context.Context, responseKey string) (*CachedValue, error)
}

type requestManager struct {
	cache    Storage
	log      *zerolog.Logger
	slowLog  slowlog.Logger
	cacheKey string
}

func isStatusCodeAcceptable(code int) bool {
	return code >= 200 && code < 300
}

func (m *requestManager) requestAndStore(
	ctx context.Context,
	responseKey string,
	requester func() (*Response, error),
) (*Response, error) {
	m.slowLog.Start("grouping:requestAndStore")
	defer m.slowLog.Stop("grouping:requestAndStore")
	defer m.cache.ReleaseLock(ctx, m.cacheKey)

	response, err := requester()
	if err != nil {
		m.log.Err(err).Msg("Unable to compare vehicles")
		return nil, err
	}

	duration := successTTL
	if !isStatusCodeAcceptable(response.Code) {
		duration = failureTTL
	}

	if err := m.cache.StoreResponse(context.Background(), responseKey, response, duration); err != nil {
		m.log.Err(err).Str("key", responseKey).Msg("Unable to store grouped response")
	}

	metrics.GroupedRequests.WithLabelValues("requested").Inc()

	return response, nil
}

func (m *requestManager) requestOrWait(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	responseKey := "res:" + m.cacheKey

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cached, err := m.cache.FetchResponse(ctx, responseKey)
		if err != nil {
			m.log.Err(err).
				Str("label", "cache").
				Bool("hit", false).
				Str("key", responseKey).
				Msg("Error fetching from cache")

			metrics.GroupedRequests.WithLabelValues("bypassed").Inc()
			return requester()
		}

		if cached != nil {
			m.log.Info().
				Str("label", "cache").
				Bool("hit", true).
				Str("key", m.cacheKey).
				Msg("Used grouped response")

			headers := http.Header(cached.Headers).Clone()
			if headers == nil {
				headers = http.Header{}
			}
			headers.Set(HitHeader, "hit")

			metrics.GroupedRequests.WithLabelValues("hit").Inc()
			return &Response{
				Code:    cached.Code,
				Body:    cached.Body,
				Headers: headers,
			}, nil
		}

		canMakeTheRequest, err := m.cache.AcquireLock(ctx, m.cacheKey)
		if err != nil || canMakeTheRequest {
			return m.requestAndStore(ctx, responseKey, requester)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (m *requestManager) HandleRequest(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	m.slowLog.Start("grouping:HandleRequest")
	defer m.slowLog.Stop("grouping:HandleRequest")
	return m.requestOrWait(ctx, requester)
}

// NewRequestManager groups identical requests identified by cacheKey: the first
// one calls through, the others wait for its stored response.
func NewRequestManager(
	redis redis.Cmdable,
	log *zerolog.Logger,
	cacheKey string,
) RequestManager {
	logWithGroupingId := log.With().Str("groupingId", uuid.New().String()).Logger()
	slowLog := slowlog.CreateLogger(&logWithGroupingId, 0)

	return &requestManager{
		cacheKey: cacheKey,
		cache:    newStorage(redis, slowLog),
		log:      &logWithGroupingId,
		slowLog:  slowLog,
	}
}
