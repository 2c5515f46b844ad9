package flowstore

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"github.com/lithammer/shortuuid/v3"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "flow:"
	lockPrefix = "flow-lock:"
	// lockTTL frees the lock of a request that died while holding it
	lockTTL  = 30 * time.Second
	lockPoll = 50 * time.Millisecond
)

// Store keeps flows for the lifetime of a page. Reading or saving a flow
// extends its lifetime by ttl.
type Store struct {
	cache *caching.Cacher
	locks *caching.Cacher
	ttl   time.Duration
	// LockWait bounds how long Lock waits for another request on the same flow
	LockWait time.Duration
	now      func() time.Time
}

func NewRedisStore(redisClient redis.Cmdable, ttl time.Duration) *Store {
	return newStore(
		caching.NewRedisCache(redisClient, keyPrefix),
		caching.NewRedisCache(redisClient, lockPrefix),
		ttl,
	)
}

// NewMemoryStore keeps flows in process, for local development without redis.
func NewMemoryStore(ttl time.Duration) *Store {
	engine := caching.NewMemoryEngine()
	return newStore(
		caching.NewCacher(engine, keyPrefix),
		caching.NewCacher(engine, lockPrefix),
		ttl,
	)
}

func newStore(cache *caching.Cacher, locks *caching.Cacher, ttl time.Duration) *Store {
	return &Store{
		cache:    cache,
		locks:    locks,
		ttl:      ttl,
		LockWait: 10 * time.Second,
		now:      time.Now,
	}
}

func NewID() string {
	return shortuuid.New()
}

// Create starts and stores a new flow.
func (s *Store) Create(ctx context.Context, corporate *booking.CorporateContext) (*booking.Flow, error) {
	flow := booking.NewFlow(NewID(), corporate, s.now())
	if err := s.Save(ctx, flow); err != nil {
		return nil, err
	}

	return flow, nil
}

func (s *Store) Get(ctx context.Context, id string) (*booking.Flow, error) {
	var flow booking.Flow
	err := s.cache.Fetch(ctx, id, &flow)
	if errors.Is(err, caching.ErrMiss) {
		return nil, schema.ErrFlowNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Touch(ctx, id, s.ttl); err != nil && !errors.Is(err, caching.ErrMiss) {
		return nil, err
	}

	return &flow, nil
}

func (s *Store) Save(ctx context.Context, flow *booking.Flow) error {
	flow.UpdatedAt = s.now()
	return s.cache.Store(ctx, flow.ID, flow, s.ttl)
}

// Lock holds the flow for one load, change and save. It waits while another
// request holds it and gives up with schema.ErrFlowBusy after LockWait.
// The returned release must be called once the flow is saved.
func (s *Store) Lock(ctx context.Context, id string) (func(), error) {
	deadline := time.NewTimer(s.LockWait)
	defer deadline.Stop()

	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()

	for {
		taken, err := s.locks.Acquire(ctx, id, lockTTL)
		if err != nil {
			return nil, err
		}
		if taken {
			return func() {
				// the request context may already be cancelled here
				_ = s.locks.Delete(context.Background(), id)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, schema.ErrFlowBusy
		case <-ticker.C:
		}
	}
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, id)
}
