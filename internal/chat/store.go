package chat

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"github.com/lithammer/shortuuid/v3"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:"

// Session is one conversation with the assistant.
type Session struct {
	ID         string               `json:"id"`
	Transcript []schema.ChatMessage `json:"transcript"`
	LastIntent *schema.Intent       `json:"lastIntent,omitempty"`
	FlowID     string               `json:"flowId,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

type Store struct {
	cache *caching.Cacher
	ttl   time.Duration
}

func NewRedisStore(redisClient redis.Cmdable, ttl time.Duration) *Store {
	return &Store{cache: caching.NewRedisCache(redisClient, keyPrefix), ttl: ttl}
}

func NewMemoryStore(ttl time.Duration) *Store {
	return &Store{cache: caching.NewCacher(caching.NewMemoryEngine(), keyPrefix), ttl: ttl}
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	err := s.cache.Fetch(ctx, id, &session)
	if errors.Is(err, caching.ErrMiss) {
		return nil, schema.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *Store) Save(ctx context.Context, session *Session) error {
	return s.cache.Store(ctx, session.ID, session, s.ttl)
}

func newSessionID() string {
	return shortuuid.New()
}
