// Package session holds the signed in corporate user for the lifetime of a
// browser session. The browser only ever sees an opaque session id, the auth
// token stays server side.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"bitbucket.org/crgw/transfers-web/internal/tools/client/corporate"
	"github.com/lithammer/shortuuid/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "session:"

type Authenticator interface {
	Login(ctx context.Context, credentials schema.Credentials) (schema.LoginResult, error)
	VerifySession(ctx context.Context, token string) (schema.VerifiedSession, error)
	Logout(ctx context.Context, token string) error
}

// Context is the explicit session passed to everything acting for the user.
type Context struct {
	ID        string         `json:"-"`
	Token     string         `json:"-"`
	User      schema.User    `json:"user"`
	Account   schema.Account `json:"account"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// Corporate is what a booking flow started by this user knows about them.
func (s *Context) Corporate(preferences *schema.Preferences) *booking.CorporateContext {
	corporate := &booking.CorporateContext{
		AccountID:    s.Account.ID,
		AccountName:  s.Account.Name,
		PaymentTerms: s.Account.PaymentTerms,
		Profile:      s.User.Contact(),
	}

	if preferences != nil {
		corporate.PassengerID = preferences.DefaultPassengerID
		corporate.Defaults.VehicleClass = preferences.DefaultVehicle
		if preferences.DefaultPassengers != nil {
			corporate.Defaults.Passengers = *preferences.DefaultPassengers
		}
		if preferences.DefaultLuggage != nil {
			corporate.Defaults.Luggage = *preferences.DefaultLuggage
		}
	}

	return corporate
}

type stored struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Manager struct {
	auth  Authenticator
	cache *caching.Cacher
	ttl   time.Duration
	now   func() time.Time
}

func NewRedisManager(auth Authenticator, redisClient redis.Cmdable, ttl time.Duration) *Manager {
	return newManager(auth, caching.NewRedisCache(redisClient, keyPrefix), ttl)
}

func NewMemoryManager(auth Authenticator, ttl time.Duration) *Manager {
	return newManager(auth, caching.NewCacher(caching.NewMemoryEngine(), keyPrefix), ttl)
}

func newManager(auth Authenticator, cache *caching.Cacher, ttl time.Duration) *Manager {
	return &Manager{
		auth:  auth,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *Manager) lifetime(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return m.ttl
	}

	remaining := expiresAt.Sub(m.now())
	if remaining < m.ttl {
		return remaining
	}

	return m.ttl
}

// Login signs the user in and stores the token under a new session id.
func (m *Manager) Login(ctx context.Context, credentials schema.Credentials) (*Context, error) {
	result, err := m.auth.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}

	verified, err := m.auth.VerifySession(ctx, result.Token)
	if err != nil {
		return nil, err
	}

	session := populate(newID(), result.Token, result.ExpiresAt, verified)

	lifetime := m.lifetime(result.ExpiresAt)
	if lifetime <= 0 {
		return nil, schema.ErrMissingSession
	}

	if err := m.cache.Store(ctx, session.ID, stored{Token: result.Token, ExpiresAt: result.ExpiresAt}, lifetime); err != nil {
		return nil, err
	}

	return session, nil
}

// Load rebuilds the session: stored token, then local expiry check, then the
// auth service verification. A session failing any step is cleared.
func (m *Manager) Load(ctx context.Context, id string) (*Context, error) {
	if id == "" {
		return nil, schema.ErrMissingSession
	}

	var entry stored
	err := m.cache.Fetch(ctx, id, &entry)
	if errors.Is(err, caching.ErrMiss) {
		return nil, schema.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := corporate.DecodeClaims(entry.Token, m.now()); err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Msg("Dropping session with unusable token")
		m.clear(ctx, id)
		return nil, schema.ErrSessionNotFound
	}

	verified, err := m.auth.VerifySession(ctx, entry.Token)
	if err != nil {
		var apiErr schema.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			m.clear(ctx, id)
			return nil, schema.ErrSessionNotFound
		}
		return nil, err
	}

	return populate(id, entry.Token, entry.ExpiresAt, verified), nil
}

// Logout revokes the token and clears the session. The local session is
// cleared even if revoking fails.
func (m *Manager) Logout(ctx context.Context, id string) error {
	var entry stored
	err := m.cache.Fetch(ctx, id, &entry)
	if errors.Is(err, caching.ErrMiss) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := m.auth.Logout(ctx, entry.Token); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Could not revoke session token")
	}

	return m.cache.Delete(ctx, id)
}

func (m *Manager) clear(ctx context.Context, id string) {
	if err := m.cache.Delete(ctx, id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Could not clear session")
	}
}

func populate(id string, token string, expiresAt time.Time, verified schema.VerifiedSession) *Context {
	return &Context{
		ID:        id,
		Token:     token,
		User:      verified.User,
		Account:   verified.Account,
		ExpiresAt: expiresAt,
	}
}

func newID() string {
	return shortuuid.New()
}
