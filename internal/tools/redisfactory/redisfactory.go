package redisfactory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Flows, sessions and chat transcripts live in one database, everything that is
// safe to lose (catalog cache, request grouping, rate limits) in the other.
// Both may point at the same server.

type Factory struct {
	flows *redis.Client
	cache *redis.Client
}

// New returns a factory with no clients for empty URIs, callers then fall back
// to in-process storage.
func New(flowsURI string, cacheURI string) (*Factory, error) {
	flows, err := newClient(flowsURI)
	if err != nil {
		return nil, err
	}

	cache, err := newClient(cacheURI)
	if err != nil {
		return nil, err
	}

	return &Factory{
		flows: flows,
		cache: cache,
	}, nil
}

func newClient(uri string) (*redis.Client, error) {
	if uri == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	opt.DialTimeout = 4 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	return redis.NewClient(opt), nil
}

func (f *Factory) FlowsClient() *redis.Client {
	return f.flows
}

func (f *Factory) CacheClient() *redis.Client {
	return f.cache
}

func (f *Factory) Enabled() bool {
	return f.flows != nil
}

// Ping checks every configured client.
func (f *Factory) Ping(ctx context.Context) error {
	for _, client := range []*redis.Client{f.flows, f.cache} {
		if client == nil {
			continue
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
	}

	return nil
}

func (f *Factory) Close() error {
	var firstErr error
	for _, client := range []*redis.Client{f.flows, f.cache} {
		if client == nil {
			continue
		}
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
