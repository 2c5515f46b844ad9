package caching

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Fetch when nothing is stored under the key.
var ErrMiss = errors.New("cache miss")

type Engine interface {
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// StoreIfAbsent reports false when the key already holds a value.
	StoreIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Touch(ctx context.Context, key string, ttl time.Duration) error
}

// Cacher keeps JSON values deflated in the engine.
type Cacher struct {
	engine Engine
	prefix string
}

func NewRedisCache(redisClient redis.Cmdable, prefix string) *Cacher {
	return &Cacher{
		engine: &redisCache{
			redis: redisClient,
		},
		prefix: prefix,
	}
}

func NewCacher(engine Engine, prefix string) *Cacher {
	return &Cacher{
		engine: engine,
		prefix: prefix,
	}
}

func (c *Cacher) key(key string) string {
	return c.prefix + key
}

func deflate(uncompressed []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := flate.NewWriter(&buffer, flate.BestSpeed)

	_, err := writer.Write(uncompressed)
	if err != nil {
		return nil, err
	}

	err = writer.Close()
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	buffer := bytes.NewReader(compressed)
	reader := flate.NewReader(buffer)
	defer reader.Close()

	var out bytes.Buffer
	_, err := out.ReadFrom(reader)
	if err != nil {
		return []byte{}, err
	}

	return out.Bytes(), nil
}

func (c *Cacher) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	compressed, err := deflate(bytes)
	if err != nil {
		return err
	}

	return c.engine.Store(ctx, c.key(key), compressed, ttl)
}

// Fetch decodes the stored value into destination. A missing key is ErrMiss.
func (c *Cacher) Fetch(ctx context.Context, key string, destination any) error {
	value, err := c.engine.Fetch(ctx, c.key(key))
	if err != nil {
		return err
	}

	uncompressed, err := inflate(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(uncompressed, destination)
}

// Acquire marks key as taken for ttl. It reports false when the key is
// already taken.
func (c *Cacher) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.engine.StoreIfAbsent(ctx, c.key(key), []byte{}, ttl)
}

func (c *Cacher) Delete(ctx context.Context, key string) error {
	return c.engine.Delete(ctx, c.key(key))
}

// Touch extends the lifetime of a stored value.
func (c *Cacher) Touch(ctx context.Context, key string, ttl time.Duration) error {
	return c.engine.Touch(ctx, c.key(key), ttl)
}
