package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mintfolio/go-marketplace/env"
)

type redisDB int

const (
	nonces redisDB = 0
	misc   redisDB = 1
)

// Every cache is uniquely defined by its database and key prefix.
var (
	AuthNonceCache = CacheConfig{database: nonces, keyPrefix: "nonce", displayName: "authNonces"}
	MiscCache      = CacheConfig{database: misc, keyPrefix: "", displayName: "misc"}
)

// CacheConfig identifies one logical cache within the redis deployment
type CacheConfig struct {
	database    redisDB
	displayName string
	keyPrefix   string
}

// ErrKeyNotFound is returned when a key has no value in the cache
type ErrKeyNotFound struct {
	Key string
}

func (e ErrKeyNotFound) Error() string {
	return fmt.Sprintf("key %s not found in cache", e.Key)
}

// Cache is a redis-backed key/value store scoped to one CacheConfig
type Cache struct {
	client    *redis.Client
	keyPrefix string
}

// NewCache connects a cache client for the given config
func NewCache(config CacheConfig) *Cache {
	return &Cache{
		client:    newClient(config.database, config.displayName),
		keyPrefix: config.keyPrefix,
	}
}

// Set stores a value with an expiration
func (c *Cache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return c.client.Set(ctx, c.getPrefixedKey(key), value, expiration).Err()
}

// Get returns the value for a key, or ErrKeyNotFound
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := c.client.Get(ctx, c.getPrefixedKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound{Key: key}
	}
	if err != nil {
		return nil, err
	}
	return bs, nil
}

// Delete removes a key
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.getPrefixedKey(key)).Err()
}

// Close closes the underlying client
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) getPrefixedKey(key string) string {
	if c.keyPrefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", c.keyPrefix, key)
}

func newClient(db redisDB, displayName string) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisURL := env.GetString("REDIS_URL")
	redisPass := env.GetString("REDIS_PASS")

	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPass,
		DB:       int(db),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		panic(err)
	}

	return client
}
