package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// Without a Redis address it keeps entries in process memory, where a
// background loop evicts expired keys.
type Client struct {
	client *redis.Client

	local    *ttlcache.Cache[string, []byte]
	stopOnce sync.Once
}

// New creates a new cache client. An empty addr selects the in-process cache.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return NewLocal()
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// NewLocal creates an in-process cache client. Close stops its eviction loop.
func NewLocal() *Client {
	local := ttlcache.New[string, []byte](
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go local.Start()
	return &Client{local: local}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	if c.client == nil {
		item := c.local.Get(key)
		if item == nil {
			return nil, nil
		}
		return clone(item.Value()), nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// fail safe: redis.Nil and outages both behave like a miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors. A zero TTL never expires.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if c.client == nil {
		if ttl <= 0 {
			ttl = ttlcache.NoTTL
		}
		c.local.Set(key, clone(value), ttl)
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	if c.client == nil {
		c.local.Delete(key)
		return nil
	}
	_ = c.client.Del(ctx, key).Err()
	return nil
}

// Close releases the Redis connection pool or stops the local eviction loop.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.client == nil {
		c.stopOnce.Do(c.local.Stop)
		return nil
	}
	return c.client.Close()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
