package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "eagle:"

var errNotConfigured = errors.New("redis client not configured")

// Client wraps redis.Client. Get, Set and Delete fail safe by swallowing connectivity
// errors; the Strict variants, the set helpers, Incr and Take report them so callers
// holding security state can fail closed.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// NewFromClient wraps an existing redis client.
func NewFromClient(client *redis.Client) *Client {
	return &Client{client: client}
}

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return nil
	}
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return nil
	}
	return nil
}

// GetStrict returns value or nil if missing, reporting redis errors.
func (c *Client) GetStrict(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, errNotConfigured
	}
	res, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetStrict stores value with TTL, reporting redis errors.
func (c *Client) SetStrict(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	return c.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

// DeleteStrict removes keys, reporting redis errors.
func (c *Client) DeleteStrict(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	return c.client.Del(ctx, prefixed...).Err()
}

// SetAdd adds member to a set and re-arms the set's expiry to ttl. Callers use one
// ttl per set so the newest member always outlives the older ones.
func (c *Client) SetAdd(ctx context.Context, key, member string, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, keyPrefix+key, member)
	pipe.Expire(ctx, keyPrefix+key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// SetMembers returns the members of a set; a missing set is empty.
func (c *Client) SetMembers(ctx context.Context, key string) ([]string, error) {
	if c == nil || c.client == nil {
		return nil, errNotConfigured
	}
	return c.client.SMembers(ctx, keyPrefix+key).Result()
}

// Take atomically reads and deletes a key. A missing key returns (nil, nil).
func (c *Client) Take(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, errNotConfigured
	}
	res, err := c.client.GetDel(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Incr increments a counter, returning the new count. The window starts with the
// first hit and is not extended by later ones.
func (c *Client) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if c == nil || c.client == nil {
		return 0, errNotConfigured
	}
	pipe := c.client.TxPipeline()
	pipe.SetNX(ctx, keyPrefix+key, 0, window)
	incr := pipe.Incr(ctx, keyPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
