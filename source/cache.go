package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultCacheTTL    = 6 * time.Hour
	DefaultCachePrefix = "pricecast"
)

// Cache stores raw payloads by key
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by redis
type RedisCache struct {
	client *redis.Client
}

// RedisConfig holds the connection settings of a RedisCache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache connects to redis and verifies the connection with a ping
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping, %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close closes the redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// cachedObservation stores a missing close as null since json has no NaN
type cachedObservation struct {
	T time.Time `json:"date"`
	Y *float64  `json:"close"`
}

// Cached serves repeated requests for the same symbol and range from a cache. Cache failures
// are logged and fall through to the wrapped source.
type Cached struct {
	src    PriceSource
	cache  Cache
	ttl    time.Duration
	prefix string
}

// NewCached wraps src with cache. A non-positive ttl uses DefaultCacheTTL.
func NewCached(src PriceSource, cache Cache, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		src:    src,
		cache:  cache,
		ttl:    ttl,
		prefix: DefaultCachePrefix,
	}
}

func (c *Cached) key(req Request) string {
	return c.prefix + ":" + req.Key()
}

// Fetch returns the cached observations when present and otherwise fetches and caches them
func (c *Cached) Fetch(ctx context.Context, req Request) ([]timedataset.Observation, error) {
	key := c.key(req)
	payload, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("price cache read failed", "key", key, "error", err)
	}
	if hit {
		obs, err := decodeObservations(payload)
		if err == nil {
			slog.Debug("price cache hit", "key", key, "rows", len(obs))
			return obs, nil
		}
		slog.Warn("discarding corrupt price cache entry", "key", key, "error", err)
	}

	obs, err := c.src.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err = encodeObservations(obs)
	if err != nil {
		slog.Warn("unable to encode observations for cache", "key", key, "error", err)
		return obs, nil
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
		slog.Warn("price cache write failed", "key", key, "error", err)
	}
	return obs, nil
}

func encodeObservations(obs []timedataset.Observation) ([]byte, error) {
	cached := make([]cachedObservation, 0, len(obs))
	for _, o := range obs {
		co := cachedObservation{T: o.T}
		if !math.IsNaN(o.Y) && !math.IsInf(o.Y, 0) {
			y := o.Y
			co.Y = &y
		}
		cached = append(cached, co)
	}
	return json.Marshal(cached)
}

func decodeObservations(payload []byte) ([]timedataset.Observation, error) {
	var cached []cachedObservation
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, err
	}
	obs := make([]timedataset.Observation, 0, len(cached))
	for _, co := range cached {
		o := timedataset.Observation{T: co.T, Y: math.NaN()}
		if co.Y != nil {
			o.Y = *co.Y
		}
		obs = append(obs, o)
	}
	return obs, nil
}
