package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/square-menu/pkg/logging"
)

// DefaultURL is used when no connection string is configured.
const DefaultURL = "redis://localhost:6379"

// DefaultTTL is the lifetime of cached API responses.
const DefaultTTL = 300 * time.Second

// scanBatch is the COUNT hint for SCAN during invalidation.
const scanBatch = 100

// Manager is a best-effort JSON cache over Redis. None of its operations
// return errors: failures are logged, counted, and reported as a miss.
type Manager struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{
		redis:  redisClient,
		logger: logging.NewLogger("cache"),
	}
}

// Connect builds a Redis client from a redis:// URL or a bare host:port.
// An empty string selects DefaultURL. No connection is made until first use.
func Connect(url string) (*redis.Client, error) {
	if url == "" {
		url = DefaultURL
	}

	var opts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}

	opts.MaxRetries = 2
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second

	return redis.NewClient(opts), nil
}

// Get decodes the entry stored under key into dst. It returns false on a miss,
// on a store failure, or when the stored value cannot be decoded.
func (m *Manager) Get(ctx context.Context, key Key, dst any) bool {
	k := key.String()
	ns := key.Namespace

	data, err := m.redis.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues(ns).Inc()
			m.logger.Debug().Str("key", k).Msg("Cache miss")
			return false
		}
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Str("key", k).Msg("Cache get failed")
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		CacheErrors.WithLabelValues("decode").Inc()
		m.logger.Warn().Err(err).Str("key", k).Msg("Cache entry could not be decoded")
		return false
	}

	CacheHits.WithLabelValues(ns).Inc()
	m.logger.Debug().Str("key", k).Msg("Cache hit")
	return true
}

// Set stores value as JSON under key with the given TTL.
func (m *Manager) Set(ctx context.Context, key Key, value any, ttl time.Duration) {
	k := key.String()

	data, err := json.Marshal(value)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Str("key", k).Msg("Cache value could not be encoded")
		return
	}

	if err := m.redis.Set(ctx, k, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Str("key", k).Msg("Cache set failed")
		return
	}

	m.logger.Debug().Str("key", k).Dur("ttl", ttl).Int("bytes", len(data)).Msg("Cached response")
}

// Invalidate deletes every key matching pattern and returns how many were
// deleted. The keyspace is walked with SCAN so Redis is never blocked by a
// full KEYS pass. Keys are collected over the whole pass before any DEL so the
// cursor never runs over a keyspace that is shrinking underneath it. A failure
// part way through returns 0.
func (m *Manager) Invalidate(ctx context.Context, pattern string) int {
	var cursor uint64
	var keys []string

	for {
		batch, next, err := m.redis.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			CacheErrors.WithLabelValues("invalidate").Inc()
			m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache invalidate failed")
			return 0
		}
		keys = append(keys, batch...)

		cursor = next
		if cursor == 0 {
			break
		}
	}

	deleted := 0
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		n, err := m.redis.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			CacheErrors.WithLabelValues("invalidate").Inc()
			m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache invalidate failed")
			return 0
		}
		deleted += int(n)
	}

	CacheInvalidations.WithLabelValues(namespaceOf(pattern)).Add(float64(deleted))
	m.logger.Debug().Str("pattern", pattern).Int("deleted", deleted).Msg("Cache invalidated")
	return deleted
}

// Ping checks the Redis connection.
func (m *Manager) Ping(ctx context.Context) error {
	return m.redis.Ping(ctx).Err()
}
