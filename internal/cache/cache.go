package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlacklistCache — минимальный контракт кэша чёрного списка access-токенов.
// Кэш — ускоритель, а не источник истины: отсутствие ключа означает
// «спросить хранилище», положительный хит означает «токен отозван».
type BlacklistCache interface {
	// Contains возвращает признак наличия хэша в кэше.
	Contains(ctx context.Context, hash string) (bool, error)
	// Add сохраняет хэш с TTL (обычно expiresAt-now токена).
	Add(ctx context.Context, hash string, ttl time.Duration) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "qrmenu:bl:".
func NewRedisCache(redisURL, prefix string) (BlacklistCache, error) {
	if prefix == "" {
		prefix = "qrmenu:bl:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(hash string) string { return c.prefix + hash }

func (c *redisCache) Contains(ctx context.Context, hash string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(hash)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (c *redisCache) Add(ctx context.Context, hash string, ttl time.Duration) error {
	if ttl <= 0 {
		// Токен уже истёк — кэшировать нечего.
		return nil
	}

	return c.rdb.Set(ctx, c.key(hash), "1", ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
