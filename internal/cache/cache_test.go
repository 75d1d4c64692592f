package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты кэша чёрного списка:
// — поднимают реальный Redis через testcontainers-go (образ redis:7-alpine);
// — проверяют базовый контракт Contains/Add, изоляцию по префиксу ключей
//   и истечение записей по TTL.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestIntegration_RedisCache_AddAndContains(t *testing.T) {
	url := startRedis(t)

	bl, err := NewRedisCache(url, "")
	require.NoError(t, err)
	defer bl.Close()

	ctx := context.Background()

	ok, err := bl.Contains(ctx, "unknown-hash")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, bl.Add(ctx, "revoked-hash", time.Minute))

	ok, err = bl.Contains(ctx, "revoked-hash")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIntegration_RedisCache_TTLExpiry(t *testing.T) {
	url := startRedis(t)

	bl, err := NewRedisCache(url, "")
	require.NoError(t, err)
	defer bl.Close()

	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "short-hash", 500*time.Millisecond))

	ok, err := bl.Contains(ctx, "short-hash")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(time.Second)

	ok, err = bl.Contains(ctx, "short-hash")
	require.NoError(t, err)
	require.False(t, ok)
}

// Запись с неположительным TTL не кэшируется: токен уже истёк.
func TestIntegration_RedisCache_NonPositiveTTLSkipped(t *testing.T) {
	url := startRedis(t)

	bl, err := NewRedisCache(url, "")
	require.NoError(t, err)
	defer bl.Close()

	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "expired-hash", 0))

	ok, err := bl.Contains(ctx, "expired-hash")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIntegration_RedisCache_PrefixIsolation(t *testing.T) {
	url := startRedis(t)

	a, err := NewRedisCache(url, "a:")
	require.NoError(t, err)
	defer a.Close()

	b, err := NewRedisCache(url, "b:")
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()

	require.NoError(t, a.Add(ctx, "hash", time.Minute))

	ok, err := b.Contains(ctx, "hash")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisCache("not-a-url", "")
	require.Error(t, err)
}
