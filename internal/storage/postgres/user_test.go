package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Файл интеграционных тестов для пакета postgres (репозиторий user.go):
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет все миграции из ./migrations по порядку;
// - проверяет happy-path, уникальность email (CITEXT), листинг с пагинацией,
//   блокировку аккаунта и смену роли.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// migrationFiles — все up-миграции в порядке применения.
var migrationFiles = []string{
	"1_init_users.up.sql",
	"2_init_refresh_tokens.up.sql",
	"3_init_access_blacklist.up.sql",
	"4_init_profiles.up.sql",
	"5_init_menus.up.sql",
	"6_init_subscriptions.up.sql",
	"7_init_scan_counters.up.sql",
}

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет миграции и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	for _, name := range migrationFiles {
		_, err = pool.Exec(ctx, readMigration(t, name))
		require.NoError(t, err, "apply migration %s", name)
	}

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// mustSaveUser — фикстура пользователя с заданным email.
func mustSaveUser(t *testing.T, st *Storage, email string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Owner",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))
	return u
}

func TestIntegration_SaveUser_And_Lookup_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "User@Example.Com")

	// CITEXT: поиск регистронезависим.
	gotByEmail, err := st.UserByEmail(context.Background(), strings.ToLower(u.Email))
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByEmail.ID)
	require.Equal(t, models.RoleUser, gotByEmail.Role)
	require.WithinDuration(t, u.CreatedAt, gotByEmail.CreatedAt, time.Second)

	gotByID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByID.ID)
	require.False(t, gotByID.Suspended)
}

func TestIntegration_SaveUser_DuplicateEmail_CaseInsensitive(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	mustSaveUser(t, st, "owner@example.com")

	dup := &models.User{
		ID:           uuid.New(),
		Email:        "OWNER@example.com",
		PasswordHash: "hash2",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	err := st.SaveUser(context.Background(), dup)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_UserLookup_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_ListUsers_Pagination(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		u := &models.User{
			ID:           uuid.New(),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "hash",
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
			UpdatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, st.SaveUser(context.Background(), u))
	}

	// Порядок — новые первыми.
	page, err := st.ListUsers(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "user2@example.com", page[0].Email)
	require.Equal(t, "user1@example.com", page[1].Email)

	rest, err := st.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "user0@example.com", rest[0].Email)
}

func TestIntegration_SetUserSuspended_And_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")

	require.NoError(t, st.SetUserSuspended(context.Background(), u.ID, true))

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, got.Suspended)

	require.NoError(t, st.SetUserSuspended(context.Background(), u.ID, false))

	got, err = st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.False(t, got.Suspended)

	err = st.SetUserSuspended(context.Background(), uuid.New(), true)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UpdateUserRole_RoundTrip(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")

	require.NoError(t, st.UpdateUserRole(context.Background(), u.ID, models.RoleRestaurantOwner))

	got, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleRestaurantOwner, got.Role)

	err = st.UpdateUserRole(context.Background(), uuid.New(), models.RoleAdmin)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
