package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Интеграционные тесты репозиториев refresh_token.go и blacklist.go:
// одноразовость refresh-сессии (ключевой механизм ротации), массовое
// аннулирование при блокировке аккаунта, janitor-очистка и поведение
// чёрного списка access-токенов с учётом срока жизни записей.

func mustSaveRefresh(t *testing.T, st *Storage, userID uuid.UUID, hash string, ttl time.Duration) *models.RefreshToken {
	t.Helper()

	now := time.Now().UTC()
	rt := &models.RefreshToken{
		TokenHash: hash,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	require.NoError(t, st.SaveRefreshToken(context.Background(), rt))
	return rt
}

func TestIntegration_RefreshToken_SaveAndLookup(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	rt := mustSaveRefresh(t, st, u.ID, "hash-1", time.Hour)

	got, err := st.RefreshTokenByHash(context.Background(), rt.TokenHash)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.WithinDuration(t, rt.ExpiresAt, got.ExpiresAt, time.Second)

	_, err = st.RefreshTokenByHash(context.Background(), "unknown")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_RefreshToken_DuplicateHash(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	mustSaveRefresh(t, st, u.ID, "hash-1", time.Hour)

	err := st.SaveRefreshToken(context.Background(), &models.RefreshToken{
		TokenHash: "hash-1",
		UserID:    u.ID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// Одноразовость: первое удаление срабатывает, второе сообщает,
// что записи уже нет, — на этом построено обнаружение replay.
func TestIntegration_DeleteRefreshToken_SingleUse(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	mustSaveRefresh(t, st, u.ID, "hash-1", time.Hour)

	deleted, err := st.DeleteRefreshToken(context.Background(), "hash-1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = st.DeleteRefreshToken(context.Background(), "hash-1")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestIntegration_DeleteRefreshTokensByUser(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	other := mustSaveUser(t, st, "other@example.com")

	mustSaveRefresh(t, st, u.ID, "hash-1", time.Hour)
	mustSaveRefresh(t, st, u.ID, "hash-2", time.Hour)
	mustSaveRefresh(t, st, other.ID, "hash-3", time.Hour)

	n, err := st.DeleteRefreshTokensByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	// Чужая сессия не затронута.
	_, err = st.RefreshTokenByHash(context.Background(), "hash-3")
	require.NoError(t, err)
}

func TestIntegration_DeleteExpiredRefreshTokens(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	mustSaveRefresh(t, st, u.ID, "hash-live", time.Hour)
	mustSaveRefresh(t, st, u.ID, "hash-dead", -time.Minute)

	require.NoError(t, st.DeleteExpiredRefreshTokens(context.Background(), time.Now().UTC()))

	_, err := st.RefreshTokenByHash(context.Background(), "hash-dead")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.RefreshTokenByHash(context.Background(), "hash-live")
	require.NoError(t, err)
}

func TestIntegration_Blacklist_AddAndCheck(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	expires := time.Now().UTC().Add(time.Hour)
	require.NoError(t, st.BlacklistAccessToken(context.Background(), "acc-1", expires))
	// Повторное занесение идемпотентно.
	require.NoError(t, st.BlacklistAccessToken(context.Background(), "acc-1", expires))

	revoked, err := st.IsBlacklisted(context.Background(), "acc-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = st.IsBlacklisted(context.Background(), "acc-unknown")
	require.NoError(t, err)
	require.False(t, revoked)
}

// Просроченная запись чёрного списка не считается действующей:
// такой access-токен отклонит и обычная проверка срока.
func TestIntegration_Blacklist_ExpiredEntryIgnored(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	require.NoError(t, st.BlacklistAccessToken(context.Background(), "acc-old", time.Now().UTC().Add(-time.Minute)))

	revoked, err := st.IsBlacklisted(context.Background(), "acc-old")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.DeleteExpiredBlacklist(context.Background(), time.Now().UTC()))

	revoked, err = st.IsBlacklisted(context.Background(), "acc-old")
	require.NoError(t, err)
	require.False(t, revoked)
}
