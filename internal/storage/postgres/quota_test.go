package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Интеграционные тесты счётных репозиториев (profile.go, menu.go,
// subscription.go, scan.go): уникальность slug, точность COUNT-запросов,
// выбор последней активной подписки и атомарность дневного счётчика
// сканирований под конкурентной нагрузкой.

func mustSaveProfile(t *testing.T, st *Storage, ownerID uuid.UUID, slug string) *models.Profile {
	t.Helper()

	now := time.Now().UTC()
	p := &models.Profile{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Cafe",
		Slug:      slug,
		Address:   "Main st. 1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.SaveProfile(context.Background(), p))
	return p
}

func mustSaveMenu(t *testing.T, st *Storage, profileID uuid.UUID, name string) *models.Menu {
	t.Helper()

	m := &models.Menu{
		ID:        uuid.New(),
		ProfileID: profileID,
		Name:      name,
		Currency:  "USD",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.SaveMenu(context.Background(), m))
	return m
}

func TestIntegration_Profile_SaveAndLookup(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	p := mustSaveProfile(t, st, u.ID, "cafe-1")

	got, err := st.ProfileByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.OwnerID)
	require.Equal(t, "cafe-1", got.Slug)

	_, err = st.ProfileByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_Profile_DuplicateSlug(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	mustSaveProfile(t, st, u.ID, "cafe-1")

	err := st.SaveProfile(context.Background(), &models.Profile{
		ID:        uuid.New(),
		OwnerID:   u.ID,
		Name:      "Another",
		Slug:      "cafe-1",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_ProfilesByOwner_And_Count(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	other := mustSaveUser(t, st, "other@example.com")

	mustSaveProfile(t, st, u.ID, "cafe-1")
	mustSaveProfile(t, st, u.ID, "cafe-2")
	mustSaveProfile(t, st, other.ID, "cafe-3")

	list, err := st.ProfilesByOwner(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	n, err := st.CountProfilesByOwner(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = st.CountProfilesByOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIntegration_Menus_And_Items_Counts(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	p := mustSaveProfile(t, st, u.ID, "cafe-1")
	m := mustSaveMenu(t, st, p.ID, "Lunch")
	mustSaveMenu(t, st, p.ID, "Dinner")

	menus, err := st.MenusByProfile(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	n, err := st.CountMenusByProfile(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	for i := 0; i < 3; i++ {
		require.NoError(t, st.SaveItem(context.Background(), &models.Item{
			ID:         uuid.New(),
			MenuID:     m.ID,
			Name:       fmt.Sprintf("Dish %d", i),
			PriceCents: int64(100 * (i + 1)),
			CreatedAt:  time.Now().UTC(),
		}))
	}

	items, err := st.ItemsByMenu(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	cnt, err := st.CountItemsByMenu(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, 3, cnt)

	got, err := st.MenuByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, "Lunch", got.Name)
	require.Equal(t, "USD", got.Currency)
}

func TestIntegration_ActiveSubscription_LatestWins(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")

	_, err := st.ActiveSubscription(context.Background(), u.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, st.SaveSubscription(context.Background(), &models.Subscription{
		ID: uuid.New(), UserID: u.ID, Tier: models.TierFree, Active: true, StartedAt: base,
	}))
	require.NoError(t, st.SaveSubscription(context.Background(), &models.Subscription{
		ID: uuid.New(), UserID: u.ID, Tier: models.TierStandard, Active: true, StartedAt: base.Add(time.Minute),
	}))
	// Отменённая подписка не участвует в выборе.
	require.NoError(t, st.SaveSubscription(context.Background(), &models.Subscription{
		ID: uuid.New(), UserID: u.ID, Tier: models.TierCustom, Active: false, StartedAt: base.Add(2 * time.Minute),
	}))

	got, err := st.ActiveSubscription(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, models.TierStandard, got.Tier)
	require.True(t, got.Active)
}

func TestIntegration_IncrScanCount_Sequence_And_Days(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	p := mustSaveProfile(t, st, u.ID, "cafe-1")
	m := mustSaveMenu(t, st, p.ID, "Lunch")

	today := time.Now().UTC()
	for want := int64(1); want <= 3; want++ {
		got, err := st.IncrScanCount(context.Background(), m.ID, today)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// Другой календарный день считается отдельно.
	tomorrow := today.Add(24 * time.Hour)
	got, err := st.IncrScanCount(context.Background(), m.ID, tomorrow)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)

	cnt, err := st.ScanCount(context.Background(), m.ID, today)
	require.NoError(t, err)
	require.EqualValues(t, 3, cnt)

	cnt, err = st.ScanCount(context.Background(), m.ID, today.Add(48*time.Hour))
	require.NoError(t, err)
	require.Zero(t, cnt)
}

// Инкременты из параллельных горутин не теряются: upsert выполняется
// атомарно на стороне БД.
func TestIntegration_IncrScanCount_Concurrent(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "owner@example.com")
	p := mustSaveProfile(t, st, u.ID, "cafe-1")
	m := mustSaveMenu(t, st, p.ID, "Lunch")

	const workers = 16
	now := time.Now().UTC()

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.IncrScanCount(context.Background(), m.ID, now); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	cnt, err := st.ScanCount(context.Background(), m.ID, now)
	require.NoError(t, err)
	require.EqualValues(t, workers, cnt)
}
