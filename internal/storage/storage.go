// storage задаёт контракты работы с БД для всех слоёв qrmenu-backend.
// Реализации обязаны возвращать сентинел-ошибки этого пакета, чтобы
// бизнес-логика не зависела от конкретного драйвера.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен/ресурс).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/slug/token-hash).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// ListUsers возвращает пользователей (админский обзор).
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	// SetUserSuspended выставляет/снимает блокировку аккаунта.
	SetUserSuspended(ctx context.Context, id uuid.UUID, suspended bool) error
	// UpdateUserRole меняет роль пользователя (повышение до владельца заведения).
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
// Токены адресуются хэшем их строкового значения.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новую запись refresh-токена в БД.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит запись refresh-токена по хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// DeleteRefreshToken удаляет запись. Возвращает false, если записи
	// уже не было; повторное удаление — не ошибка.
	DeleteRefreshToken(ctx context.Context, hash string) (bool, error)
	// DeleteRefreshTokensByUser удаляет все refresh-сессии пользователя.
	DeleteRefreshTokensByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// DeleteExpiredRefreshTokens удаляет все просроченные записи.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error
}

// BlacklistStorage выполняет операции над чёрным списком access-токенов.
type BlacklistStorage interface {
	// BlacklistAccessToken помещает хэш access-токена в чёрный список
	// до его естественного истечения. Повторный вызов — no-op.
	BlacklistAccessToken(ctx context.Context, hash string, expiresAt time.Time) error
	// IsBlacklisted — true, если хэш присутствует в чёрном списке.
	IsBlacklisted(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredBlacklist удаляет записи с прошедшим expires_at:
	// просроченный токен и так непригоден.
	DeleteExpiredBlacklist(ctx context.Context, now time.Time) error
}

// ProfileStorage выполняет операции над профилями заведений.
type ProfileStorage interface {
	SaveProfile(ctx context.Context, profile *models.Profile) error
	ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ProfilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Profile, error)
	// CountProfilesByOwner — агрегат для квоты: профили считаются по строкам,
	// отдельный счётчик не ведётся.
	CountProfilesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// MenuStorage выполняет операции над меню и позициями.
type MenuStorage interface {
	SaveMenu(ctx context.Context, menu *models.Menu) error
	MenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	MenusByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Menu, error)
	CountMenusByProfile(ctx context.Context, profileID uuid.UUID) (int, error)
	SaveItem(ctx context.Context, item *models.Item) error
	ItemsByMenu(ctx context.Context, menuID uuid.UUID) ([]models.Item, error)
	CountItemsByMenu(ctx context.Context, menuID uuid.UUID) (int, error)
}

// SubscriptionStorage выполняет операции над подписками.
type SubscriptionStorage interface {
	SaveSubscription(ctx context.Context, sub *models.Subscription) error
	// ActiveSubscription — последняя активная подписка пользователя
	// или ErrNotFound, если её нет.
	ActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// ScanCounterStorage — атомарный счётчик сканирований меню по дням.
type ScanCounterStorage interface {
	// IncrScanCount атомарно инкрементирует счётчик (insert-if-absent, иначе
	// +1) для пары (menuID, day) и возвращает новое значение. Это единственный
	// горячий контендед-ресурс: read-modify-write на уровне приложения запрещён.
	IncrScanCount(ctx context.Context, menuID uuid.UUID, day time.Time) (int64, error)
	// ScanCount возвращает текущее значение счётчика (0, если записи нет).
	ScanCount(ctx context.Context, menuID uuid.UUID, day time.Time) (int64, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	BlacklistStorage
	ProfileStorage
	MenuStorage
	SubscriptionStorage
	ScanCounterStorage
	Close()
}
