package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken - персистентная запись refresh-токена для управления сессиями.
// В БД хранится только хэш токена; сама строка не восстанавливается.
// Запись одноразовая: ротация удаляет её до выпуска новой пары.
type RefreshToken struct {
	TokenHash string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}
