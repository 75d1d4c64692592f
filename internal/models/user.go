// models содержит доменные сущности qrmenu-backend.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User - модель пользователя в системе.
// Suspended выставляется администратором; заблокированный пользователь
// не может логиниться, его refresh-сессии удаляются при блокировке.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Suspended    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
