package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile — профиль заведения (ресторана), принадлежит одному владельцу.
type Profile struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Slug      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Menu — меню внутри профиля заведения.
type Menu struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Name      string
	Currency  string
	CreatedAt time.Time
}

// Item — позиция меню.
type Item struct {
	ID          uuid.UUID
	MenuID      uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	CreatedAt   time.Time
}
