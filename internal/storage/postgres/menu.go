package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveMenu создает новое меню в профиле.
func (s *Storage) SaveMenu(ctx context.Context, menu *models.Menu) error {
	const op = "storage.postgres.SaveMenu"

	query := `
		INSERT INTO menus(id, profile_id, name, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query,
		menu.ID,
		menu.ProfileID,
		menu.Name,
		menu.Currency,
		menu.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MenuByID находит меню по ID.
func (s *Storage) MenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	const op = "storage.postgres.MenuByID"

	query := `
		SELECT id, profile_id, name, currency, created_at
		FROM menus
		WHERE id = $1
	`

	var menu models.Menu
	err := s.db.QueryRow(ctx, query, id).Scan(
		&menu.ID,
		&menu.ProfileID,
		&menu.Name,
		&menu.Currency,
		&menu.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &menu, nil
}

// MenusByProfile возвращает меню профиля.
func (s *Storage) MenusByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Menu, error) {
	const op = "storage.postgres.MenusByProfile"

	query := `
		SELECT id, profile_id, name, currency, created_at
		FROM menus
		WHERE profile_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Name, &m.Currency, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		menus = append(menus, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return menus, nil
}

// CountMenusByProfile — агрегатный подсчёт меню профиля для квоты.
func (s *Storage) CountMenusByProfile(ctx context.Context, profileID uuid.UUID) (int, error) {
	const op = "storage.postgres.CountMenusByProfile"

	query := `
		SELECT COUNT(*) FROM menus WHERE profile_id = $1
	`

	var count int
	if err := s.db.QueryRow(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// SaveItem создает новую позицию меню.
func (s *Storage) SaveItem(ctx context.Context, item *models.Item) error {
	const op = "storage.postgres.SaveItem"

	query := `
		INSERT INTO items(id, menu_id, name, description, price_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		item.ID,
		item.MenuID,
		item.Name,
		item.Description,
		item.PriceCents,
		item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ItemsByMenu возвращает позиции меню.
func (s *Storage) ItemsByMenu(ctx context.Context, menuID uuid.UUID) ([]models.Item, error) {
	const op = "storage.postgres.ItemsByMenu"

	query := `
		SELECT id, menu_id, name, description, price_cents, created_at
		FROM items
		WHERE menu_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.MenuID, &it.Name, &it.Description, &it.PriceCents, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// CountItemsByMenu — агрегатный подсчёт позиций меню для квоты.
func (s *Storage) CountItemsByMenu(ctx context.Context, menuID uuid.UUID) (int, error) {
	const op = "storage.postgres.CountItemsByMenu"

	query := `
		SELECT COUNT(*) FROM items WHERE menu_id = $1
	`

	var count int
	if err := s.db.QueryRow(ctx, query, menuID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
