package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SaveProfile создает новый профиль заведения.
func (s *Storage) SaveProfile(ctx context.Context, profile *models.Profile) error {
	const op = "storage.postgres.SaveProfile"

	query := `
		INSERT INTO profiles(id, owner_id, name, slug, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		profile.ID,
		profile.OwnerID,
		profile.Name,
		profile.Slug,
		profile.Address,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ProfileByID находит профиль по ID.
func (s *Storage) ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	const op = "storage.postgres.ProfileByID"

	query := `
		SELECT id, owner_id, name, slug, address, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile models.Profile
	err := s.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.OwnerID,
		&profile.Name,
		&profile.Slug,
		&profile.Address,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &profile, nil
}

// ProfilesByOwner возвращает профили владельца.
func (s *Storage) ProfilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Profile, error) {
	const op = "storage.postgres.ProfilesByOwner"

	query := `
		SELECT id, owner_id, name, slug, address, created_at, updated_at
		FROM profiles
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Slug, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return profiles, nil
}

// CountProfilesByOwner — агрегатный подсчёт профилей владельца для квоты.
func (s *Storage) CountProfilesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	const op = "storage.postgres.CountProfilesByOwner"

	query := `
		SELECT COUNT(*) FROM profiles WHERE owner_id = $1
	`

	var count int
	if err := s.db.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
