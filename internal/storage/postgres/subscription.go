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

// SaveSubscription создает запись подписки.
func (s *Storage) SaveSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "storage.postgres.SaveSubscription"

	query := `
		INSERT INTO subscriptions(id, user_id, tier, active, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query,
		sub.ID,
		sub.UserID,
		string(sub.Tier),
		sub.Active,
		sub.StartedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ActiveSubscription возвращает последнюю активную подписку пользователя.
func (s *Storage) ActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	const op = "storage.postgres.ActiveSubscription"

	query := `
		SELECT id, user_id, tier, active, started_at
		FROM subscriptions
		WHERE user_id = $1 AND active = TRUE
		ORDER BY started_at DESC
		LIMIT 1
	`

	var (
		sub  models.Subscription
		tier string
	)
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&tier,
		&sub.Active,
		&sub.StartedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.Tier = models.ParseTier(tier)

	return &sub, nil
}
