package postgres

import (
	"context"
	"fmt"
	"time"
)

// BlacklistAccessToken помещает хэш access-токена в чёрный список.
// ON CONFLICT DO NOTHING делает повторный вызов идемпотентным.
func (s *Storage) BlacklistAccessToken(ctx context.Context, hash string, expiresAt time.Time) error {
	const op = "storage.postgres.BlacklistAccessToken"

	query := `
        INSERT INTO access_blacklist(token_hash, expires_at)
        VALUES ($1, $2)
        ON CONFLICT (token_hash) DO NOTHING
    `

	_, err := s.db.Exec(ctx, query, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsBlacklisted — true, если хэш access-токена присутствует в чёрном списке.
// Просроченные записи не учитываются: такой токен и так непригоден.
func (s *Storage) IsBlacklisted(ctx context.Context, hash string) (bool, error) {
	const op = "storage.postgres.IsBlacklisted"

	query := `
        SELECT EXISTS(
            SELECT 1 FROM access_blacklist
            WHERE token_hash = $1 AND expires_at > now()
        )
    `

	var exists bool
	if err := s.db.QueryRow(ctx, query, hash).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// DeleteExpiredBlacklist удаляет записи с прошедшим expires_at.
func (s *Storage) DeleteExpiredBlacklist(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.DeleteExpiredBlacklist"

	query := `
        DELETE FROM access_blacklist
        WHERE expires_at <= $1
    `

	_, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
