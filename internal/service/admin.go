package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/pkg/log"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
)

// ListUsers возвращает пользователей для админского обзора.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	const op = "service.admin.ListUsers"

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.storage.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// SuspendUser блокирует аккаунт и удаляет все его refresh-сессии:
// до разблокировки пользователь не сможет ни логиниться, ни ротировать пару.
func (s *Service) SuspendUser(ctx context.Context, id uuid.UUID) error {
	const op = "service.admin.SuspendUser"

	if err := s.storage.SetUserSuspended(ctx, id, true); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := s.storage.DeleteRefreshTokensByUser(ctx, id)
	if err != nil {
		// Аккаунт уже заблокирован; refresh-сессии дочистит janitor по сроку.
		log.From(ctx).Warn("suspend_sessions_cleanup_failed",
			slog.String("op", op),
			slog.String("user_id", id.String()),
			slog.String("err", err.Error()),
		)

		return nil
	}

	log.From(ctx).Info("user_suspended",
		slog.String("op", op),
		slog.String("user_id", id.String()),
		slog.Int64("sessions_deleted", deleted),
	)

	return nil
}

// UnsuspendUser снимает блокировку аккаунта.
func (s *Service) UnsuspendUser(ctx context.Context, id uuid.UUID) error {
	const op = "service.admin.UnsuspendUser"

	if err := s.storage.SetUserSuspended(ctx, id, false); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
