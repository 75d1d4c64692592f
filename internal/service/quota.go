package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/metrics"
	"github.com/pribylovaa/qrmenu-backend/internal/models"

	"github.com/google/uuid"
)

// quotaMessage — человекочитаемое сообщение отказа квоты.
func quotaMessage(resource models.ResourceClass, current, max int) string {
	if resource == models.ResourceScans {
		return fmt.Sprintf("daily scan limit reached (%d of %d used)", current, max)
	}

	return fmt.Sprintf("plan limit reached (%d of %d used), upgrade your plan to add more %s", current, max, resource)
}

// checkCountQuota — общий путь для счётных ресурсов: текущее значение берётся
// агрегатным подсчётом строк, потолок — из эффективного тарифа владельца.
func (s *Service) checkCountQuota(ctx context.Context, resource models.ResourceClass, limit int, count func(context.Context) (int, error)) (models.QuotaDecision, error) {
	const op = "service.quota.checkCountQuota"

	current, err := count(ctx)
	if err != nil {
		return models.QuotaDecision{}, fmt.Errorf("%s: %w", op, err)
	}

	if !models.Allows(limit, current) {
		metrics.QuotaDenials.WithLabelValues(string(resource)).Inc()

		return models.QuotaDecision{
			Allowed: false,
			Current: current,
			Max:     limit,
			Message: quotaMessage(resource, current, limit),
		}, nil
	}

	return models.QuotaDecision{
		Allowed: true,
		Current: current,
		Max:     limit,
	}, nil
}

// profileQuota проверяет квоту профилей владельца.
func (s *Service) profileQuota(ctx context.Context, ownerID uuid.UUID) (models.QuotaDecision, error) {
	limits, err := s.effectiveLimits(ctx, ownerID)
	if err != nil {
		return models.QuotaDecision{}, err
	}

	return s.checkCountQuota(ctx, models.ResourceProfiles, limits.MaxProfiles,
		func(ctx context.Context) (int, error) {
			return s.storage.CountProfilesByOwner(ctx, ownerID)
		})
}

// menuQuota проверяет квоту меню в рамках одного профиля.
func (s *Service) menuQuota(ctx context.Context, ownerID, profileID uuid.UUID) (models.QuotaDecision, error) {
	limits, err := s.effectiveLimits(ctx, ownerID)
	if err != nil {
		return models.QuotaDecision{}, err
	}

	return s.checkCountQuota(ctx, models.ResourceMenus, limits.MaxMenusPerProfile,
		func(ctx context.Context) (int, error) {
			return s.storage.CountMenusByProfile(ctx, profileID)
		})
}

// itemQuota проверяет квоту позиций в рамках одного меню.
func (s *Service) itemQuota(ctx context.Context, ownerID, menuID uuid.UUID) (models.QuotaDecision, error) {
	limits, err := s.effectiveLimits(ctx, ownerID)
	if err != nil {
		return models.QuotaDecision{}, err
	}

	return s.checkCountQuota(ctx, models.ResourceItems, limits.MaxItemsPerMenu,
		func(ctx context.Context) (int, error) {
			return s.storage.CountItemsByMenu(ctx, menuID)
		})
}

// registerScan атомарно учитывает сканирование меню в дневном счётчике
// и сверяет новое значение с лимитом тарифа владельца.
//
// Осознанный компромисс: инкремент сверх лимита ОСТАЁТСЯ записанным
// (счётчик слегка «раздувается», зато история аудируема и не нужен
// reserve-then-rollback); вызывающая сторона при отказе не выполняет
// охраняемый эффект.
func (s *Service) registerScan(ctx context.Context, ownerID, menuID uuid.UUID, now time.Time) (models.QuotaDecision, error) {
	const op = "service.quota.registerScan"

	limits, err := s.effectiveLimits(ctx, ownerID)
	if err != nil {
		return models.QuotaDecision{}, err
	}

	newCount, err := s.storage.IncrScanCount(ctx, menuID, now)
	if err != nil {
		return models.QuotaDecision{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.Scans.Inc()

	limit := limits.MaxScansPerDay
	if limit != models.Unlimited && newCount > int64(limit) {
		metrics.QuotaDenials.WithLabelValues(string(models.ResourceScans)).Inc()

		return models.QuotaDecision{
			Allowed: false,
			Current: int(newCount),
			Max:     limit,
			Message: quotaMessage(models.ResourceScans, int(newCount), limit),
		}, nil
	}

	return models.QuotaDecision{
		Allowed: true,
		Current: int(newCount),
		Max:     limit,
	}, nil
}
