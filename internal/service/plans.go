package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
)

// tierLimits — потолки ресурсов по тарифам.
// «Без ограничений» — сентинел models.Unlimited, не «большое число».
var tierLimits = map[models.Tier]models.Limits{
	models.TierFree: {
		MaxProfiles:        1,
		MaxMenusPerProfile: 1,
		MaxItemsPerMenu:    10,
		MaxScansPerDay:     100,
	},
	models.TierStandard: {
		MaxProfiles:        3,
		MaxMenusPerProfile: 5,
		MaxItemsPerMenu:    100,
		MaxScansPerDay:     5000,
	},
	models.TierCustom: {
		MaxProfiles:        models.Unlimited,
		MaxMenusPerProfile: models.Unlimited,
		MaxItemsPerMenu:    models.Unlimited,
		MaxScansPerDay:     models.Unlimited,
	},
}

// LimitsForTier возвращает потолки тарифа; неизвестный тариф трактуется как free.
func LimitsForTier(tier models.Tier) models.Limits {
	if l, ok := tierLimits[tier]; ok {
		return l
	}

	return tierLimits[models.TierFree]
}

// effectiveLimits — потолки эффективного тарифа пользователя:
// последняя активная подписка, при её отсутствии — free.
func (s *Service) effectiveLimits(ctx context.Context, userID uuid.UUID) (models.Limits, error) {
	const op = "service.plans.effectiveLimits"

	sub, err := s.storage.ActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return tierLimits[models.TierFree], nil
		}

		return models.Limits{}, fmt.Errorf("%s: %w", op, err)
	}

	return LimitsForTier(sub.Tier), nil
}
