package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier — идентификатор тарифного плана подписки.
type Tier string

const (
	TierFree     Tier = "free"
	TierStandard Tier = "standard"
	TierCustom   Tier = "custom"
)

// ParseTier разбирает строковое представление тарифа (хранилище).
// Неизвестное значение трактуется как минимальный тариф.
func ParseTier(s string) Tier {
	switch s {
	case string(TierStandard):
		return TierStandard
	case string(TierCustom):
		return TierCustom
	default:
		return TierFree
	}
}

// Subscription — запись подписки пользователя.
// Эффективный тариф — последняя активная подписка; при отсутствии берётся free.
type Subscription struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Tier      Tier
	Active    bool
	StartedAt time.Time
}

// Unlimited — сентинел «без ограничений» для лимитов тарифа.
// Сравнения с лимитом всегда делаются через Limits, а не с «очень большим числом».
const Unlimited = -1

// Limits — потолки ресурсов тарифного плана.
type Limits struct {
	MaxProfiles        int
	MaxMenusPerProfile int
	MaxItemsPerMenu    int
	MaxScansPerDay     int
}

// Allows — true, если current единиц ресурса ещё укладываются в потолок
// (то есть создание ещё одной единицы допустимо).
func Allows(limit, current int) bool {
	if limit == Unlimited {
		return true
	}

	return current < limit
}
