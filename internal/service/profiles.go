package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/pkg/log"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
)

// ProfileInput — входные данные создания профиля заведения.
type ProfileInput struct {
	Name    string
	Address string
}

// CreateProfile создает профиль заведения после проверки квоты тарифа.
// Первый созданный профиль повышает роль пользователя до restaurant_owner;
// новый ранг попадёт в claims при следующем выпуске пары токенов.
func (s *Service) CreateProfile(ctx context.Context, ownerID uuid.UUID, in ProfileInput) (*models.Profile, error) {
	const op = "service.profiles.CreateProfile"

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, &FieldErrors{Fields: map[string]string{"name": "name must not be empty"}})
	}

	decision, err := s.profileQuota(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%s: %w", op, &QuotaError{
			Resource: models.ResourceProfiles,
			Current:  decision.Current,
			Max:      decision.Max,
			Message:  decision.Message,
		})
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Slug:      slugify(in.Name) + "-" + randomSuffix(),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if decision.Current == 0 {
		if err := s.storage.UpdateUserRole(ctx, ownerID, models.RoleRestaurantOwner); err != nil {
			// Повышение роли — не часть контракта создания: профиль уже есть.
			log.From(ctx).Warn("owner_role_promote_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return profile, nil
}

// ListProfiles возвращает профили владельца.
func (s *Service) ListProfiles(ctx context.Context, ownerID uuid.UUID) ([]models.Profile, error) {
	const op = "service.profiles.ListProfiles"

	profiles, err := s.storage.ProfilesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return profiles, nil
}

// GetProfile возвращает профиль по ID.
// Читать может владелец; администратору чтение разрешено явно
// (точечный allow-list, а не сквозной обход ownership-проверок).
func (s *Service) GetProfile(ctx context.Context, actor *models.Claims, id uuid.UUID) (*models.Profile, error) {
	const op = "service.profiles.GetProfile"

	profile, err := s.storage.ProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if profile.OwnerID != actor.UserID && !actor.Role.HasAtLeast(models.RoleAdmin) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	return profile, nil
}

// ProfileQuota — текущее использование квоты профилей (для UI «N из M»).
func (s *Service) ProfileQuota(ctx context.Context, ownerID uuid.UUID) (models.QuotaDecision, error) {
	return s.profileQuota(ctx, ownerID)
}

// slugify приводит имя к url-безопасному виду: строчные латинские буквы,
// цифры и дефисы.
func slugify(name string) string {
	var b strings.Builder
	prevDash := true

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "profile"
	}

	return slug
}

// randomSuffix — короткий случайный суффикс, разводящий одинаковые имена.
func randomSuffix() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
