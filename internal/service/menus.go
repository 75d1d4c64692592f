package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
)

// MenuInput — входные данные создания меню.
type MenuInput struct {
	Name     string
	Currency string
}

// ItemInput — входные данные создания позиции меню.
type ItemInput struct {
	Name        string
	Description string
	PriceCents  int64
}

// CreateMenu создает меню в профиле после ownership- и квота-проверок.
// Создание — только для владельца профиля; админского обхода здесь нет.
func (s *Service) CreateMenu(ctx context.Context, actor *models.Claims, profileID uuid.UUID, in MenuInput) (*models.Menu, error) {
	const op = "service.menus.CreateMenu"

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, &FieldErrors{Fields: map[string]string{"name": "name must not be empty"}})
	}

	profile, err := s.storage.ProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if profile.OwnerID != actor.UserID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	decision, err := s.menuQuota(ctx, profile.OwnerID, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%s: %w", op, &QuotaError{
			Resource: models.ResourceMenus,
			Current:  decision.Current,
			Max:      decision.Max,
			Message:  decision.Message,
		})
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}

	menu := &models.Menu{
		ID:        uuid.New(),
		ProfileID: profileID,
		Name:      strings.TrimSpace(in.Name),
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.SaveMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return menu, nil
}

// ListMenus возвращает меню профиля (владелец или администратор).
func (s *Service) ListMenus(ctx context.Context, actor *models.Claims, profileID uuid.UUID) ([]models.Menu, error) {
	const op = "service.menus.ListMenus"

	profile, err := s.storage.ProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if profile.OwnerID != actor.UserID && !actor.Role.HasAtLeast(models.RoleAdmin) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	menus, err := s.storage.MenusByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return menus, nil
}

// CreateItem создает позицию меню после ownership- и квота-проверок.
func (s *Service) CreateItem(ctx context.Context, actor *models.Claims, menuID uuid.UUID, in ItemInput) (*models.Item, error) {
	const op = "service.menus.CreateItem"

	fields := make(map[string]string)
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name must not be empty"
	}
	if in.PriceCents < 0 {
		fields["price_cents"] = "price must not be negative"
	}
	if len(fields) > 0 {
		return nil, fmt.Errorf("%s: %w", op, &FieldErrors{Fields: fields})
	}

	menu, owner, err := s.menuWithOwner(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if owner != actor.UserID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	decision, err := s.itemQuota(ctx, owner, menu.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%s: %w", op, &QuotaError{
			Resource: models.ResourceItems,
			Current:  decision.Current,
			Max:      decision.Max,
			Message:  decision.Message,
		})
	}

	item := &models.Item{
		ID:          uuid.New(),
		MenuID:      menu.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.storage.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// ListItems возвращает позиции меню (владелец или администратор).
func (s *Service) ListItems(ctx context.Context, actor *models.Claims, menuID uuid.UUID) ([]models.Item, error) {
	const op = "service.menus.ListItems"

	_, owner, err := s.menuWithOwner(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if owner != actor.UserID && !actor.Role.HasAtLeast(models.RoleAdmin) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	items, err := s.storage.ItemsByMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ScanMenu — публичная операция сканирования QR-кода: атомарно учитывает
// сканирование в дневном счётчике и при прохождении лимита возвращает меню
// с позициями. При отказе лимита инкремент остаётся записанным, но меню
// не отдаётся (охраняемый эффект не выполняется).
func (s *Service) ScanMenu(ctx context.Context, menuID uuid.UUID) (*models.Menu, []models.Item, error) {
	const op = "service.menus.ScanMenu"

	menu, owner, err := s.menuWithOwner(ctx, menuID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	decision, err := s.registerScan(ctx, owner, menu.ID, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, nil, fmt.Errorf("%s: %w", op, &QuotaError{
			Resource: models.ResourceScans,
			Current:  decision.Current,
			Max:      decision.Max,
			Message:  decision.Message,
		})
	}

	items, err := s.storage.ItemsByMenu(ctx, menu.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return menu, items, nil
}

// menuWithOwner возвращает меню и владельца его профиля.
func (s *Service) menuWithOwner(ctx context.Context, menuID uuid.UUID) (*models.Menu, uuid.UUID, error) {
	const op = "service.menus.menuWithOwner"

	menu, err := s.storage.MenuByID(ctx, menuID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.storage.ProfileByID(ctx, menu.ProfileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return menu, profile.OwnerID, nil
}
