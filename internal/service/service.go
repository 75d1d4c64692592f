// service содержит бизнес-логику qrmenu-backend:
// регистрацию/аутентификацию пользователей, выпуск/ротацию/отзыв токенов,
// проверку квот тарифных планов и работу с хранилищем через интерфейсы
// из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются и далее маппятся HTTP-слоем на статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pribylovaa/qrmenu-backend/internal/cache"
	"github.com/pribylovaa/qrmenu-backend/internal/config"
	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/notify"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Сообщение нарочно одно на оба случая (анти-enumeration). HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи/виду
	// или отсутствует в хранилище. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/rotation) и недействителен
	// независимо от срока. HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrMissingToken — в запросе нет ни cookie, ни bearer-заголовка. HTTP 401.
	ErrMissingToken = errors.New("missing token")

	// ErrEmailTaken — e-mail уже занят другим пользователем. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrValidation — входные данные не прошли схему; детали — в FieldErrors.
	// HTTP 400.
	ErrValidation = errors.New("validation failed")

	// ErrAccountSuspended — аккаунт заблокирован администратором. HTTP 403.
	// Отдельное сообщение раскрывает существование аккаунта — осознанное
	// продуктовое решение, см. DESIGN.md.
	ErrAccountSuspended = errors.New("account suspended")

	// ErrPermissionDenied — идентичность валидна, но ранг роли недостаточен.
	// HTTP 403 (в отличие от 401 аутентификационных ошибок).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotOwner — ресурс принадлежит другому пользователю. HTTP 403.
	ErrNotOwner = errors.New("not resource owner")

	// ErrNotFound — запрошенный ресурс отсутствует. HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded — достигнут потолок тарифа для счётных ресурсов. HTTP 403.
	ErrQuotaExceeded = errors.New("plan quota exceeded")

	// ErrScanLimit — достигнут дневной лимит сканирований. HTTP 429.
	ErrScanLimit = errors.New("daily scan limit exceeded")
)

// FieldErrors — структурированная ошибка валидации: карта поле→сообщение.
// Разворачивается в ErrValidation, чтобы транспорт маппил её в 400.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

// QuotaError — отказ квоты с числами current/max, чтобы клиент мог показать
// «N из M использовано» без дополнительного запроса.
// Разворачивается в ErrScanLimit (429) для сканирований и в ErrQuotaExceeded
// (403) для остальных классов ресурсов.
type QuotaError struct {
	Resource models.ResourceClass
	Current  int
	Max      int
	Message  string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %d of %d used", e.Resource, e.Current, e.Max)
}

func (e *QuotaError) Unwrap() error {
	if e.Resource == models.ResourceScans {
		return ErrScanLimit
	}

	return ErrQuotaExceeded
}

// Service описывает бизнес-логику qrmenu-backend.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	ncfg    config.NotifyConfig
	mailer  notify.Mailer        // может быть nil, если доставка не сконфигурирована
	blcache cache.BlacklistCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig, ncfg config.NotifyConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
		ncfg:    ncfg,
	}
}

// SetMailer устанавливает внешнюю доставку писем (опционально).
func (s *Service) SetMailer(m notify.Mailer) {
	s.mailer = m
}

// SetBlacklistCache устанавливает кэш чёрного списка access-токенов (опционально).
func (s *Service) SetBlacklistCache(c cache.BlacklistCache) {
	s.blcache = c
}
