package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/pribylovaa/qrmenu-backend/internal/metrics"
	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/notify"
	"github.com/pribylovaa/qrmenu-backend/internal/pkg/log"
	"github.com/pribylovaa/qrmenu-backend/internal/pkg/redact"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput — входные данные регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUser регистрирует нового пользователя и выпускает пару токенов.
// Приветственное письмо отправляется в фоне и не влияет на результат.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RegisterUser"

	normEmail, ferr := validateRegistration(in)
	if ferr != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ferr)
	}

	_, err := s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.dispatchWelcomeMail(ctx, user)

	return s.issueTokenPair(ctx, user)
}

// LoginUser выполняет вход по email+пароль.
// Неизвестный email и неверный пароль дают один и тот же ответ;
// блокировка аккаунта — отдельное сообщение (осознанное продуктовое решение).
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.LoginUser"

	normEmail, err := normalizeEmail(email)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Suspended {
		metrics.LoginAttempts.WithLabelValues("suspended").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrAccountSuspended)
	}

	if !checkPassword(user.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	metrics.LoginAttempts.WithLabelValues("ok").Inc()

	return s.issueTokenPair(ctx, user)
}

// RefreshSession обновляет пару токенов по refresh-токену (ротация).
// Запись одноразовая: старая удаляется ДО выпуска новой пары, поэтому
// повтор старого токена после ротации гарантированно отклоняется.
func (s *Service) RefreshSession(ctx context.Context, refreshToken string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RefreshSession"

	claims, err := s.parseToken(models.TokenKindRefresh, refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("denied").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	hash := hashToken(refreshToken)

	record, err := s.storage.RefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.TokenRefreshes.WithLabelValues("denied").Inc()
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	if !record.ExpiresAt.After(now) {
		// Просроченную запись удаляем и отказываем — срок молча не продлевается.
		if _, derr := s.storage.DeleteRefreshToken(ctx, hash); derr != nil {
			log.From(ctx).Warn("expired_refresh_delete_failed",
				slog.String("op", op),
				slog.String("err", derr.Error()),
			)
		}

		metrics.TokenRefreshes.WithLabelValues("denied").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	// Удаление старой записи коммитится до выпуска новой пары.
	deleted, err := s.storage.DeleteRefreshToken(ctx, hash)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if !deleted {
		// Конкурентная ротация успела первой — этот токен уже использован.
		metrics.TokenRefreshes.WithLabelValues("denied").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	user, err := s.storage.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.TokenRefreshes.WithLabelValues("denied").Inc()
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Suspended {
		metrics.TokenRefreshes.WithLabelValues("denied").Inc()
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrAccountSuspended)
	}

	pair, uid, err := s.issueTokenPair(ctx, user)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return nil, uuid.Nil, err
	}

	metrics.TokenRefreshes.WithLabelValues("ok").Inc()

	return pair, uid, nil
}

// Logout — терминальная best-effort операция: чистит серверное состояние
// сессии и всегда завершается успешно, даже если токены уже невалидны
// или хранилище частично недоступно (ошибки только логируются).
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) {
	const op = "service.auth.Logout"

	lg := log.From(ctx)

	if refreshToken != "" {
		// Удаление по хэшу идемпотентно: чужой/битый токен просто не найдётся.
		if _, err := s.storage.DeleteRefreshToken(ctx, hashToken(refreshToken)); err != nil {
			lg.Warn("logout_refresh_delete_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	if accessToken == "" {
		return
	}

	claims, err := s.parseToken(models.TokenKindAccess, accessToken)
	if err != nil {
		// Подпись не сошлась или срок вышел — блэклистить нечего.
		return
	}

	hash := hashToken(accessToken)
	if err := s.storage.BlacklistAccessToken(ctx, hash, claims.ExpiresAt); err != nil {
		lg.Warn("logout_blacklist_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	if s.blcache != nil {
		if err := s.blcache.Add(ctx, hash, time.Until(claims.ExpiresAt)); err != nil {
			lg.Warn("logout_blacklist_cache_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}
}

// Authenticate — per-request проверка access-токена.
// Чёрный список проверяется ДО того, как результату верификации подписи
// доверяют авторизационные решения: структурно валидный, но отозванный
// токен не авторизует ничего. Ошибка хранилища при проверке — отказ
// (fail closed), а не «не отозван».
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.Claims, error) {
	const op = "service.auth.Authenticate"

	if accessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	hash := hashToken(accessToken)

	if s.blcache != nil {
		hit, err := s.blcache.Contains(ctx, hash)
		if err != nil {
			// Кэш — ускоритель: при его отказе истина остаётся за хранилищем.
			log.From(ctx).Warn("blacklist_cache_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if hit {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}
	}

	revoked, err := s.storage.IsBlacklisted(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	claims, err := s.parseToken(models.TokenKindAccess, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов
// и сохраняет refresh-половину в хранилище.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, accessExp, err := s.issueToken(models.TokenKindAccess, user, now)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, refreshExp, err := s.issueToken(models.TokenKindRefresh, user, now)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	record := &models.RefreshToken{
		TokenHash: hashToken(refreshToken),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: refreshExp,
	}

	if err := s.storage.SaveRefreshToken(ctx, record); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, user.ID, nil
}

// dispatchWelcomeMail отправляет приветственное письмо в отсоединённой
// горутине: сбой доставки логируется и никогда не отменяет регистрацию.
func (s *Service) dispatchWelcomeMail(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}

	lg := log.From(ctx)
	msg := notify.Message{
		To:      user.Email,
		Subject: "Welcome to QRMenu",
		Body:    fmt.Sprintf("Hi %s, your account is ready.", user.Name),
	}

	// Контекст запроса отвязывается: ответ клиенту не ждёт доставку письма.
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ncfg.Timeout)

	go func() {
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				lg.Error("welcome_mail_panic", slog.Any("reason", rec))
			}
		}()

		if err := s.mailer.Send(detached, msg); err != nil {
			lg.Warn("welcome_mail_failed",
				slog.String("to", redact.Email(user.Email)),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// normalizeEmail проверяет базовый формат email и обрезает пробелы снаружи.
func normalizeEmail(raw string) (string, error) {
	const op = "service.auth.normalizeEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrValidation)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrValidation)
	}

	return strings.ToLower(email), nil
}

// validateRegistration проверяет входные данные регистрации и возвращает
// нормализованный email либо карту ошибок по полям.
// Политика пароля: длина >= 8, хотя бы одна заглавная, цифра и спецсимвол.
func validateRegistration(in RegisterInput) (string, *FieldErrors) {
	fields := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name must not be empty"
	}

	normEmail, err := normalizeEmail(in.Email)
	if err != nil {
		fields["email"] = "invalid email format"
	}

	if msg := passwordPolicyViolation(in.Password); msg != "" {
		fields["password"] = msg
	}

	if len(fields) > 0 {
		return "", &FieldErrors{Fields: fields}
	}

	return normEmail, nil
}

func passwordPolicyViolation(pw string) string {
	if len(pw) == 0 {
		return "password must not be empty"
	}

	if len([]rune(pw)) < 8 {
		return "password must be at least 8 characters"
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasDigit || !hasSpecial {
		return "password must contain an uppercase letter, a digit and a symbol"
	}

	return ""
}
