package service

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims — подписанный payload токена.
// Вид токена (typ) переносится внутри payload, а не выводится из того,
// какой секрет сошёлся: отказ при перепутанных токенах явный и тестируемый.
type tokenClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Kind   string `json:"typ"`
	jwt.RegisteredClaims
}

// secretFor возвращает секрет подписи для вида токена.
// Секреты независимы: подделка refresh-токена повтором access-структуры
// структурно невозможна.
func (s *Service) secretFor(kind models.TokenKind) []byte {
	if kind == models.TokenKindRefresh {
		return []byte(s.cfg.RefreshSecret)
	}

	return []byte(s.cfg.AccessSecret)
}

func (s *Service) ttlFor(kind models.TokenKind) time.Duration {
	if kind == models.TokenKindRefresh {
		return s.cfg.RefreshTokenTTL
	}

	return s.cfg.AccessTokenTTL
}

// issueToken выпускает подписанный токен заданного вида.
// Возвращает строку токена и момент истечения.
func (s *Service) issueToken(kind models.TokenKind, user *models.User, now time.Time) (string, time.Time, error) {
	const op = "service.token.issueToken"

	expiresAt := now.Add(s.ttlFor(kind))

	claims := tokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role.String(),
		Kind:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretFor(kind))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, expiresAt, nil
}

// parseToken проверяет подпись/срок/вид токена и возвращает claims.
// Отклоняет: неверную подпись, чужой алгоритм, чужой typ внутри payload,
// отсутствие обязательных claims и истёкший срок.
func (s *Service) parseToken(kind models.TokenKind, tokenStr string) (*models.Claims, error) {
	const op = "service.token.parseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return s.secretFor(kind), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// Защита от подмены вида токена: typ в payload обязан совпасть,
	// даже при разных секретах подписи.
	if claims.Kind != string(kind) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	out := &models.Claims{
		UserID: uid,
		Email:  claims.Email,
		Role:   models.ParseRole(claims.Role),
		Kind:   kind,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

// hashToken — хэш строкового значения токена для хранения/поиска
// (sha256 → base64url). Сами токены в БД не попадают.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
