package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind — вид токена; переносится внутри подписанного payload (claim "typ"),
// чтобы отказ верификации при перепутанных токенах был явным, а не зависел
// только от того, каким секретом подпись не сошлась.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims — неизменяемый набор утверждений из проверенного токена.
// Производится только кодеком токенов; вручную не конструируется.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}
