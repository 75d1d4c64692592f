package models

// Role — упорядоченная иерархия ролей.
// Сравнения всегда идут по рангу (HasAtLeast), а не по строковому равенству,
// поэтому вставка промежуточной роли не трогает места вызова.
type Role int8

const (
	RoleUser Role = iota
	RoleRestaurantOwner
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleRestaurantOwner:
		return "restaurant_owner"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole разбирает строковое представление роли (хранилище/claims).
// Неизвестное значение трактуется как минимальная роль.
func ParseRole(s string) Role {
	switch s {
	case "restaurant_owner":
		return RoleRestaurantOwner
	case "admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// HasAtLeast — true, если ранг роли не ниже требуемого.
func (r Role) HasAtLeast(required Role) bool {
	return r >= required
}
