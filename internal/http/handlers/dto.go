// Входные/выходные модели REST-слоя.
package handlers

import (
	"github.com/pribylovaa/qrmenu-backend/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID          string `json:"user_id"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

type meResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type profileRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type profileResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Address   string `json:"address"`
	CreatedAt int64  `json:"created_at"`
}

type menuRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type menuResponse struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	CreatedAt int64  `json:"created_at"`
}

type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type itemResponse struct {
	ID          string `json:"id"`
	MenuID      string `json:"menu_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type scanResponse struct {
	Menu  menuResponse   `json:"menu"`
	Items []itemResponse `json:"items"`
}

type quotaResponse struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Suspended bool   `json:"suspended"`
	CreatedAt int64  `json:"created_at"`
}

func authFromPair(pair *models.TokenPair, userID string) authResponse {
	return authResponse{
		UserID:          userID,
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	}
}

func profileFromModel(p *models.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID.String(),
		OwnerID:   p.OwnerID.String(),
		Name:      p.Name,
		Slug:      p.Slug,
		Address:   p.Address,
		CreatedAt: p.CreatedAt.Unix(),
	}
}

func menuFromModel(m *models.Menu) menuResponse {
	return menuResponse{
		ID:        m.ID.String(),
		ProfileID: m.ProfileID.String(),
		Name:      m.Name,
		Currency:  m.Currency,
		CreatedAt: m.CreatedAt.Unix(),
	}
}

func itemFromModel(it *models.Item) itemResponse {
	return itemResponse{
		ID:          it.ID.String(),
		MenuID:      it.MenuID.String(),
		Name:        it.Name,
		Description: it.Description,
		PriceCents:  it.PriceCents,
	}
}

func userFromModel(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		Suspended: u.Suspended,
		CreatedAt: u.CreatedAt.Unix(),
	}
}
