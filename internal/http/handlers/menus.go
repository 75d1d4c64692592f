package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/qrmenu-backend/internal/errors"
	"github.com/pribylovaa/qrmenu-backend/internal/http/middleware"
	"github.com/pribylovaa/qrmenu-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateMenu — POST /profiles/{id}/menus (ownership + квота).
func (h *Handlers) CreateMenu(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	var in menuRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	menu, err := h.Service.CreateMenu(r.Context(), claims, profileID, service.MenuInput{
		Name:     in.Name,
		Currency: in.Currency,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, menuFromModel(menu))
}

// ListMenus — GET /profiles/{id}/menus (владелец или администратор).
func (h *Handlers) ListMenus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	menus, err := h.Service.ListMenus(r.Context(), claims, profileID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]menuResponse, 0, len(menus))
	for i := range menus {
		out = append(out, menuFromModel(&menus[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// CreateItem — POST /menus/{id}/items (ownership + квота).
func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	menuID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	var in itemRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	item, err := h.Service.CreateItem(r.Context(), claims, menuID, service.ItemInput{
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemFromModel(item))
}

// ListItems — GET /menus/{id}/items (владелец или администратор).
func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	menuID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	items, err := h.Service.ListItems(r.Context(), claims, menuID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemFromModel(&items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// ScanMenu — POST /menus/{id}/scan. Публичный маршрут: аутентификация
// не требуется, лимит сканирований тарифа владельца — требуется (429).
func (h *Handlers) ScanMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	menu, items, err := h.Service.ScanMenu(r.Context(), menuID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := scanResponse{Menu: menuFromModel(menu)}
	out.Items = make([]itemResponse, 0, len(items))
	for i := range items {
		out.Items = append(out.Items, itemFromModel(&items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}
