package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// AdminHandler handles moderation endpoints (admin only).
type AdminHandler struct {
	DB *sql.DB
}

type suspendRequest struct {
	Suspended bool `json:"suspended"`
}

type statsResponse struct {
	Users int            `json:"users"`
	Items map[string]int `json:"items"`
	Swaps map[string]int `json:"swaps"`
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Suspend handles PUT /api/admin/users/{id}/suspend.
func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req suspendRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if id == claims.UserID && req.Suspended {
		jsonError(w, http.StatusBadRequest, "cannot suspend yourself")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "failed to get user")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := store.SetUserSuspended(r.Context(), h.DB, id, req.Suspended); err != nil {
		writeError(w, err, "failed to update user")
		return
	}

	slog.Info("user suspension changed", "user", claims.Email, "target_user", user.Email, "suspended", req.Suspended)

	user, err = store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "failed to get user")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// RemoveItem handles DELETE /api/admin/items/{id}. Only listings that are not
// part of a live or completed swap can be removed.
func (h *AdminHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "failed to get item")
		return
	}
	if item == nil || item.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	deleted, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "failed to remove item")
		return
	}
	if !deleted {
		writeError(w, apperr.Newf(apperr.CodeItemUnavailable, "item %d is part of a swap", id), "")
		return
	}

	slog.Warn("item removed by admin", "user", claims.Email, "item", id, "owner", item.OwnerID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item removed"})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := store.CountUsers(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "failed to count users")
		return
	}
	items, err := store.CountItemsByStatus(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "failed to count items")
		return
	}
	swaps, err := store.CountSwapsByStatus(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "failed to count swaps")
		return
	}

	fillZero(items, model.ItemStatusActive, model.ItemStatusPendingSwap, model.ItemStatusSwapped)
	fillZero(swaps, model.SwapStatuses...)

	jsonResponse(w, http.StatusOK, statsResponse{Users: users, Items: items, Swaps: swaps})
}

// fillZero adds missing keys so every status appears in the response.
func fillZero(counts map[string]int, keys ...string) {
	for _, k := range keys {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
}
