package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/swap"
)

// SwapsHandler handles swap and swap message endpoints.
type SwapsHandler struct {
	Ledger *swap.Ledger
}

type proposeRequest struct {
	ProposerItemID int64 `json:"proposer_item_id"`
	ReceiverItemID int64 `json:"receiver_item_id"`
	ReceiverID     int64 `json:"receiver_id"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type messageRequest struct {
	Content string `json:"content"`
}

// swapView adds the statuses the caller may move the swap to.
type swapView struct {
	*model.Swap
	NextStatuses []string `json:"next_statuses"`
}

func viewFor(s *model.Swap, userID int64) swapView {
	next := swap.NextStatuses(s, userID)
	if next == nil {
		next = []string{}
	}
	return swapView{Swap: s, NextStatuses: next}
}

// Create handles POST /api/swaps.
func (h *SwapsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req proposeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProposerItemID <= 0 || req.ReceiverItemID <= 0 || req.ReceiverID <= 0 {
		jsonError(w, http.StatusBadRequest, "proposer_item_id, receiver_item_id and receiver_id are required")
		return
	}

	s, err := h.Ledger.Propose(r.Context(), claims.UserID, req.ProposerItemID, req.ReceiverItemID, req.ReceiverID)
	if err != nil {
		writeError(w, err, "failed to propose swap")
		return
	}
	jsonResponse(w, http.StatusCreated, viewFor(s, claims.UserID))
}

// List handles GET /api/swaps.
func (h *SwapsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	inbox, err := h.Ledger.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, "failed to list swaps")
		return
	}
	jsonResponse(w, http.StatusOK, inbox)
}

// Get handles GET /api/swaps/{id}. Admins may read any swap.
func (h *SwapsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	s, err := h.Ledger.Get(r.Context(), id, claims.UserID)
	if apperr.Is(err, apperr.CodeUnauthorized) && claims.Role == model.RoleAdmin {
		s, err = h.Ledger.Lookup(r.Context(), id)
	}
	if err != nil {
		writeError(w, err, "failed to get swap")
		return
	}
	jsonResponse(w, http.StatusOK, viewFor(s, claims.UserID))
}

// Update handles PATCH /api/swaps/{id}.
func (h *SwapsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target := strings.TrimSpace(req.Status)
	if target == "" {
		jsonError(w, http.StatusBadRequest, "status required")
		return
	}

	s, err := h.Ledger.Transition(r.Context(), id, claims.UserID, target)
	if err != nil {
		writeError(w, err, "failed to update swap")
		return
	}
	jsonResponse(w, http.StatusOK, viewFor(s, claims.UserID))
}

// Delete handles DELETE /api/swaps/{id}.
func (h *SwapsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	if err := h.Ledger.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err, "failed to delete swap")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "swap deleted"})
}

// Messages handles GET /api/swaps/{id}/messages.
func (h *SwapsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	messages, err := h.Ledger.Messages(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err, "failed to list messages")
		return
	}
	jsonResponse(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/swaps/{id}/messages.
func (h *SwapsHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.Ledger.SendMessage(r.Context(), id, claims.UserID, req.Content)
	if err != nil {
		writeError(w, err, "failed to send message")
		return
	}
	jsonResponse(w, http.StatusCreated, msg)
}

// MarkRead handles POST /api/swaps/{id}/read.
func (h *SwapsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	if err := h.Ledger.MarkRead(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err, "failed to mark messages read")
		return
	}
	slog.Debug("swap messages read", "swap", id, "user", claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}
