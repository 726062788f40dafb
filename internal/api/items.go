package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/imaging"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// ItemsHandler handles listing endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type listingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Size        string `json:"size"`
	Brand       string `json:"brand"`
	Color       string `json:"color"`
	Condition   string `json:"condition"`
	Tags        string `json:"tags"`
}

func (req *listingRequest) listing() (store.Listing, error) {
	l := store.Listing{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Size:        strings.TrimSpace(req.Size),
		Brand:       strings.TrimSpace(req.Brand),
		Color:       strings.TrimSpace(req.Color),
		Condition:   strings.TrimSpace(req.Condition),
		Tags:        strings.TrimSpace(req.Tags),
	}
	return l, model.ValidateListing(l.Title, l.Category, l.Condition)
}

// splitList parses a comma-separated query value.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ItemFilter{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Brand:      q.Get("brand"),
		Sizes:      splitList(q.Get("size")),
		Conditions: splitList(q.Get("condition")),
		Status:     q.Get("status"),
	}

	if filter.Status != "" && !model.ValidItemStatus(filter.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if v := q.Get("owner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid owner_id")
			return
		}
		filter.OwnerID = id
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		writeError(w, err, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l, err := req.listing()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, claims.UserID, l)
	if err != nil {
		writeError(w, err, "failed to create item")
		return
	}

	slog.Info("item listed", "user", claims.Email, "item", item.ID, "title", item.Title)
	jsonResponse(w, http.StatusCreated, item)
}

// ownedItem loads the {id} item and checks that the caller owns it. It writes
// the error response itself and returns nil on failure.
func (h *ItemsHandler) ownedItem(w http.ResponseWriter, r *http.Request) *model.Item {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return nil
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "failed to get item")
		return nil
	}
	if item == nil || item.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil
	}
	if item.OwnerID != GetClaims(r.Context()).UserID {
		jsonError(w, http.StatusForbidden, "not your item")
		return nil
	}
	return item
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l, err := req.listing()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, item.ID, l)
	if err != nil {
		writeError(w, err, "failed to update item")
		return
	}
	if !updated {
		writeError(w, apperr.Newf(apperr.CodeItemUnavailable, "item %d is part of a swap", item.ID), "")
		return
	}

	item, err = store.GetItem(r.Context(), h.DB, item.ID)
	if err != nil {
		writeError(w, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	deleted, err := store.DeleteItem(r.Context(), h.DB, item.ID)
	if err != nil {
		writeError(w, err, "failed to delete item")
		return
	}
	if !deleted {
		writeError(w, apperr.Newf(apperr.CodeItemUnavailable, "item %d is part of a swap", item.ID), "")
		return
	}

	slog.Info("item removed", "user", GetClaims(r.Context()).Email, "item", item.ID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadPhoto handles PUT /api/items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	// Leave room for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if errors.Is(err, imaging.ErrUnsupportedFormat) || errors.Is(err, imaging.ErrTooLarge) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, err, "failed to process photo")
		return
	}

	if err := store.SetItemPhoto(r.Context(), h.DB, item.ID, photo.Data, photo.MIME); err != nil {
		writeError(w, err, "failed to save photo")
		return
	}

	slog.Info("item photo uploaded", "item", item.ID, "width", photo.Width, "height", photo.Height)
	jsonResponse(w, http.StatusOK, map[string]string{"photo_url": "/api/items/" + strconv.FormatInt(item.ID, 10) + "/photo"})
}

// GetPhoto handles GET /api/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// Mine handles GET /api/my-items.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{OwnerID: GetClaims(r.Context()).UserID})
	if err != nil {
		writeError(w, err, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Available handles GET /api/available-items: the caller's items that can be
// offered in a new swap.
func (h *ItemsHandler) Available(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListAvailableItems(r.Context(), h.DB, GetClaims(r.Context()).UserID)
	if err != nil {
		writeError(w, err, "failed to list available items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}
