package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/stockroomhq/stockroom/internal/http/respond"
	"github.com/stockroomhq/stockroom/internal/middleware"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/models/dto"
	"github.com/stockroomhq/stockroom/internal/storage"
)

// ItemsHandler owns the owner-scoped item CRUD endpoints. Every store call
// carries the owner id taken from the verified session context, so rows
// belonging to other users are unreachable by construction.
type ItemsHandler struct {
	store  storage.ItemStore
	logger *slog.Logger
}

// NewItemsHandler constructs the handler.
func NewItemsHandler(store storage.ItemStore, logger *slog.Logger) *ItemsHandler {
	return &ItemsHandler{store: store, logger: logger}
}

// Register attaches item routes to the mux.
func (h *ItemsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /items", h.handleList)
	mux.HandleFunc("GET /items/{id}", h.handleGet)
	mux.HandleFunc("POST /items", h.handleCreate)
	mux.HandleFunc("PUT /items/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /items/{id}", h.handleDelete)
}

func (h *ItemsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	items, err := h.store.ListItems(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("list items failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	// No items is an empty collection, not an error.
	respond.JSON(w, http.StatusOK, items)
}

func (h *ItemsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	itemID, err := parseItemID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid item id")
		return
	}
	item, err := h.store.GetItem(r.Context(), itemID, ownerID)
	if err != nil {
		h.respondStoreError(w, err, "get item")
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

func (h *ItemsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	req, err := decodeItemRequest(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item := models.Item{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	created, err := h.store.CreateItem(r.Context(), item)
	if err != nil {
		h.logger.Error("create item failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *ItemsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	itemID, err := parseItemID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid item id")
		return
	}
	req, err := decodeItemRequest(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item := models.Item{
		ID:       itemID,
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	updated, err := h.store.UpdateItem(r.Context(), item)
	if err != nil {
		h.respondStoreError(w, err, "update item")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *ItemsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	itemID, err := parseItemID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := h.store.DeleteItem(r.Context(), itemID, ownerID); err != nil {
		h.respondStoreError(w, err, "delete item")
		return
	}
	respond.Message(w, http.StatusOK, "item deleted")
}

// respondStoreError maps a store failure to a client response. A row owned by
// someone else surfaces as the same 404 as a missing row.
func (h *ItemsHandler) respondStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "item not found")
		return
	}
	h.logger.Error(op+" failed", "error", err)
	respond.Error(w, http.StatusInternalServerError, "failed to "+op)
}

func decodeItemRequest(r *http.Request) (dto.ItemRequest, error) {
	var req dto.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return dto.ItemRequest{}, errors.New("invalid JSON payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return dto.ItemRequest{}, errors.New("name is required")
	}
	if req.Price < 0 {
		return dto.ItemRequest{}, errors.New("price must be non-negative")
	}
	if req.Quantity < 0 {
		return dto.ItemRequest{}, errors.New("quantity must be non-negative")
	}
	return req, nil
}

func parseItemID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
