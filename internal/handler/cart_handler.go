package handler

import (
	"net/http"

	"tenera-store/internal/cart"
	"tenera-store/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles session cart HTTP requests.
type CartHandler struct {
	carts      *cart.Service
	reconciler *cart.Reconciler
	logger     zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Service, reconciler *cart.Reconciler, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:      carts,
		reconciler: reconciler,
		logger:     logger.With().Str("handler", "cart").Logger(),
	}
}

// restoreResponse wraps the restored cart with the redirect echo used
// by hosted landing pages that bounce through the storefront.
type restoreResponse struct {
	model.CartSummary
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Restore resolves the session's initial cart from the query
// parameters and stored state. POST /api/v1/cart/restore
func (h *CartHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	summary := h.reconciler.Restore(r.Context(), id, r.URL.Query())

	writeJSON(w, http.StatusOK, restoreResponse{
		CartSummary: summary,
		RedirectURL: r.URL.Query().Get("redirectUrl"),
	})
}

// Get returns the current cart. GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.carts.Get(r.Context(), id))
}

// AddItem merges an item into the cart. POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	var item model.CartItem
	if err := decodeJSON(r, &item); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	summary, err := h.carts.AddItem(r.Context(), id, item)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// RemoveItem drops a cart line. DELETE /api/v1/cart/items/{itemID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	writeJSON(w, http.StatusOK, h.carts.RemoveItem(r.Context(), id, itemID))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity replaces a line's quantity. Zero or less removes the
// line. PATCH /api/v1/cart/items/{itemID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	summary, err := h.carts.UpdateQuantity(r.Context(), id, itemID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Clear empties the cart. DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.carts.Clear(r.Context(), id))
}
