package handler

import (
	"net/http"

	"tenera-store/internal/model"
	"tenera-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout, order bump, and discount preview
// requests.
type CheckoutHandler struct {
	checkout  service.CheckoutService
	discounts service.DiscountService
	logger    zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, discounts service.DiscountService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:  checkout,
		discounts: discounts,
		logger:    logger.With().Str("handler", "checkout").Logger(),
	}
}

// Start initialises a gateway transaction for the session cart.
// POST /api/v1/checkout
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	var req service.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	result, err := h.checkout.Start(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Bumps lists the bumps the session currently qualifies for.
// GET /api/v1/checkout/bumps
func (h *CheckoutHandler) Bumps(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	bumps, err := h.checkout.EligibleBumps(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bumps)
}

// AcceptBump adds a bump offer to the cart as a single synthetic line.
// POST /api/v1/checkout/bumps/{bumpID}/accept
func (h *CheckoutHandler) AcceptBump(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "session ID is required", h.logger)
		return
	}

	bumpID, err := uuid.Parse(chi.URLParam(r, "bumpID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "bump ID is not a valid UUID", h.logger)
		return
	}

	summary, err := h.checkout.AcceptBump(r.Context(), id, bumpID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Upsells lists the active post-checkout offers.
// GET /api/v1/checkout/upsells
func (h *CheckoutHandler) Upsells(w http.ResponseWriter, r *http.Request) {
	upsells, err := h.checkout.Upsells(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, upsells)
}

type discountPreviewRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type discountPreviewResponse struct {
	Code     string  `json:"code"`
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// PreviewDiscount validates a code against a subtotal without burning
// a use. POST /api/v1/checkout/discount
func (h *CheckoutHandler) PreviewDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	dc, err := h.discounts.Validate(r.Context(), req.Code)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	discount, total := h.discounts.Quote(dc, req.Subtotal)
	writeJSON(w, http.StatusOK, discountPreviewResponse{
		Code:     dc.Code,
		Valid:    true,
		Discount: discount,
		Total:    total,
	})
}
