package handler

import (
	"net/http"
	"strconv"
	"time"

	"tenera-store/internal/model"
	"tenera-store/internal/repository"
	"tenera-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler handles the back-office commerce endpoints: catalogue,
// orders, discount codes, order bumps, and upsells.
type AdminHandler struct {
	products  service.ProductService
	orders    service.OrderService
	discounts service.DiscountService
	bumps     repository.BumpRepository
	logger    zerolog.Logger
}

// NewAdminHandler creates a new admin commerce handler.
func NewAdminHandler(
	products service.ProductService,
	orders service.OrderService,
	discounts service.DiscountService,
	bumps repository.BumpRepository,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products:  products,
		orders:    orders,
		discounts: discounts,
		bumps:     bumps,
		logger:    logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateProduct adds a product. POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	product, err := h.products.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces a product. PUT /api/v1/admin/products/{productID}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	product, err := h.products.Update(r.Context(), chi.URLParam(r, "productID"), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product. DELETE /api/v1/admin/products/{productID}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders returns orders, newest first. GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	status := r.URL.Query().Get("status")

	orders, err := h.orders.List(r.Context(), status, limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrder returns a single order. GET /api/v1/admin/orders/{orderID}
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is not a valid UUID", h.logger)
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order along the allowed transitions.
// PATCH /api/v1/admin/orders/{orderID}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is not a valid UUID", h.logger)
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListDiscounts returns all discount codes. GET /api/v1/admin/discounts
func (h *AdminHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	codes, err := h.discounts.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

// CreateDiscount adds a discount code. POST /api/v1/admin/discounts
func (h *AdminHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req model.DiscountCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	dc, err := h.discounts.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, dc)
}

// UpdateDiscount replaces a discount code.
// PUT /api/v1/admin/discounts/{discountID}
func (h *AdminHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "discountID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "discount ID is not a valid UUID", h.logger)
		return
	}

	var req model.DiscountCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	dc, err := h.discounts.Update(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dc)
}

// DeleteDiscount removes a discount code.
// DELETE /api/v1/admin/discounts/{discountID}
func (h *AdminHandler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "discountID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "discount ID is not a valid UUID", h.logger)
		return
	}

	if err := h.discounts.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBumps returns all order bumps. GET /api/v1/admin/bumps
func (h *AdminHandler) ListBumps(w http.ResponseWriter, r *http.Request) {
	bumps, err := h.bumps.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, bumps)
}

// CreateBump adds an order bump. POST /api/v1/admin/bumps
func (h *AdminHandler) CreateBump(w http.ResponseWriter, r *http.Request) {
	var bump model.OrderBump
	if err := decodeJSON(r, &bump); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if bump.Title == "" || bump.OriginalPrice < 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "bump title and a non-negative price are required", h.logger)
		return
	}

	bump.ID = uuid.New()
	bump.CreatedAt = time.Now().UTC()
	if err := h.bumps.Create(r.Context(), &bump); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, bump)
}

// UpdateBump replaces an order bump. PUT /api/v1/admin/bumps/{bumpID}
func (h *AdminHandler) UpdateBump(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bumpID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "bump ID is not a valid UUID", h.logger)
		return
	}

	var bump model.OrderBump
	if err := decodeJSON(r, &bump); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	bump.ID = id
	if err := h.bumps.Update(r.Context(), &bump); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bump)
}

// DeleteBump removes an order bump. DELETE /api/v1/admin/bumps/{bumpID}
func (h *AdminHandler) DeleteBump(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bumpID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "bump ID is not a valid UUID", h.logger)
		return
	}

	if err := h.bumps.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUpsells returns all upsell products, active or not.
// GET /api/v1/admin/upsells
func (h *AdminHandler) ListUpsells(w http.ResponseWriter, r *http.Request) {
	upsells, err := h.bumps.ListUpsells(r.Context(), false)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, upsells)
}

// CreateUpsell adds an upsell product. POST /api/v1/admin/upsells
func (h *AdminHandler) CreateUpsell(w http.ResponseWriter, r *http.Request) {
	var up model.UpsellProduct
	if err := decodeJSON(r, &up); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if up.Name == "" || up.Price < 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "upsell name and a non-negative price are required", h.logger)
		return
	}

	up.ID = uuid.New()
	up.CreatedAt = time.Now().UTC()
	if err := h.bumps.CreateUpsell(r.Context(), &up); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, up)
}

// UpdateUpsell replaces an upsell product.
// PUT /api/v1/admin/upsells/{upsellID}
func (h *AdminHandler) UpdateUpsell(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "upsellID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "upsell ID is not a valid UUID", h.logger)
		return
	}

	var up model.UpsellProduct
	if err := decodeJSON(r, &up); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	up.ID = id
	if err := h.bumps.UpdateUpsell(r.Context(), &up); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, up)
}

// DeleteUpsell removes an upsell product.
// DELETE /api/v1/admin/upsells/{upsellID}
func (h *AdminHandler) DeleteUpsell(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "upsellID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "upsell ID is not a valid UUID", h.logger)
		return
	}

	if err := h.bumps.DeleteUpsell(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
