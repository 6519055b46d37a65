package service

import (
	"context"

	"tenera-store/internal/model"
	"tenera-store/internal/payment"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product's mutable fields.
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// DiscountService defines operations for discount code validation and
// management.
type DiscountService interface {
	// Validate checks a code is usable right now: active, unexpired,
	// under its usage cap.
	Validate(ctx context.Context, code string) (*model.DiscountCode, error)

	// Quote computes the discount and discounted total for a subtotal.
	Quote(dc *model.DiscountCode, subtotal float64) (discount, total float64)

	// List retrieves all codes for the admin screens.
	List(ctx context.Context) ([]model.DiscountCode, error)

	// Create adds a new code.
	Create(ctx context.Context, req *model.DiscountCodeRequest) (*model.DiscountCode, error)

	// Update replaces a code's mutable fields.
	Update(ctx context.Context, id uuid.UUID, req *model.DiscountCodeRequest) (*model.DiscountCode, error)

	// Delete removes a code.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CheckoutRequest is the payload for starting a payment.
type CheckoutRequest struct {
	Customer     model.CustomerInfo `json:"customer"`
	DiscountCode string             `json:"discountCode,omitempty"`
}

// CheckoutResult is the outcome of a started payment.
type CheckoutResult struct {
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorizationUrl"`
	AccessCode       string  `json:"accessCode"`
	Subtotal         float64 `json:"subtotal"`
	Discount         float64 `json:"discount"`
	Total            float64 `json:"total"`
	AmountKobo       int64   `json:"amountKobo"`
}

// CheckoutService defines the checkout and order-bump flow.
type CheckoutService interface {
	// EligibleBumps returns active bumps whose minimum cart value the
	// session currently meets.
	EligibleBumps(ctx context.Context, sessionID string) ([]model.OrderBump, error)

	// AcceptBump materialises a bump as a synthetic cart line.
	// Accepting the same bump twice does not double it.
	AcceptBump(ctx context.Context, sessionID string, bumpID uuid.UUID) (model.CartSummary, error)

	// Upsells returns the active post-checkout offers.
	Upsells(ctx context.Context) ([]model.UpsellProduct, error)

	// Start snapshots the cart, applies the discount, and initialises a
	// gateway transaction.
	Start(ctx context.Context, sessionID string, req *CheckoutRequest) (*CheckoutResult, error)
}

// OrderService defines order confirmation and back-office access.
type OrderService interface {
	// ConfirmPayment handles a charge.success event: it re-verifies the
	// transaction with the gateway, writes the order, burns the
	// discount, clears the session cart, and queues the receipt.
	// Duplicate deliveries are a logged no-op.
	ConfirmPayment(ctx context.Context, charge *payment.ChargeData) (*model.Order, error)

	// GetByID retrieves an order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders, optionally filtered by status.
	List(ctx context.Context, status string, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order along the allowed transitions.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}

// CampaignService defines tagging, automations, and message scheduling.
type CampaignService interface {
	// ApplyTag assigns a tag to a customer and enqueues any automations
	// the tag triggers.
	ApplyTag(ctx context.Context, tagID uuid.UUID, customerEmail string) error

	// RemoveTag unassigns a tag.
	RemoveTag(ctx context.Context, tagID uuid.UUID, customerEmail string) error

	// ScheduleEmail queues a one-off email.
	ScheduleEmail(ctx context.Context, recipient, subject, body string, delayMinutes int) (*model.ScheduledEmail, error)

	// SendWhatsApp delivers a WhatsApp message immediately.
	SendWhatsApp(ctx context.Context, to, body string) error
}

// PaymentGateway is the slice of the Paystack client the services use.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req payment.InitializeRequest) (*payment.Authorization, error)
	VerifyTransaction(ctx context.Context, reference string) (*payment.Transaction, error)
}

// InvoiceGenerator renders and stores an invoice for a paid order,
// returning the storage key.
type InvoiceGenerator interface {
	Generate(ctx context.Context, order *model.Order) (string, error)
}

// WhatsAppSender delivers a WhatsApp message.
type WhatsAppSender interface {
	Send(ctx context.Context, to, body string) error
}
