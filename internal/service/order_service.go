package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenera-store/internal/cart"
	"tenera-store/internal/model"
	"tenera-store/internal/payment"
	"tenera-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements the OrderService interface.
type orderService struct {
	orders    repository.OrderRepository
	discounts repository.DiscountRepository
	emails    repository.EmailRepository
	carts     *cart.Service
	store     *cart.Store
	gateway   PaymentGateway
	invoices  InvoiceGenerator
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. invoices may be nil when
// invoice storage is disabled.
func NewOrderService(
	orders repository.OrderRepository,
	discounts repository.DiscountRepository,
	emails repository.EmailRepository,
	carts *cart.Service,
	store *cart.Store,
	gateway PaymentGateway,
	invoices InvoiceGenerator,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		discounts: discounts,
		emails:    emails,
		carts:     carts,
		store:     store,
		gateway:   gateway,
		invoices:  invoices,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ConfirmPayment handles a charge.success event. The delivery is
// re-verified against the gateway before anything is written: the
// verified transaction, not the webhook body, is the source of truth
// for both status and amount. The order is built from the session cart
// snapshot, and replayed deliveries hit the unique payment reference
// and return the existing order.
func (s *orderService) ConfirmPayment(ctx context.Context, charge *payment.ChargeData) (*model.Order, error) {
	if charge.Status != "success" {
		return nil, fmt.Errorf("charge %s has status %q, not success", charge.Reference, charge.Status)
	}

	txn, err := s.gateway.VerifyTransaction(ctx, charge.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transaction %s: %w", charge.Reference, err)
	}
	if txn.Status != "success" {
		return nil, fmt.Errorf("transaction %s verified as %q, not success", charge.Reference, txn.Status)
	}
	if txn.Amount != charge.Amount {
		s.logger.Warn().
			Str("reference", charge.Reference).
			Int64("webhook_amount", charge.Amount).
			Int64("verified_amount", txn.Amount).
			Msg("webhook amount disagrees with verified transaction")
	}

	sessionID := charge.Metadata["session_id"]
	items, _ := s.store.Load(ctx, sessionID)
	subtotal := cart.Total(items)

	total, _ := decimal.NewFromInt(txn.Amount).Div(decimal.NewFromInt(100)).Float64()
	discountAmount := 0.0
	if subtotal > total {
		discountAmount, _ = decimal.NewFromFloat(subtotal).Sub(decimal.NewFromFloat(total)).Float64()
	}

	order := &model.Order{
		ID:               uuid.New(),
		CustomerEmail:    charge.Customer.Email,
		Items:            items,
		Subtotal:         subtotal,
		DiscountAmount:   discountAmount,
		Total:            total,
		PaymentReference: charge.Reference,
		Status:           model.OrderStatusPaid,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	if code := charge.Metadata["discount_code"]; code != "" {
		order.DiscountCode = &code
	}

	if info, err := s.store.CustomerInfo(ctx, sessionID); err == nil && info != nil {
		order.CustomerName = info.Name
		order.CustomerPhone = info.Phone
		order.DeliveryAddress = deliveryAddress(info)
		if info.Email != "" {
			order.CustomerEmail = info.Email
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, model.ErrDuplicateReference) {
			existing, getErr := s.orders.GetByReference(ctx, charge.Reference)
			if getErr != nil {
				return nil, getErr
			}
			s.logger.Info().
				Str("reference", charge.Reference).
				Msg("duplicate webhook delivery ignored")
			return existing, nil
		}
		return nil, err
	}

	if order.DiscountCode != nil {
		if err := s.discounts.IncrementUsage(ctx, *order.DiscountCode); err != nil {
			s.logger.Warn().
				Err(err).
				Str("code", *order.DiscountCode).
				Msg("failed to record discount usage")
		}
	}

	if sessionID != "" {
		s.carts.Clear(ctx, sessionID)
	}

	s.enqueueReceipt(ctx, order)
	s.generateInvoice(ctx, order)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("reference", order.PaymentReference).
		Float64("total", order.Total).
		Msg("order confirmed")

	return order, nil
}

// GetByID retrieves an order.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// List retrieves orders, optionally filtered by status.
func (s *orderService) List(ctx context.Context, status string, limit, offset int) ([]model.Order, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, status, limit, offset)
}

// UpdateStatus moves an order along the allowed transitions.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !model.ValidStatusTransition(order.Status, status) {
		return nil, model.ErrInvalidTransition
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", order.Status).
		Str("to", status).
		Msg("order status updated")

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return order, nil
}

func (s *orderService) enqueueReceipt(ctx context.Context, order *model.Order) {
	if order.CustomerEmail == "" {
		return
	}

	email := &model.ScheduledEmail{
		ID:        uuid.New(),
		Recipient: order.CustomerEmail,
		Subject:   fmt.Sprintf("Your Tenera Wellness order %s", order.PaymentReference),
		Body:      receiptBody(order),
		SendAt:    time.Now().UTC(),
		Status:    model.EmailStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.emails.Enqueue(ctx, email); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to queue receipt email")
	}
}

func (s *orderService) generateInvoice(ctx context.Context, order *model.Order) {
	if s.invoices == nil {
		return
	}

	key, err := s.invoices.Generate(ctx, order)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to generate invoice")
		return
	}

	if err := s.orders.SetInvoiceKey(ctx, order.ID, key); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to record invoice key")
		return
	}
	order.InvoiceKey = &key
}

func receiptBody(order *model.Order) string {
	body := fmt.Sprintf("Thank you for your order!\n\nReference: %s\n\n", order.PaymentReference)
	for _, item := range order.Items {
		body += fmt.Sprintf("  %s x%d - %.2f\n", item.Name, item.Quantity, item.Price)
	}
	body += fmt.Sprintf("\nSubtotal: %.2f\n", order.Subtotal)
	if order.DiscountAmount > 0 {
		body += fmt.Sprintf("Discount: -%.2f\n", order.DiscountAmount)
	}
	body += fmt.Sprintf("Total: %.2f\n", order.Total)
	return body
}

func deliveryAddress(info *model.CustomerInfo) string {
	addr := info.Address
	if info.City != "" {
		if addr != "" {
			addr += ", "
		}
		addr += info.City
	}
	if info.State != "" {
		if addr != "" {
			addr += ", "
		}
		addr += info.State
	}
	return addr
}
