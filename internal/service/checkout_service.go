package service

import (
	"context"
	"strings"

	"tenera-store/internal/cart"
	"tenera-store/internal/model"
	"tenera-store/internal/payment"
	"tenera-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements the CheckoutService interface.
type checkoutService struct {
	carts     *cart.Service
	store     *cart.Store
	bumps     repository.BumpRepository
	discounts DiscountService
	gateway   PaymentGateway
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts *cart.Service,
	store *cart.Store,
	bumps repository.BumpRepository,
	discounts DiscountService,
	gateway PaymentGateway,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		carts:     carts,
		store:     store,
		bumps:     bumps,
		discounts: discounts,
		gateway:   gateway,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// EligibleBumps returns active bumps whose minimum cart value the
// session currently meets.
func (s *checkoutService) EligibleBumps(ctx context.Context, sessionID string) ([]model.OrderBump, error) {
	summary := s.carts.Get(ctx, sessionID)

	active, err := s.bumps.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]model.OrderBump, 0, len(active))
	for _, b := range active {
		if b.MinCartValue != nil && summary.Total < *b.MinCartValue {
			continue
		}
		eligible = append(eligible, b)
	}
	return eligible, nil
}

// AcceptBump materialises a bump as a synthetic cart line. The line is
// pinned to quantity 1: accepting the same bump twice leaves the cart
// unchanged.
func (s *checkoutService) AcceptBump(ctx context.Context, sessionID string, bumpID uuid.UUID) (model.CartSummary, error) {
	bump, err := s.bumps.GetByID(ctx, bumpID)
	if err != nil {
		return model.CartSummary{}, err
	}
	if bump == nil || !bump.IsActive {
		return model.CartSummary{}, model.ErrBumpNotFound
	}

	summary := s.carts.Get(ctx, sessionID)
	if bump.MinCartValue != nil && summary.Total < *bump.MinCartValue {
		return model.CartSummary{}, model.ErrBumpNotEligible
	}

	line := bump.CartItem()
	for _, item := range summary.Items {
		if item.ID == line.ID {
			return summary, nil
		}
	}

	updated := s.carts.Replace(ctx, sessionID, append(summary.Items, line), summary.External)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("bump_id", bumpID.String()).
		Float64("offer_price", bump.OfferPrice()).
		Msg("order bump accepted")

	return updated, nil
}

// Upsells returns the active post-checkout offers.
func (s *checkoutService) Upsells(ctx context.Context) ([]model.UpsellProduct, error) {
	return s.bumps.ListUpsells(ctx, true)
}

// Start snapshots the cart, applies the discount, and initialises a
// gateway transaction. The session keeps the issued reference so the
// success page can look the payment up without a round trip.
func (s *checkoutService) Start(ctx context.Context, sessionID string, req *CheckoutRequest) (*CheckoutResult, error) {
	if strings.TrimSpace(req.Customer.Email) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Customer email is required")
	}

	summary := s.carts.Get(ctx, sessionID)
	if len(summary.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	subtotal := summary.Total
	total := subtotal
	discount := 0.0

	code := strings.ToUpper(strings.TrimSpace(req.DiscountCode))
	if code != "" {
		dc, err := s.discounts.Validate(ctx, code)
		if err != nil {
			return nil, err
		}
		discount, total = s.discounts.Quote(dc, subtotal)
	}

	reference, err := payment.NewReference()
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"session_id": sessionID}
	if code != "" {
		metadata["discount_code"] = code
	}

	auth, err := s.gateway.InitializeTransaction(ctx, payment.InitializeRequest{
		Email:     req.Customer.Email,
		Amount:    payment.ToKobo(total),
		Reference: reference,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.SetCustomerInfo(ctx, sessionID, req.Customer); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist customer info")
	}
	s.store.SetLastPaymentReference(ctx, sessionID, reference)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("reference", reference).
		Float64("total", total).
		Msg("checkout started")

	return &CheckoutResult{
		Reference:        reference,
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
		Subtotal:         subtotal,
		Discount:         discount,
		Total:            total,
		AmountKobo:       payment.ToKobo(total),
	}, nil
}
