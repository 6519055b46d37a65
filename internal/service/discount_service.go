package service

import (
	"context"
	"strings"
	"time"

	"tenera-store/internal/model"
	"tenera-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// discountService implements the DiscountService interface.
type discountService struct {
	repo   repository.DiscountRepository
	logger zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(repo repository.DiscountRepository, logger zerolog.Logger) DiscountService {
	return &discountService{
		repo:   repo,
		logger: logger.With().Str("service", "discount").Logger(),
	}
}

// Validate checks a code is usable right now. Codes are matched
// case-insensitively; the stored form is canonical upper case.
func (s *discountService) Validate(ctx context.Context, code string) (*model.DiscountCode, error) {
	dc, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, model.ErrDiscountNotFound
	}
	if !dc.IsActive {
		return nil, model.ErrDiscountInactive
	}
	if dc.ExpiresAt != nil && time.Now().After(*dc.ExpiresAt) {
		return nil, model.ErrDiscountExpired
	}
	if dc.MaxUses != nil && dc.CurrentUses >= *dc.MaxUses {
		return nil, model.ErrDiscountExhausted
	}
	return dc, nil
}

// Quote computes the discount and discounted total for a subtotal.
// Percentage codes take value% off; fixed codes take value off, clamped
// so the total never goes negative.
func (s *discountService) Quote(dc *model.DiscountCode, subtotal float64) (float64, float64) {
	sub := decimal.NewFromFloat(subtotal)

	var off decimal.Decimal
	switch dc.Type {
	case model.DiscountTypePercentage:
		off = sub.Mul(decimal.NewFromFloat(dc.Value)).Div(decimal.NewFromInt(100)).Round(2)
	case model.DiscountTypeFixedAmount:
		off = decimal.NewFromFloat(dc.Value)
	default:
		off = decimal.Zero
	}

	if off.GreaterThan(sub) {
		off = sub
	}

	discount, _ := off.Float64()
	total, _ := sub.Sub(off).Float64()
	return discount, total
}

// List retrieves all codes for the admin screens.
func (s *discountService) List(ctx context.Context) ([]model.DiscountCode, error) {
	return s.repo.List(ctx)
}

// Create adds a new code.
func (s *discountService) Create(ctx context.Context, req *model.DiscountCodeRequest) (*model.DiscountCode, error) {
	if err := validateDiscountRequest(req); err != nil {
		return nil, err
	}

	dc := &model.DiscountCode{
		ID:        uuid.New(),
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:      req.Type,
		Value:     req.Value,
		MaxUses:   req.MaxUses,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if req.IsActive != nil {
		dc.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, dc); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", dc.Code).Str("type", dc.Type).Msg("discount code created")
	return dc, nil
}

// Update replaces a code's mutable fields.
func (s *discountService) Update(ctx context.Context, id uuid.UUID, req *model.DiscountCodeRequest) (*model.DiscountCode, error) {
	if err := validateDiscountRequest(req); err != nil {
		return nil, err
	}

	dc := &model.DiscountCode{
		ID:        id,
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:      req.Type,
		Value:     req.Value,
		MaxUses:   req.MaxUses,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
	}
	if req.IsActive != nil {
		dc.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, dc); err != nil {
		return nil, err
	}
	return dc, nil
}

// Delete removes a code.
func (s *discountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateDiscountRequest(req *model.DiscountCodeRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Discount code is required")
	}
	switch req.Type {
	case model.DiscountTypePercentage:
		if req.Value <= 0 || req.Value > 100 {
			return model.NewDomainError(model.ErrCodeMissingField, "Percentage value must be between 0 and 100")
		}
	case model.DiscountTypeFixedAmount:
		if req.Value <= 0 {
			return model.NewDomainError(model.ErrCodeMissingField, "Fixed amount must be greater than zero")
		}
	default:
		return model.NewDomainError(model.ErrCodeMissingField, "Discount type must be percentage or fixed_amount")
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		return model.NewDomainError(model.ErrCodeMissingField, "Max uses must be at least 1")
	}
	return nil
}
