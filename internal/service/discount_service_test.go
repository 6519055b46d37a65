package service

import (
	"context"
	"testing"
	"time"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestDiscountService_Validate(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name    string
		code    *model.DiscountCode
		wantErr error
	}{
		{
			name:    "valid percentage code",
			code:    &model.DiscountCode{Code: "WELLNESS10", Type: model.DiscountTypePercentage, Value: 10, IsActive: true},
			wantErr: nil,
		},
		{
			name:    "unknown code",
			code:    nil,
			wantErr: model.ErrDiscountNotFound,
		},
		{
			name:    "inactive",
			code:    &model.DiscountCode{Code: "WELLNESS10", Type: model.DiscountTypePercentage, Value: 10, IsActive: false},
			wantErr: model.ErrDiscountInactive,
		},
		{
			name:    "expired",
			code:    &model.DiscountCode{Code: "WELLNESS10", Type: model.DiscountTypePercentage, Value: 10, IsActive: true, ExpiresAt: &past},
			wantErr: model.ErrDiscountExpired,
		},
		{
			name:    "not yet expired",
			code:    &model.DiscountCode{Code: "WELLNESS10", Type: model.DiscountTypePercentage, Value: 10, IsActive: true, ExpiresAt: &future},
			wantErr: nil,
		},
		{
			name:    "exhausted",
			code:    &model.DiscountCode{Code: "WELLNESS10", Type: model.DiscountTypePercentage, Value: 10, IsActive: true, MaxUses: intPtr(5), CurrentUses: 5},
			wantErr: model.ErrDiscountExhausted,
		},
		{
			name:    "under usage cap",
			code:    &model.DiscountCode{Code: "WELLNESS10", Type: model.DiscountTypePercentage, Value: 10, IsActive: true, MaxUses: intPtr(5), CurrentUses: 4},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDiscountRepository)
			repo.On("GetByCode", mock.Anything, "WELLNESS10").Return(tt.code, nil)

			svc := NewDiscountService(repo, zerolog.Nop())
			got, err := svc.Validate(context.Background(), "wellness10 ")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "WELLNESS10", got.Code)
		})
	}
}

func TestDiscountService_Quote(t *testing.T) {
	svc := NewDiscountService(new(MockDiscountRepository), zerolog.Nop())

	tests := []struct {
		name         string
		code         model.DiscountCode
		subtotal     float64
		wantDiscount float64
		wantTotal    float64
	}{
		{
			name:         "ten percent off 28000",
			code:         model.DiscountCode{Type: model.DiscountTypePercentage, Value: 10},
			subtotal:     28000,
			wantDiscount: 2800,
			wantTotal:    25200,
		},
		{
			name:         "fixed amount",
			code:         model.DiscountCode{Type: model.DiscountTypeFixedAmount, Value: 5000},
			subtotal:     28000,
			wantDiscount: 5000,
			wantTotal:    23000,
		},
		{
			name:         "fixed amount clamped at subtotal",
			code:         model.DiscountCode{Type: model.DiscountTypeFixedAmount, Value: 50000},
			subtotal:     28000,
			wantDiscount: 28000,
			wantTotal:    0,
		},
		{
			name:         "full percentage",
			code:         model.DiscountCode{Type: model.DiscountTypePercentage, Value: 100},
			subtotal:     28000,
			wantDiscount: 28000,
			wantTotal:    0,
		},
		{
			name:         "fractional percentage rounds to kobo",
			code:         model.DiscountCode{Type: model.DiscountTypePercentage, Value: 12.5},
			subtotal:     999.99,
			wantDiscount: 125,
			wantTotal:    874.99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, total := svc.Quote(&tt.code, tt.subtotal)
			assert.Equal(t, tt.wantDiscount, discount)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestDiscountService_CreateValidation(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewDiscountService(repo, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name    string
		req     model.DiscountCodeRequest
		wantErr bool
	}{
		{"valid", model.DiscountCodeRequest{Code: "save10", Type: model.DiscountTypePercentage, Value: 10}, false},
		{"empty code", model.DiscountCodeRequest{Type: model.DiscountTypePercentage, Value: 10}, true},
		{"percentage over 100", model.DiscountCodeRequest{Code: "X", Type: model.DiscountTypePercentage, Value: 150}, true},
		{"zero fixed amount", model.DiscountCodeRequest{Code: "X", Type: model.DiscountTypeFixedAmount, Value: 0}, true},
		{"unknown type", model.DiscountCodeRequest{Code: "X", Type: "bogus", Value: 10}, true},
		{"max uses below one", model.DiscountCodeRequest{Code: "X", Type: model.DiscountTypePercentage, Value: 10, MaxUses: intPtr(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, err := svc.Create(ctx, &tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			// Codes canonicalise to upper case.
			assert.Equal(t, "SAVE10", dc.Code)
			assert.NotEqual(t, uuid.Nil, dc.ID)
			assert.True(t, dc.IsActive)
		})
	}
}
