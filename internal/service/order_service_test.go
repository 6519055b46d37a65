package service

import (
	"context"
	"testing"

	"tenera-store/internal/model"
	"tenera-store/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func successCharge(sessionID string) *payment.ChargeData {
	charge := &payment.ChargeData{
		Reference: "TENERA_000000042",
		Amount:    2520000,
		Status:    "success",
		Metadata: map[string]string{
			"session_id":    sessionID,
			"discount_code": "WELLNESS10",
		},
	}
	charge.Customer.Email = "ada@example.com"
	return charge
}

// verifiedGateway returns a gateway mock whose VerifyTransaction
// reports a successful charge for the given amount in kobo.
func verifiedGateway(reference string, amount int64) *MockGateway {
	gateway := new(MockGateway)
	gateway.On("VerifyTransaction", mock.Anything, reference).
		Return(&payment.Transaction{Status: "success", Reference: reference, Amount: amount}, nil)
	return gateway
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	carts, store := newCartFixture(t)
	ctx := context.Background()

	seedCart(t, carts, "s1", model.CartItem{ID: "bundle", SKU: "bundle", Name: "Wellness Bundle", Price: 28000, Quantity: 1})
	require.NoError(t, store.SetCustomerInfo(ctx, "s1", model.CustomerInfo{
		Name: "Ada", Email: "ada@example.com", Phone: "+2348000000000", Address: "1 Main St", City: "Lagos",
	}))

	orders := new(MockOrderRepository)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.PaymentReference == "TENERA_000000042" &&
			o.Status == model.OrderStatusPaid &&
			o.Subtotal == 28000 &&
			o.Total == 25200 &&
			o.DiscountAmount == 2800 &&
			o.DiscountCode != nil && *o.DiscountCode == "WELLNESS10" &&
			o.CustomerName == "Ada" &&
			o.DeliveryAddress == "1 Main St, Lagos" &&
			len(o.Items) == 1
	})).Return(nil)

	discounts := new(MockDiscountRepository)
	discounts.On("IncrementUsage", mock.Anything, "WELLNESS10").Return(nil)

	emails := new(MockEmailRepository)
	emails.On("Enqueue", mock.Anything, mock.MatchedBy(func(e *model.ScheduledEmail) bool {
		return e.Recipient == "ada@example.com" && e.Status == model.EmailStatusPending
	})).Return(nil)

	gateway := verifiedGateway("TENERA_000000042", 2520000)

	svc := NewOrderService(orders, discounts, emails, carts, store, gateway, nil, zerolog.Nop())

	order, err := svc.ConfirmPayment(ctx, successCharge("s1"))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)

	// The session cart is cleared after the order lands.
	assert.Empty(t, carts.Get(ctx, "s1").Items)

	orders.AssertExpectations(t)
	discounts.AssertExpectations(t)
	emails.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestOrderService_ConfirmPaymentUsesVerifiedAmount(t *testing.T) {
	carts, store := newCartFixture(t)
	ctx := context.Background()

	seedCart(t, carts, "s1", model.CartItem{ID: "bundle", SKU: "bundle", Name: "Wellness Bundle", Price: 28000, Quantity: 1})

	// A tampered webhook body claims a lower amount than the gateway
	// actually settled. The verified amount must win.
	charge := successCharge("s1")
	charge.Amount = 100

	orders := new(MockOrderRepository)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.Total == 25200 && o.Subtotal == 28000
	})).Return(nil)

	discounts := new(MockDiscountRepository)
	discounts.On("IncrementUsage", mock.Anything, "WELLNESS10").Return(nil)

	emails := new(MockEmailRepository)
	emails.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	gateway := verifiedGateway("TENERA_000000042", 2520000)

	svc := NewOrderService(orders, discounts, emails, carts, store, gateway, nil, zerolog.Nop())

	order, err := svc.ConfirmPayment(ctx, charge)
	require.NoError(t, err)
	assert.Equal(t, 25200.0, order.Total)

	orders.AssertExpectations(t)
}

func TestOrderService_ConfirmPaymentRejectsFailedVerification(t *testing.T) {
	carts, store := newCartFixture(t)
	seedCart(t, carts, "s1", model.CartItem{ID: "bundle", Name: "Bundle", Price: 25200, Quantity: 1})

	orders := new(MockOrderRepository)

	gateway := new(MockGateway)
	gateway.On("VerifyTransaction", mock.Anything, "TENERA_000000042").
		Return(&payment.Transaction{Status: "failed", Reference: "TENERA_000000042"}, nil)

	svc := NewOrderService(orders, new(MockDiscountRepository), new(MockEmailRepository), carts, store, gateway, nil, zerolog.Nop())

	_, err := svc.ConfirmPayment(context.Background(), successCharge("s1"))
	assert.Error(t, err)

	// Nothing is written when the gateway disowns the charge.
	orders.AssertNotCalled(t, "Create")
	assert.NotEmpty(t, carts.Get(context.Background(), "s1").Items)
}

func TestOrderService_ConfirmPaymentDuplicateIsNoOp(t *testing.T) {
	carts, store := newCartFixture(t)
	seedCart(t, carts, "s1", model.CartItem{ID: "bundle", Name: "Bundle", Price: 25200, Quantity: 1})

	existing := &model.Order{ID: uuid.New(), PaymentReference: "TENERA_000000042", Status: model.OrderStatusPaid}

	orders := new(MockOrderRepository)
	orders.On("Create", mock.Anything, mock.Anything).Return(model.ErrDuplicateReference)
	orders.On("GetByReference", mock.Anything, "TENERA_000000042").Return(existing, nil)

	discounts := new(MockDiscountRepository)
	emails := new(MockEmailRepository)

	svc := NewOrderService(orders, discounts, emails, carts, store, verifiedGateway("TENERA_000000042", 2520000), nil, zerolog.Nop())

	order, err := svc.ConfirmPayment(context.Background(), successCharge("s1"))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, order.ID)

	// No discount burn, no receipt, and the cart survives the replay.
	discounts.AssertNotCalled(t, "IncrementUsage")
	emails.AssertNotCalled(t, "Enqueue")
	assert.NotEmpty(t, carts.Get(context.Background(), "s1").Items)
}

func TestOrderService_ConfirmPaymentRejectsNonSuccess(t *testing.T) {
	carts, store := newCartFixture(t)
	gateway := new(MockGateway)
	svc := NewOrderService(new(MockOrderRepository), new(MockDiscountRepository), new(MockEmailRepository), carts, store, gateway, nil, zerolog.Nop())

	charge := successCharge("s1")
	charge.Status = "failed"

	_, err := svc.ConfirmPayment(context.Background(), charge)
	assert.Error(t, err)

	// A non-success event is dropped before the gateway round trip.
	gateway.AssertNotCalled(t, "VerifyTransaction")
}

func TestOrderService_UpdateStatus(t *testing.T) {
	carts, store := newCartFixture(t)

	orderID := uuid.New()

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"paid to fulfilled", model.OrderStatusPaid, model.OrderStatusFulfilled, nil},
		{"pending to paid", model.OrderStatusPending, model.OrderStatusPaid, nil},
		{"paid to cancelled", model.OrderStatusPaid, model.OrderStatusCancelled, nil},
		{"fulfilled back to paid", model.OrderStatusFulfilled, model.OrderStatusPaid, model.ErrInvalidTransition},
		{"pending to fulfilled", model.OrderStatusPending, model.OrderStatusFulfilled, model.ErrInvalidTransition},
		{"cancelled to cancelled", model.OrderStatusCancelled, model.OrderStatusCancelled, model.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderRepository)
			orders.On("GetByID", mock.Anything, orderID).Return(&model.Order{ID: orderID, Status: tt.from}, nil)
			if tt.wantErr == nil {
				orders.On("UpdateStatus", mock.Anything, orderID, tt.to).Return(nil)
			}

			svc := NewOrderService(orders, new(MockDiscountRepository), new(MockEmailRepository), carts, store, new(MockGateway), nil, zerolog.Nop())

			order, err := svc.UpdateStatus(context.Background(), orderID, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
		})
	}
}

func TestOrderService_UpdateStatusNotFound(t *testing.T) {
	carts, store := newCartFixture(t)

	orders := new(MockOrderRepository)
	orders.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewOrderService(orders, new(MockDiscountRepository), new(MockEmailRepository), carts, store, new(MockGateway), nil, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusPaid)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
