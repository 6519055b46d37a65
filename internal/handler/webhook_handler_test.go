package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tenera-store/internal/config"
	"tenera-store/internal/model"
	"tenera-store/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) ConfirmPayment(ctx context.Context, charge *payment.ChargeData) (*model.Order, error) {
	args := m.Called(ctx, charge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderService) List(ctx context.Context, status string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

const webhookSecret = "sk_test_webhook"

func signBody(body string) string {
	mac := hmac.New(sha512.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookHandler(orders *mockOrderService) *WebhookHandler {
	return NewWebhookHandler(
		orders,
		config.PaystackConfig{SecretKey: webhookSecret},
		config.WhatsAppConfig{VerifyToken: "verify-me"},
		zerolog.Nop(),
	)
}

func TestWebhookHandler_PaystackChargeSuccess(t *testing.T) {
	body := `{"event":"charge.success","data":{"reference":"TENERA_000000042","amount":2520000,"status":"success","metadata":{"session_id":"s1"}}}`

	orders := new(mockOrderService)
	orders.On("ConfirmPayment", mock.Anything, mock.MatchedBy(func(c *payment.ChargeData) bool {
		return c.Reference == "TENERA_000000042" && c.Amount == 2520000
	})).Return(&model.Order{ID: uuid.New(), Status: model.OrderStatusPaid}, nil)

	h := newWebhookHandler(orders)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	req.Header.Set(payment.SignatureHeader, signBody(body))
	w := httptest.NewRecorder()
	h.Paystack(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "orderId")
	orders.AssertExpectations(t)
}

func TestWebhookHandler_PaystackBadSignature(t *testing.T) {
	body := `{"event":"charge.success","data":{"reference":"TENERA_000000042"}}`

	orders := new(mockOrderService)
	h := newWebhookHandler(orders)

	tests := []struct {
		name      string
		signature string
	}{
		{"missing signature", ""},
		{"tampered signature", signBody(body + " ")},
		{"garbage signature", "not-hex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(payment.SignatureHeader, tt.signature)
			}
			w := httptest.NewRecorder()
			h.Paystack(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	orders.AssertNotCalled(t, "ConfirmPayment")
}

func TestWebhookHandler_PaystackIgnoresOtherEvents(t *testing.T) {
	body := `{"event":"transfer.success","data":{"reference":"TRF_1"}}`

	orders := new(mockOrderService)
	h := newWebhookHandler(orders)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	req.Header.Set(payment.SignatureHeader, signBody(body))
	w := httptest.NewRecorder()
	h.Paystack(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertNotCalled(t, "ConfirmPayment")
}

func TestWebhookHandler_PaystackConfirmFailure(t *testing.T) {
	body := `{"event":"charge.success","data":{"reference":"TENERA_000000042","status":"success"}}`

	orders := new(mockOrderService)
	orders.On("ConfirmPayment", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	h := newWebhookHandler(orders)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	req.Header.Set(payment.SignatureHeader, signBody(body))
	w := httptest.NewRecorder()
	h.Paystack(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookHandler_WhatsAppVerify(t *testing.T) {
	h := newWebhookHandler(new(mockOrderService))

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid handshake echoes challenge",
			query:          "hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345",
			expectedStatus: http.StatusOK,
			expectedBody:   "12345",
		},
		{
			name:           "wrong token rejected",
			query:          "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "wrong mode rejected",
			query:          "hub.mode=unsubscribe&hub.verify_token=verify-me",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?"+tt.query, nil)
			w := httptest.NewRecorder()
			h.WhatsAppVerify(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestWebhookHandler_WhatsAppReceive(t *testing.T) {
	h := newWebhookHandler(new(mockOrderService))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(`{"entry":[]}`))
	w := httptest.NewRecorder()
	h.WhatsAppReceive(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
