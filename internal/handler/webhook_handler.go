package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"tenera-store/internal/config"
	"tenera-store/internal/model"
	"tenera-store/internal/payment"
	"tenera-store/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBody bounds the raw payload read for signature checking.
const maxWebhookBody = 1 << 20

// WebhookHandler handles inbound gateway and messaging callbacks.
type WebhookHandler struct {
	orders        service.OrderService
	paystackKey   string
	whatsappToken string
	logger        zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(orders service.OrderService, paystack config.PaystackConfig, whatsapp config.WhatsAppConfig, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		orders:        orders,
		paystackKey:   paystack.SecretKey,
		whatsappToken: whatsapp.VerifyToken,
		logger:        logger.With().Str("handler", "webhook").Logger(),
	}
}

// Paystack receives gateway events. The HMAC of the raw body is checked
// before any parsing; only charge.success does work, everything else is
// acknowledged and dropped. POST /api/v1/webhooks/paystack
func (h *WebhookHandler) Paystack(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "failed to read request body", h.logger)
		return
	}

	signature := r.Header.Get(payment.SignatureHeader)
	if !payment.VerifySignature(h.paystackKey, body, signature) {
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("webhook signature rejected")
		writeDomainError(w, model.ErrInvalidSignature, h.logger)
		return
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "webhook body is not valid JSON", h.logger)
		return
	}

	if event.Event != "charge.success" {
		h.logger.Debug().Str("event", event.Event).Msg("ignoring webhook event")
		w.WriteHeader(http.StatusOK)
		return
	}

	var charge payment.ChargeData
	if err := json.Unmarshal(event.Data, &charge); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "charge payload is not valid JSON", h.logger)
		return
	}

	order, err := h.orders.ConfirmPayment(r.Context(), &charge)
	if err != nil {
		h.logger.Error().Err(err).Str("reference", charge.Reference).Msg("failed to confirm payment")
		writeError(w, http.StatusInternalServerError, model.ErrCodePaymentFailed, "failed to process payment", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"orderId": order.ID.String()})
}

// WhatsAppVerify answers the Business API subscription handshake.
// GET /api/v1/webhooks/whatsapp
func (h *WebhookHandler) WhatsAppVerify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("hub.mode") == "subscribe" && query.Get("hub.verify_token") == h.whatsappToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(query.Get("hub.challenge")))
		return
	}

	h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("whatsapp verification rejected")
	w.WriteHeader(http.StatusForbidden)
}

// WhatsAppReceive acknowledges inbound message notifications. Delivery
// receipts are logged; no reply flow exists yet.
// POST /api/v1/webhooks/whatsapp
func (h *WebhookHandler) WhatsAppReceive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.logger.Debug().Int("bytes", len(body)).Msg("whatsapp notification received")
	w.WriteHeader(http.StatusOK)
}
