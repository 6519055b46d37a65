package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tenera-store/internal/config"
	"tenera-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Message types exchanged with the landing-page origin. The inbound
// contract is CART_DATA; this side answers with CART_READY while
// waiting and CART_RECEIVED after accepting a push.
const (
	msgTypeCartData     = "CART_DATA"
	msgTypeCartReady    = "CART_READY"
	msgTypeCartReceived = "CART_RECEIVED"

	messageSource = "tenera_store"
)

// InboundMessage is a cart push from the external origin.
type InboundMessage struct {
	Type        string           `json:"type"`
	SessionID   string           `json:"sessionId"`
	Origin      string           `json:"origin"`
	Cart        []model.CartItem `json:"cart"`
	RedirectURL string           `json:"redirectUrl,omitempty"`
}

// ReadyMessage announces that this side can accept cart data.
type ReadyMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
	Source    string `json:"source"`
}

// ReceivedMessage acknowledges an accepted (or rejected) cart push.
type ReceivedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Success   bool   `json:"success"`
	ItemCount int    `json:"itemCount"`
	Timestamp int64  `json:"timestamp"`
}

// messageReader is the subset of kafka.Reader the bridge consumes.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// messageWriter is the subset of kafka.Writer the bridge produces to.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Bridge accepts cart pushes from the external landing-page origin at
// any point in the session, not just at restore time. An accepted push
// replaces the whole session cart; there is no per-item merge.
type Bridge struct {
	reader      messageReader
	writer      messageWriter
	cartService *Service
	origins     map[string]struct{}
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBridge wires the bridge to Kafka using the configured topics.
func NewBridge(cfg config.KafkaConfig, allowedOrigins []string, cartService *Service, logger zerolog.Logger) *Bridge {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.InboundTopic,
		GroupID:  cfg.GroupID,
		MaxBytes: 1e6,
	})
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.OutboundTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return newBridge(reader, writer, allowedOrigins, cartService, logger)
}

func newBridge(reader messageReader, writer messageWriter, allowedOrigins []string, cartService *Service, logger zerolog.Logger) *Bridge {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Bridge{
		reader:      reader,
		writer:      writer,
		cartService: cartService,
		origins:     origins,
		logger:      logger.With().Str("component", "cart-bridge").Logger(),
		now:         time.Now,
	}
}

// Run consumes inbound messages until the context is cancelled.
// Individual bad messages are logged and dropped, never fatal.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info().Msg("cart bridge started")
	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		b.handleMessage(ctx, msg.Value)
	}
}

// handleMessage validates and applies one inbound payload.
func (b *Bridge) handleMessage(ctx context.Context, payload []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		b.logger.Warn().Msg("dropping malformed bridge payload")
		return
	}

	if msg.Type != msgTypeCartData {
		b.logger.Debug().Str("type", msg.Type).Msg("ignoring non-cart message")
		return
	}

	if msg.SessionID == "" {
		b.logger.Warn().Msg("dropping cart push without session id")
		return
	}

	// The browser original trusted any origin. The bridge requires the
	// push to name an origin on the allow-list.
	if _, ok := b.origins[msg.Origin]; !ok {
		b.logger.Warn().
			Str("session_id", msg.SessionID).
			Str("origin", msg.Origin).
			Msg("rejecting cart push from unlisted origin")
		b.acknowledge(ctx, msg.SessionID, false, 0)
		return
	}

	if msg.Cart == nil {
		b.logger.Warn().Str("session_id", msg.SessionID).Msg("rejecting cart push without cart array")
		b.acknowledge(ctx, msg.SessionID, false, 0)
		return
	}

	if err := ValidateItems(msg.Cart); err != nil {
		b.logger.Warn().
			Err(err).
			Str("session_id", msg.SessionID).
			Msg("cart push failed schema validation")
		b.acknowledge(ctx, msg.SessionID, false, 0)
		return
	}

	summary := b.cartService.Replace(ctx, msg.SessionID, msg.Cart, true)

	b.logger.Info().
		Str("session_id", msg.SessionID).
		Str("origin", msg.Origin).
		Int("item_count", summary.ItemCount).
		Msg("cart push accepted")

	b.acknowledge(ctx, msg.SessionID, true, summary.ItemCount)
}

// PublishReady emits a CART_READY announcement for the session.
func (b *Bridge) PublishReady(ctx context.Context, sessionID string) error {
	msg := ReadyMessage{
		Type:      msgTypeCartReady,
		SessionID: sessionID,
		Timestamp: b.now().UnixMilli(),
		Source:    messageSource,
	}
	return b.publish(ctx, sessionID, msg)
}

// acknowledge emits a CART_RECEIVED for a processed push. Failures are
// logged; the cart state is already committed either way.
func (b *Bridge) acknowledge(ctx context.Context, sessionID string, success bool, itemCount int) {
	msg := ReceivedMessage{
		Type:      msgTypeCartReceived,
		SessionID: sessionID,
		Success:   success,
		ItemCount: itemCount,
		Timestamp: b.now().UnixMilli(),
	}
	if err := b.publish(ctx, sessionID, msg); err != nil {
		b.logger.Warn().Err(err).Str("session_id", sessionID).Msg("CART_RECEIVED publish failed")
	}
}

func (b *Bridge) publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// Close releases the Kafka reader and writer.
func (b *Bridge) Close() error {
	var errs []error
	if err := b.reader.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
