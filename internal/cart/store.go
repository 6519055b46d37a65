package cart

import (
	"context"
	"encoding/json"
	"time"

	"tenera-store/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// The landing-page system reads and writes carts under several legacy
// names. Save fans the same payload out to every write key; Load walks
// the priority order and takes the first key that decodes to a
// non-empty array.
var (
	saveKeys = []string{
		"systemeCart",
		"cart",
		"cartItems",
		"teneraCart",
		"pendingOrderData",
	}

	loadPriority = []string{
		"TENERA_CART_UPDATE",
		"teneraCart",
		"TeneraShoppingCart",
		"systemeCart",
		"cart",
		"cartItems",
		"pendingOrderData",
	}

	externalKeys = map[string]struct{}{
		"TENERA_CART_UPDATE": {},
		"teneraCart":         {},
		"TeneraShoppingCart": {},
		"systemeCart":        {},
	}
)

// Session-scoped keys that sit beside the cart payload.
const (
	fieldCustomerInfo  = "customerInfo"
	fieldCustomerEmail = "customerEmail"
	fieldExternalMode  = "externalCheckoutMode"
	fieldLastReference = "lastPaymentReference"
	fieldRestored      = "restoreDone"
)

// IsExternalSource reports whether a storage key is written by the
// external landing-page origin.
func IsExternalSource(key string) bool {
	_, ok := externalKeys[key]
	return ok
}

// Store persists session carts in Redis across the legacy key set.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStore creates a Redis-backed cart store.
func NewStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// Save serialises the cart once and writes the identical payload to
// every key in the save set. Write failures are logged, never returned:
// a failed persistence must not break the in-flight request.
func (s *Store) Save(ctx context.Context, sessionID string, items []model.CartItem) {
	if items == nil {
		items = []model.CartItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to serialise cart")
		return
	}

	pipe := s.client.Pipeline()
	for _, key := range saveKeys {
		pipe.Set(ctx, s.key(sessionID, key), payload, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Int("item_count", len(items)).
			Msg("failed to persist cart")
		return
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Int("item_count", len(items)).
		Msg("cart persisted to all keys")
}

// Load walks the load priority order and returns the first key that
// decodes to a non-empty array, along with the key it came from.
// Malformed JSON is skipped, not fatal; an empty array counts as
// "no data", not as a cleared cart.
func (s *Store) Load(ctx context.Context, sessionID string) ([]model.CartItem, string) {
	for _, key := range loadPriority {
		raw, err := s.client.Get(ctx, s.key(sessionID, key)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("session_id", sessionID).
				Str("key", key).
				Msg("failed to read cart key")
			continue
		}

		var items []model.CartItem
		if err := json.Unmarshal(raw, &items); err != nil {
			s.logger.Warn().
				Str("session_id", sessionID).
				Str("key", key).
				Msg("skipping malformed cart payload")
			continue
		}

		if len(items) == 0 {
			continue
		}

		s.logger.Debug().
			Str("session_id", sessionID).
			Str("key", key).
			Int("item_count", len(items)).
			Msg("cart loaded")
		return items, key
	}

	return []model.CartItem{}, ""
}

// SetCustomerInfo persists the checkout contact block and mirrors the
// email under its own key for campaign lookups.
func (s *Store) SetCustomerInfo(ctx context.Context, sessionID string, info model.CustomerInfo) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(sessionID, fieldCustomerInfo), payload, s.ttl)
	if info.Email != "" {
		pipe.Set(ctx, s.key(sessionID, fieldCustomerEmail), info.Email, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// CustomerInfo returns the stored contact block, if any.
func (s *Store) CustomerInfo(ctx context.Context, sessionID string) (*model.CustomerInfo, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID, fieldCustomerInfo)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var info model.CustomerInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetExternalMode records whether the session cart came from outside
// this application.
func (s *Store) SetExternalMode(ctx context.Context, sessionID string, external bool) {
	value := "false"
	if external {
		value = "true"
	}
	if err := s.client.Set(ctx, s.key(sessionID, fieldExternalMode), value, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist external mode flag")
	}
}

// ExternalMode reports whether the session is flagged as externally
// sourced.
func (s *Store) ExternalMode(ctx context.Context, sessionID string) bool {
	value, err := s.client.Get(ctx, s.key(sessionID, fieldExternalMode)).Result()
	if err != nil {
		return false
	}
	return value == "true"
}

// SetLastPaymentReference records the most recent payment reference
// issued for the session.
func (s *Store) SetLastPaymentReference(ctx context.Context, sessionID, reference string) {
	if err := s.client.Set(ctx, s.key(sessionID, fieldLastReference), reference, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist payment reference")
	}
}

// LastPaymentReference returns the most recent payment reference for
// the session, or empty.
func (s *Store) LastPaymentReference(ctx context.Context, sessionID string) string {
	value, err := s.client.Get(ctx, s.key(sessionID, fieldLastReference)).Result()
	if err != nil {
		return ""
	}
	return value
}

// MarkRestored claims the session's one-shot restore. It returns true
// the first time a session is seen. The flag lives in Redis under the
// cart TTL, so it holds across restarts and between replicas.
func (s *Store) MarkRestored(ctx context.Context, sessionID string) bool {
	claimed, err := s.client.SetNX(ctx, s.key(sessionID, fieldRestored), "1", s.ttl).Result()
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to claim restore flag")
		return false
	}
	return claimed
}

func (s *Store) key(sessionID, name string) string {
	return "sess:" + sessionID + ":" + name
}
