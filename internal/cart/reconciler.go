package cart

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"tenera-store/internal/model"

	"github.com/rs/zerolog"
)

// ReadyBroadcaster announces to the external origin that this side is
// ready to receive cart data. A nil broadcaster disables the announce
// loop (bridge not configured).
type ReadyBroadcaster interface {
	PublishReady(ctx context.Context, sessionID string) error
}

// Reconciler determines a session cart's initial contents from the
// competing sources: URL query parameters first, then the stored key
// set, with the bridge free to overwrite later. It runs at most once
// per session; repeat calls return the current state untouched. The
// once-per-session claim lives in Redis beside the cart, so it is
// shared by every replica and expires with the session.
type Reconciler struct {
	store       *Store
	cartService *Service
	broadcaster ReadyBroadcaster
	interval    time.Duration
	window      time.Duration
	logger      zerolog.Logger
}

// NewReconciler creates a reconciler. interval and window bound the
// CART_READY announce loop.
func NewReconciler(
	store *Store,
	cartService *Service,
	broadcaster ReadyBroadcaster,
	interval, window time.Duration,
	logger zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		store:       store,
		cartService: cartService,
		broadcaster: broadcaster,
		interval:    interval,
		window:      window,
		logger:      logger.With().Str("component", "cart-reconciler").Logger(),
	}
}

// Restore resolves the session's initial cart. Priority order, first
// success wins:
//
//  1. a `cart` query parameter (JSON array), adopted with external
//     checkout mode flagged;
//  2. the stored key set, external mode when the winning key belongs
//     to the landing-page origin.
//
// A `customerInfo` parameter is persisted as a side effect independent
// of where the cart came from. Whatever the outcome, a bounded
// CART_READY announce loop gives the external origin a window to push
// fresher data; a push arriving inside that window simply overwrites
// the adopted state.
func (r *Reconciler) Restore(ctx context.Context, sessionID string, params url.Values) model.CartSummary {
	if !r.store.MarkRestored(ctx, sessionID) {
		return r.cartService.Get(ctx, sessionID)
	}

	// customerInfo side effect is independent of the cart source.
	if raw := params.Get("customerInfo"); raw != "" {
		var info model.CustomerInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			r.logger.Warn().Str("session_id", sessionID).Msg("ignoring malformed customerInfo parameter")
		} else if err := r.store.SetCustomerInfo(ctx, sessionID, info); err != nil {
			r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist customer info")
		}
	}

	summary, adopted := r.adoptFromParams(ctx, sessionID, params)
	if !adopted {
		items, source := r.store.Load(ctx, sessionID)
		external := IsExternalSource(source)
		if len(items) > 0 {
			r.store.SetExternalMode(ctx, sessionID, external)
			r.logger.Info().
				Str("session_id", sessionID).
				Str("source", source).
				Int("item_count", len(items)).
				Bool("external", external).
				Msg("cart restored from storage")
		}
		summary = summarise(items, source, external)
	}

	r.startReadyLoop(sessionID)

	return summary
}

// adoptFromParams handles step 1: a JSON-encoded cart carried in the
// URL. Malformed or invalid payloads are skipped, not fatal.
func (r *Reconciler) adoptFromParams(ctx context.Context, sessionID string, params url.Values) (model.CartSummary, bool) {
	raw := params.Get("cart")
	if raw == "" {
		return model.CartSummary{}, false
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.logger.Warn().Str("session_id", sessionID).Msg("ignoring malformed cart parameter")
		return model.CartSummary{}, false
	}
	if len(items) == 0 {
		return model.CartSummary{}, false
	}
	if err := ValidateItems(items); err != nil {
		r.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Msg("cart parameter failed schema validation")
		return model.CartSummary{}, false
	}

	summary := r.cartService.Replace(ctx, sessionID, items, true)
	summary.Source = "url"

	r.logger.Info().
		Str("session_id", sessionID).
		Int("item_count", len(items)).
		Msg("cart adopted from URL parameter")

	return summary, true
}

// startReadyLoop announces CART_READY every interval until the window
// closes. Publish failures are logged and not retried.
func (r *Reconciler) startReadyLoop(sessionID string) {
	if r.broadcaster == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.window)
		defer cancel()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		// Announce immediately, then on every tick.
		if err := r.broadcaster.PublishReady(ctx, sessionID); err != nil {
			r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("CART_READY publish failed")
		}

		for {
			select {
			case <-ctx.Done():
				r.logger.Debug().Str("session_id", sessionID).Msg("CART_READY window closed")
				return
			case <-ticker.C:
				if err := r.broadcaster.PublishReady(ctx, sessionID); err != nil {
					r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("CART_READY publish failed")
				}
			}
		}
	}()
}
